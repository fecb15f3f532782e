package anomaly

import (
	"image"

	"github.com/soocke/anomaly-watch-go/domain/match"
)

// NamedTemplate pairs a reference crop's feature name with its precomputed
// matching data.
type NamedTemplate struct {
	Name string
	Tmpl *match.Template
}

// LocateRegions finds the best placement of each reference crop within the
// precomputed reference image via normalized cross-correlation. Crops whose
// best score falls below opts.Threshold are omitted: the room simply does
// not contain that feature. Output order follows the crops slice, so sorted
// input yields stable, repeatable results.
func LocateRegions(pre *match.FramePrecomp, crops []NamedTemplate, opts match.Options) []Region {
	if pre == nil {
		return nil
	}
	regions := make([]Region, 0, len(crops))
	for _, c := range crops {
		if c.Tmpl == nil {
			continue
		}
		res := match.Match(pre, c.Tmpl, opts)
		if !res.Found {
			continue
		}
		w, h := c.Tmpl.Size()
		regions = append(regions, Region{
			Name: c.Name,
			Box:  image.Rect(res.X, res.Y, res.X+w, res.Y+h),
		})
	}
	return regions
}
