package anomaly

import (
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/soocke/anomaly-watch-go/config"
	"github.com/soocke/anomaly-watch-go/domain/match"
)

const (
	referenceFile = "template.png"
	cropDir       = "group_templates"
)

// Library owns the per-room reference images, reference crops, and the
// baseline-region cache. It is populated once by LoadLibrary and read-only
// afterward; regions are computed on first use per room and cached until
// explicitly invalidated.
type Library struct {
	cfg    *config.Config
	logger *slog.Logger

	refs  map[Room]*image.NRGBA        // full reference frames
	pres  map[Room]*match.FramePrecomp // grayscale integral data per reference
	crops map[Room][]NamedTemplate     // sorted by feature name

	regions *lru.Cache[Room, []Region]
}

// LoadLibrary scans <BaseDir>/<room>/ for every configured room, loading the
// reference image and all grayscale crops. Rooms with a missing or unreadable
// reference and crops that fail to load are logged and skipped; they are
// excluded from detection rather than reported as errors.
func LoadLibrary(cfg *config.Config, logger *slog.Logger) (*Library, error) {
	cache, err := lru.New[Room, []Region](max(len(cfg.Rooms), 1))
	if err != nil {
		return nil, err
	}
	l := &Library{
		cfg:     cfg,
		logger:  logger,
		refs:    make(map[Room]*image.NRGBA, len(cfg.Rooms)),
		pres:    make(map[Room]*match.FramePrecomp, len(cfg.Rooms)),
		crops:   make(map[Room][]NamedTemplate, len(cfg.Rooms)),
		regions: cache,
	}
	for _, name := range cfg.Rooms {
		room := Room(name)
		refPath := filepath.Join(cfg.BaseDir, name, referenceFile)
		ref, err := imaging.Open(refPath)
		if err != nil {
			if logger != nil {
				logger.Warn("library: reference image unavailable, room excluded", "room", name, "path", refPath, "error", err)
			}
			continue
		}
		nrgba := imaging.Clone(ref)
		l.refs[room] = nrgba
		l.pres[room] = match.NewFramePrecomp(nrgba)
		l.crops[room] = l.loadCrops(name)
	}
	return l, nil
}

// loadCrops reads all PNG crops from the room's group_templates directory,
// converted to grayscale, sorted by feature name.
func (l *Library) loadCrops(room string) []NamedTemplate {
	dir := filepath.Join(l.cfg.BaseDir, room, cropDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if l.logger != nil {
			l.logger.Warn("library: no crop directory", "room", room, "path", dir, "error", err)
		}
		return nil
	}
	crops := make([]NamedTemplate, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".png" {
			continue
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		img, err := imaging.Open(filepath.Join(dir, e.Name()))
		if err != nil {
			if l.logger != nil {
				l.logger.Warn("library: crop unreadable, feature excluded", "room", room, "feature", name, "error", err)
			}
			continue
		}
		crops = append(crops, NamedTemplate{Name: name, Tmpl: match.NewTemplate(imaging.Grayscale(img))})
	}
	sort.Slice(crops, func(i, j int) bool { return crops[i].Name < crops[j].Name })
	return crops
}

// Reference returns the room's reference image, if loaded.
func (l *Library) Reference(room Room) (*image.NRGBA, bool) {
	ref, ok := l.refs[room]
	return ref, ok
}

// Regions returns the room's baseline regions, running the locator on first
// use and serving the cached result afterward. A room without a reference or
// without matching crops yields an empty slice.
func (l *Library) Regions(room Room) []Region {
	if cached, ok := l.regions.Get(room); ok {
		return cached
	}
	pre, ok := l.pres[room]
	if !ok {
		return nil
	}
	regs := LocateRegions(pre, l.crops[room], match.Options{
		Threshold: l.cfg.MatchThreshold,
		Stride:    l.cfg.Stride,
		Refine:    l.cfg.Refine,
	})
	l.regions.Add(room, regs)
	if l.logger != nil {
		l.logger.Info("library: baseline regions located", "room", room, "regions", len(regs), "crops", len(l.crops[room]))
	}
	return regs
}

// InvalidateRegions drops the cached baseline regions for room; the next
// Regions call recomputes them. Invalidation policy is up to the caller.
func (l *Library) InvalidateRegions(room Room) {
	l.regions.Remove(room)
}

// Rooms lists the configured room names that have a loaded reference image,
// in configuration order.
func (l *Library) Rooms() []Room {
	rooms := make([]Room, 0, len(l.refs))
	for _, name := range l.cfg.Rooms {
		if _, ok := l.refs[Room(name)]; ok {
			rooms = append(rooms, Room(name))
		}
	}
	return rooms
}

// CropPath returns the file path of a reference crop for presentation-side
// lookup (side-by-side display with a heatmap).
func (l *Library) CropPath(room Room, feature string) string {
	return filepath.Join(l.cfg.BaseDir, string(room), cropDir, feature+".png")
}
