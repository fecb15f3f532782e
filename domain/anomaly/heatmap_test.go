package anomaly

import "testing"

func TestJetColor_Endpoints(t *testing.T) {
	cold := jetColor(0)
	if cold.B <= cold.R || cold.B <= cold.G {
		t.Fatalf("zero intensity should map to blue, got %+v", cold)
	}
	hot := jetColor(255)
	if hot.R <= hot.B || hot.R <= hot.G {
		t.Fatalf("full intensity should map to red, got %+v", hot)
	}
}

func TestRenderHeatmap_ClipsAdditiveBlend(t *testing.T) {
	live := synthGray(8, 8, 200)
	binary := make([]byte, 64)
	for i := range binary {
		binary[i] = 255
	}
	out := renderHeatmap(live, binary)
	// 0.7*200 + 0.5*jet(255).R overflows and must clip, not wrap.
	if got := out.NRGBAAt(3, 3).R; got != 255 {
		t.Fatalf("red channel should clip at 255, got %d", got)
	}
	if got := out.NRGBAAt(3, 3).A; got != 255 {
		t.Fatalf("output must stay opaque, got alpha %d", got)
	}
}

func TestRenderHeatmap_ZeroDifferenceDimsOnly(t *testing.T) {
	live := synthGray(4, 4, 100)
	out := renderHeatmap(live, make([]byte, 16))
	// jet(0) contributes only blue; red/green are pure 0.7*live.
	c := out.NRGBAAt(1, 1)
	if c.R != 70 || c.G != 70 {
		t.Fatalf("expected dimmed live crop (70), got %+v", c)
	}
	if c.B <= 70 {
		t.Fatalf("blue channel should carry the cold colormap tint, got %d", c.B)
	}
}
