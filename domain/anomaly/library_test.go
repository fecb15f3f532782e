package anomaly

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadLibrary_MissingRoomExcluded(t *testing.T) {
	cfg := testConfig(t, "Kitchen", "Bedroom")
	// Only Kitchen gets fixture files; Bedroom has no directory at all.
	lib, _ := loadTestLibrary(t, cfg, "Kitchen")

	rooms := lib.Rooms()
	if len(rooms) != 1 || rooms[0] != "Kitchen" {
		t.Fatalf("expected only Kitchen loaded, got %v", rooms)
	}
	if _, ok := lib.Reference("Bedroom"); ok {
		t.Fatalf("Bedroom has no reference image and must stay excluded")
	}
	if regs := lib.Regions("Bedroom"); len(regs) != 0 {
		t.Fatalf("excluded room must yield no regions, got %d", len(regs))
	}
}

func TestLibrary_RegionsCachedAndInvalidable(t *testing.T) {
	cfg := testConfig(t, "Kitchen")
	lib, _ := loadTestLibrary(t, cfg, "Kitchen")

	first := lib.Regions("Kitchen")
	if len(first) != 2 {
		t.Fatalf("expected 2 baseline regions, got %d", len(first))
	}
	if again := lib.Regions("Kitchen"); !reflect.DeepEqual(again, first) {
		t.Fatalf("cached regions differ: %v vs %v", again, first)
	}
	lib.InvalidateRegions("Kitchen")
	if recomputed := lib.Regions("Kitchen"); !reflect.DeepEqual(recomputed, first) {
		t.Fatalf("recomputed regions differ: %v vs %v", recomputed, first)
	}
}

func TestLibrary_CropPath(t *testing.T) {
	cfg := testConfig(t, "Kitchen")
	lib, _ := loadTestLibrary(t, cfg, "Kitchen")

	want := filepath.Join(cfg.BaseDir, "Kitchen", "group_templates", "door.png")
	if got := lib.CropPath("Kitchen", "door"); got != want {
		t.Fatalf("CropPath = %q, want %q", got, want)
	}
}
