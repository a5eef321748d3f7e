package altofs

import (
	"os"
	"testing"

	"github.com/spf13/afero"
)

func TestSaveLoadImage_RoundTrip(t *testing.T) {
	t.Parallel()

	geom := Geometry{NumCylinders: 2, NumHeads: 1, NumSectors: 4}
	ps, err := NewPageStore(geom)
	if err != nil {
		t.Fatalf("NewPageStore: %v", err)
	}
	for vda := uint32(0); vda < ps.NumPages(); vda++ {
		rda, err := ps.RDAOf(vda)
		if err != nil {
			t.Fatalf("RDAOf(%d): %v", vda, err)
		}
		p, err := ps.Page(vda)
		if err != nil {
			t.Fatalf("Page(%d): %v", vda, err)
		}
		p.Header = Header{Word0: 0, RDA: rda}
		p.Label = Label{Version: VersionFree}
		p.Data[0] = byte(vda)
		p.Data[511] = byte(vda >> 8)
	}

	fs := afero.NewMemMapFs()
	if err := SaveImage(fs, "image.dsk", ps); err != nil {
		t.Fatalf("SaveImage: %v", err)
	}

	loaded, err := LoadImage(fs, "image.dsk", geom)
	if err != nil {
		t.Fatalf("LoadImage: %v", err)
	}

	for vda := uint32(0); vda < ps.NumPages(); vda++ {
		want, err := ps.Page(vda)
		if err != nil {
			t.Fatalf("Page(%d): %v", vda, err)
		}
		got, err := loaded.Page(vda)
		if err != nil {
			t.Fatalf("loaded.Page(%d): %v", vda, err)
		}
		if *got != *want {
			t.Fatalf("page %d round-tripped incorrectly:\n got  %+v\n want %+v", vda, got, want)
		}
	}
}

func TestLoadImage_TrailingDataFails(t *testing.T) {
	t.Parallel()

	geom := Geometry{NumCylinders: 1, NumHeads: 1, NumSectors: 1}
	ps, err := NewPageStore(geom)
	if err != nil {
		t.Fatalf("NewPageStore: %v", err)
	}

	fs := afero.NewMemMapFs()
	if err := SaveImage(fs, "image.dsk", ps); err != nil {
		t.Fatalf("SaveImage: %v", err)
	}
	f, err := fs.OpenFile("image.dsk", os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if _, err := f.Write([]byte{0xAA}); err != nil {
		t.Fatalf("appending trailing byte: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err := LoadImage(fs, "image.dsk", geom); err == nil {
		t.Fatal("expected LoadImage to fail on trailing data")
	}
}

func TestLoadImage_MissingFileFails(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	if _, err := LoadImage(fs, "does-not-exist.dsk", DefaultGeometry()); err == nil {
		t.Fatal("expected LoadImage to fail for a missing file")
	}
}
