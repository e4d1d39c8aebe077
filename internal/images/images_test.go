package images

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.NRGBA{R: 255, A: 255})
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestManager_LoadMetadata(t *testing.T) {
	path := writePNG(t, t.TempDir(), "a.png", 40, 30)
	m := NewManager(nil)

	w, h, ok := m.LoadMetadata(path)
	if !ok || w != 40 || h != 30 {
		t.Fatalf("expected 40x30, got %dx%d ok=%v", w, h, ok)
	}

	// Cached: removing the file does not change the answer.
	os.Remove(path)
	w, h, ok = m.LoadMetadata(path)
	if !ok || w != 40 || h != 30 {
		t.Errorf("expected cached 40x30, got %dx%d ok=%v", w, h, ok)
	}
}

func TestManager_LoadMetadataMissing(t *testing.T) {
	m := NewManager(nil)
	if _, _, ok := m.LoadMetadata(filepath.Join(t.TempDir(), "missing.png")); ok {
		t.Error("expected missing file to report no metadata")
	}
}

func TestManager_LoadMetadataCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	m := NewManager(nil)
	if _, _, ok := m.LoadMetadata(path); ok {
		t.Error("expected corrupt file to report no metadata")
	}
}

func TestManager_GetOrLoadTexture(t *testing.T) {
	path := writePNG(t, t.TempDir(), "tex.png", 8, 4)
	m := NewManager(nil)

	tex, ok := m.GetOrLoadTexture(path)
	if !ok {
		t.Fatal("expected texture")
	}
	if tex.Width() != 8 || tex.Height() != 4 {
		t.Errorf("expected 8x4, got %dx%d", tex.Width(), tex.Height())
	}
	if tex.Format != "png" {
		t.Errorf("expected png format, got %q", tex.Format)
	}
	if r, _, _, _ := tex.Image.At(0, 0).RGBA(); r == 0 {
		t.Error("expected red pixel to survive conversion")
	}

	again, _ := m.GetOrLoadTexture(path)
	if again != tex {
		t.Error("expected cached texture on second call")
	}
}

func TestManager_TextureScaling(t *testing.T) {
	path := writePNG(t, t.TempDir(), "wide.png", 200, 100)
	m := NewManager(nil)
	m.MaxTextureWidth = 50

	tex, ok := m.GetOrLoadTexture(path)
	if !ok {
		t.Fatal("expected texture")
	}
	if tex.Width() != 50 || tex.Height() != 25 {
		t.Errorf("expected 50x25, got %dx%d", tex.Width(), tex.Height())
	}
}

func TestManager_FailedTextureCached(t *testing.T) {
	m := NewManager(nil)
	path := filepath.Join(t.TempDir(), "later.png")
	if _, ok := m.GetOrLoadTexture(path); ok {
		t.Fatal("expected failure for missing file")
	}
	writePNG(t, filepath.Dir(path), "later.png", 2, 2)
	if _, ok := m.GetOrLoadTexture(path); ok {
		t.Error("expected cached failure until Forget")
	}
	m.Forget(path)
	if _, ok := m.GetOrLoadTexture(path); !ok {
		t.Error("expected load to succeed after Forget")
	}
}
