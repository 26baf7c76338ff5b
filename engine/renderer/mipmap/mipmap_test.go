package mipmap

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 32), B: 128, A: 255})
		}
	}
	return img
}

func TestMaxLevelCount(t *testing.T) {
	tests := []struct {
		w, h uint32
		want int
	}{
		{0, 0, 0},
		{1, 1, 1},
		{256, 128, 9},
		{5, 3, 3},
		{1, 1024, 11},
	}
	for _, tt := range tests {
		if got := MaxLevelCount(tt.w, tt.h); got != tt.want {
			t.Errorf("MaxLevelCount(%d, %d) = %d, want %d", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestLevelByteSize(t *testing.T) {
	tests := []struct {
		format metadata.Format
		w, h   uint32
		want   uint32
	}{
		{metadata.FormatR8G8B8A8Unorm, 4, 4, 64},
		{metadata.FormatR32G32B32A32Float, 2, 3, 96},
		{metadata.FormatBC1RgbUnorm, 5, 5, 32},
		{metadata.FormatBC1RgbUnorm, 1, 1, 8},
	}
	for _, tt := range tests {
		if got := LevelByteSize(tt.format, tt.w, tt.h); got != tt.want {
			t.Errorf("LevelByteSize(%s, %d, %d) = %d, want %d", tt.format, tt.w, tt.h, got, tt.want)
		}
	}
	if got := ChainByteSize(metadata.FormatR8G8B8A8Unorm, 4, 4, 3); got != 64+16+4 {
		t.Errorf("ChainByteSize = %d", got)
	}
}

func TestGenerate(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	m, err := Generate(solid(8, 4, red), 0)
	if err != nil {
		t.Fatal(err)
	}
	sizes := [][2]uint32{{8, 4}, {4, 2}, {2, 1}, {1, 1}}
	if m.LevelCount() != len(sizes) {
		t.Fatalf("LevelCount() = %d", m.LevelCount())
	}
	for i, s := range sizes {
		if m.Width(i) != s[0] || m.Height(i) != s[1] {
			t.Errorf("level %d is %dx%d, want %dx%d", i, m.Width(i), m.Height(i), s[0], s[1])
		}
		if len(m.Pixels(i)) != int(s[0]*s[1]*4) {
			t.Errorf("level %d holds %d bytes", i, len(m.Pixels(i)))
		}
	}
	last, _ := m.Level(3)
	if c := last.RGBAAt(0, 0); c.R < 254 || c.G > 1 || c.A < 254 {
		t.Errorf("1x1 level of a red image = %+v", c)
	}
	if m.ByteSize() != (32+8+2+1)*4 {
		t.Errorf("ByteSize() = %d", m.ByteSize())
	}
	if _, err := m.Level(4); !errors.Is(err, core.ErrOutOfRange) {
		t.Errorf("Level(4) err = %v", err)
	}
}

func TestGenerateClampsLevels(t *testing.T) {
	m, err := Generate(solid(4, 4, color.RGBA{A: 255}), 20)
	if err != nil {
		t.Fatal(err)
	}
	if m.LevelCount() != 3 {
		t.Errorf("LevelCount() = %d", m.LevelCount())
	}
	if _, err := Generate(image.NewRGBA(image.Rect(0, 0, 0, 0)), 1); !errors.Is(err, core.ErrInvalidCreateArgument) {
		t.Errorf("empty image err = %v", err)
	}
}

func TestTiledLayout(t *testing.T) {
	m, err := Generate(gradient(16, 8), 0)
	if err != nil {
		t.Fatal(err)
	}
	tiled := m.Tiled()
	if tiled.Rect.Dx() != 16 || tiled.Rect.Dy() != 12 {
		t.Fatalf("tiled image is %v", tiled.Rect)
	}
	level2, _ := m.Level(2)
	// level 2 sits right of level 1, beneath level 0
	if got, want := tiled.RGBAAt(8, 8), level2.RGBAAt(0, 0); got != want {
		t.Errorf("tiled (8, 8) = %+v, want %+v", got, want)
	}

	tall, _ := Generate(solid(1, 8, color.RGBA{A: 255}), 0)
	if r := tall.Tiled().Rect; r.Dx() != 3 || r.Dy() != 12 {
		t.Errorf("tall tiled image is %v", r)
	}
}

func TestSaveLoadTiledFile(t *testing.T) {
	m, err := Generate(gradient(16, 8), 0)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "chain.png")
	if err := m.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadTiledFile(path, 16, 8, 0)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.LevelCount() != m.LevelCount() {
		t.Fatalf("loaded %d levels, want %d", loaded.LevelCount(), m.LevelCount())
	}
	for i := 0; i < m.LevelCount(); i++ {
		if loaded.Width(i) != m.Width(i) || loaded.Height(i) != m.Height(i) {
			t.Fatalf("level %d is %dx%d", i, loaded.Width(i), loaded.Height(i))
		}
		if string(loaded.Pixels(i)) != string(m.Pixels(i)) {
			t.Errorf("level %d pixels differ", i)
		}
	}

	partial, err := LoadTiledFile(path, 16, 8, 2)
	if err != nil {
		t.Fatal(err)
	}
	if partial.LevelCount() != 2 {
		t.Errorf("LoadTiledFile(path, 16, 8, 2) loaded %d levels", partial.LevelCount())
	}

	// the file is too small for a chain of a larger base
	if _, err := LoadTiledFile(path, 16, 16, 0); !errors.Is(err, core.ErrLoadFailed) {
		t.Errorf("oversized base err = %v", err)
	}
	if _, err := LoadTiledFile(path, 0, 8, 0); !errors.Is(err, core.ErrInvalidCreateArgument) {
		t.Errorf("zero base err = %v", err)
	}
}

func TestLoadFileKeepsPlainImages(t *testing.T) {
	for _, size := range []int{8, 64, 256, 512} {
		path := filepath.Join(t.TempDir(), "plain.png")
		f, err := os.Create(path)
		if err != nil {
			t.Fatal(err)
		}
		if err := png.Encode(f, gradient(size, size)); err != nil {
			t.Fatal(err)
		}
		f.Close()

		m, err := LoadFile(path, 0)
		if err != nil {
			t.Fatal(err)
		}
		if m.Width(0) != uint32(size) || m.Height(0) != uint32(size) {
			t.Errorf("%dx%d image loaded as %dx%d", size, size, m.Width(0), m.Height(0))
		}
		if m.LevelCount() != MaxLevelCount(uint32(size), uint32(size)) {
			t.Errorf("%dx%d image has %d levels", size, size, m.LevelCount())
		}
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.png"), 0); !errors.Is(err, core.ErrLoadFailed) {
		t.Errorf("missing file err = %v", err)
	}
	if _, err := LoadTiledFile(filepath.Join(t.TempDir(), "missing.png"), 4, 4, 0); !errors.Is(err, core.ErrLoadFailed) {
		t.Errorf("missing tiled file err = %v", err)
	}
}
