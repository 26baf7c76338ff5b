package metadata

import (
	"strings"
	"testing"
)

func TestFormatTableComplete(t *testing.T) {
	seen := map[string]Format{}
	for f := Format(1); f < FormatCount; f++ {
		desc := GetFormatDescription(f)
		if desc.Name == "" {
			t.Errorf("format %d has no entry", f)
			continue
		}
		if prev, ok := seen[desc.Name]; ok {
			t.Errorf("format %d and %d share name %s", prev, f, desc.Name)
		}
		seen[desc.Name] = f
		if f.String() != desc.Name {
			t.Errorf("format %d String() = %s, want %s", f, f.String(), desc.Name)
		}
		if desc.BytesPerTexel == 0 {
			t.Errorf("%s: zero bytes per texel", desc.Name)
		}

		switch desc.Layout {
		case FormatLayoutCompressed:
			if desc.BlockWidth <= 1 {
				t.Errorf("%s: compressed with block width %d", desc.Name, desc.BlockWidth)
			}
			if desc.BytesPerComponent != -1 {
				t.Errorf("%s: compressed with bytes per component %d", desc.Name, desc.BytesPerComponent)
			}
		case FormatLayoutPacked:
			if desc.BytesPerComponent != -1 {
				t.Errorf("%s: packed with bytes per component %d", desc.Name, desc.BytesPerComponent)
			}
			for i, off := range desc.ComponentOffsets {
				if off != -1 {
					t.Errorf("%s: packed with component offset[%d] = %d", desc.Name, i, off)
				}
			}
		case FormatLayoutLinear:
			if desc.BlockWidth != 1 {
				t.Errorf("%s: linear with block width %d", desc.Name, desc.BlockWidth)
			}
			if got := uint32(desc.BytesPerComponent) * uint32(f.ComponentCount()); got != desc.BytesPerTexel {
				t.Errorf("%s: %d components of %d bytes != %d bytes per texel", desc.Name, f.ComponentCount(), desc.BytesPerComponent, desc.BytesPerTexel)
			}
		}
	}
}

func TestFormatSizes(t *testing.T) {
	tests := []struct {
		format Format
		size   uint32
	}{
		{FormatR8Unorm, 1},
		{FormatR8G8B8A8Unorm, 4},
		{FormatR16G16Float, 4},
		{FormatR32G32Float, 8},
		{FormatR32G32B32Float, 12},
		{FormatR32G32B32A32Float, 16},
		{FormatD32Float, 4},
		{FormatBC1RgbUnorm, 8},
		{FormatBC7Unorm, 16},
	}
	for _, tt := range tests {
		if got := tt.format.Size(); got != tt.size {
			t.Errorf("%s.Size() = %d, want %d", tt.format, got, tt.size)
		}
	}
}

func TestFormatBGROffsets(t *testing.T) {
	desc := GetFormatDescription(FormatB8G8R8A8Unorm)
	if desc.ComponentOffsets != [4]int8{2, 1, 0, 3} {
		t.Errorf("offsets = %v", desc.ComponentOffsets)
	}
}

func TestGetFormatDescriptionPanics(t *testing.T) {
	for _, f := range []Format{FormatUndefined, FormatCount, -1} {
		func() {
			defer func() {
				r := recover()
				if r == nil {
					t.Errorf("GetFormatDescription(%d) did not panic", f)
					return
				}
				if msg, ok := r.(string); !ok || !strings.Contains(msg, "invalid format") {
					t.Errorf("unexpected panic value %v", r)
				}
			}()
			GetFormatDescription(f)
		}()
	}
}
