package mipmap

import (
	"bufio"
	"image"
	"image/png"
	"math/bits"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
	"golang.org/x/image/draw"

	// decoders accepted by LoadFile and LoadTiledFile
	_ "image/jpeg"
)

// Format is the pixel format of every level.
const Format = metadata.FormatR8G8B8A8Unorm

/**
 * @brief A mip chain held in memory. Level 0 is the full size image and
 * every following level halves both dimensions, down to 1x1.
 */
type Mipmap struct {
	levels []*image.RGBA
}

// MaxLevelCount returns the length of a full chain for a width x height image.
func MaxLevelCount(width, height uint32) int {
	size := max(width, height)
	if size == 0 {
		return 0
	}
	return bits.Len32(size)
}

// LevelByteSize returns the byte size of a width x height level stored in
// format. Block compressed formats are rounded up to whole blocks.
func LevelByteSize(format metadata.Format, width, height uint32) uint32 {
	desc := metadata.GetFormatDescription(format)
	block := uint32(desc.BlockWidth)
	if block > 1 {
		width = (width + block - 1) / block
		height = (height + block - 1) / block
	}
	return width * height * uint32(desc.BytesPerTexel)
}

// ChainByteSize returns the byte size of levels levels starting at width x height.
func ChainByteSize(format metadata.Format, width, height uint32, levels int) uint32 {
	var size uint32
	for i := 0; i < levels; i++ {
		size += LevelByteSize(format, levelSize(width, i), levelSize(height, i))
	}
	return size
}

func levelSize(size uint32, level int) uint32 {
	return max(1, size>>level)
}

// Generate builds a chain of levels levels out of img. Zero or less builds
// the full chain. Levels are filtered bilinearly from the previous one.
func Generate(img image.Image, levels int) (*Mipmap, error) {
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, errors.Wrap(core.ErrInvalidCreateArgument, "mipmap: empty image")
	}
	width, height := uint32(bounds.Dx()), uint32(bounds.Dy())
	maxLevels := MaxLevelCount(width, height)
	if levels <= 0 {
		levels = maxLevels
	}
	if levels > maxLevels {
		core.LogWarn("mipmap: %d levels requested for a %dx%d image. Clamping to %d.", levels, width, height, maxLevels)
		levels = maxLevels
	}

	base := image.NewRGBA(image.Rect(0, 0, int(width), int(height)))
	draw.Draw(base, base.Bounds(), img, bounds.Min, draw.Src)

	m := &Mipmap{levels: []*image.RGBA{base}}
	for i := 1; i < levels; i++ {
		prev := m.levels[i-1]
		next := image.NewRGBA(image.Rect(0, 0, int(levelSize(width, i)), int(levelSize(height, i))))
		draw.BiLinear.Scale(next, next.Bounds(), prev, prev.Bounds(), draw.Src, nil)
		m.levels = append(m.levels, next)
	}
	return m, nil
}

func (m *Mipmap) LevelCount() int {
	return len(m.levels)
}

func (m *Mipmap) Level(index int) (*image.RGBA, error) {
	if index < 0 || index >= len(m.levels) {
		return nil, errors.Wrapf(core.ErrOutOfRange, "mip level %d of %d", index, len(m.levels))
	}
	return m.levels[index], nil
}

func (m *Mipmap) Width(index int) uint32 {
	return uint32(m.levels[index].Rect.Dx())
}

func (m *Mipmap) Height(index int) uint32 {
	return uint32(m.levels[index].Rect.Dy())
}

// Pixels returns the tightly packed RGBA8 bytes of a level, ready for upload.
func (m *Mipmap) Pixels(index int) []byte {
	return m.levels[index].Pix
}

// ByteSize returns the size of the whole chain in Format.
func (m *Mipmap) ByteSize() uint32 {
	return ChainByteSize(Format, m.Width(0), m.Height(0), len(m.levels))
}

// tiledSize returns the size of the tiled image: level 0 on top, the other
// levels side by side beneath it. The row of small levels only outgrows
// level 0 for images much taller than wide.
func tiledSize(width, height uint32, levels int) (uint32, uint32) {
	if levels <= 1 {
		return width, height
	}
	row := levelOrigin(width, height, levels).X
	return max(width, uint32(row)), height + levelSize(height, 1)
}

// levelOrigin returns where level index sits in the tiled image.
func levelOrigin(width, height uint32, index int) image.Point {
	if index == 0 {
		return image.Point{}
	}
	x := uint32(0)
	for i := 1; i < index; i++ {
		x += levelSize(width, i)
	}
	return image.Pt(int(x), int(height))
}

// Tiled packs the chain into a single image.
func (m *Mipmap) Tiled() *image.RGBA {
	width, height := m.Width(0), m.Height(0)
	tw, th := tiledSize(width, height, len(m.levels))
	dst := image.NewRGBA(image.Rect(0, 0, int(tw), int(th)))
	for i, level := range m.levels {
		origin := levelOrigin(width, height, i)
		draw.Copy(dst, origin, level, level.Bounds(), draw.Src, nil)
	}
	return dst
}

// Save writes the tiled chain to path as a PNG.
func (m *Mipmap) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	w := bufio.NewWriter(f)
	if err := png.Encode(w, m.Tiled()); err != nil {
		f.Close()
		return errors.Wrapf(err, "encoding %s", path)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing %s", path)
	}
	return f.Close()
}

// LoadFile reads a plain image as level 0 and generates levels levels from
// it. Zero or less generates the full chain.
func LoadFile(path string, levels int) (*Mipmap, error) {
	img, err := decodeFile(path)
	if err != nil {
		return nil, err
	}
	return Generate(img, levels)
}

// LoadTiledFile reads a chain written by Save whose level 0 is baseWidth x
// baseHeight. Zero or less levels loads the full chain.
func LoadTiledFile(path string, baseWidth, baseHeight uint32, levels int) (*Mipmap, error) {
	if baseWidth == 0 || baseHeight == 0 {
		return nil, errors.Wrapf(core.ErrInvalidCreateArgument, "mipmap: base size %dx%d", baseWidth, baseHeight)
	}
	maxLevels := MaxLevelCount(baseWidth, baseHeight)
	if levels <= 0 || levels > maxLevels {
		levels = maxLevels
	}

	img, err := decodeFile(path)
	if err != nil {
		return nil, err
	}
	bounds := img.Bounds()
	tw, th := tiledSize(baseWidth, baseHeight, levels)
	if uint32(bounds.Dx()) < tw || uint32(bounds.Dy()) < th {
		return nil, errors.Mark(errors.Newf("%s is %dx%d, a %d level chain of %dx%d needs %dx%d",
			path, bounds.Dx(), bounds.Dy(), levels, baseWidth, baseHeight, tw, th), core.ErrLoadFailed)
	}

	m := &Mipmap{}
	for i := 0; i < levels; i++ {
		origin := levelOrigin(baseWidth, baseHeight, i).Add(bounds.Min)
		w, h := levelSize(baseWidth, i), levelSize(baseHeight, i)
		level := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
		draw.Draw(level, level.Bounds(), img, origin, draw.Src)
		m.levels = append(m.levels, level)
	}
	return m, nil
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "opening %s", path), core.ErrLoadFailed)
	}
	defer f.Close()

	img, _, err := image.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "decoding %s", path), core.ErrLoadFailed)
	}
	return img, nil
}
