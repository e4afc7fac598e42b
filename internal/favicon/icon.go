package favicon

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"sync"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// DefaultSize is the edge length favicons are scaled to.
const DefaultSize = 16

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

var (
	defaultIconOnce sync.Once
	defaultIcon     image.Image
)

// DefaultIcon is the bundled application icon, used as placeholder and as
// fallback when a favicon cannot be fetched.
func DefaultIcon() image.Image {
	defaultIconOnce.Do(func() {
		img := image.NewRGBA(image.Rect(0, 0, DefaultSize, DefaultSize))
		orange := color.RGBA{R: 0xf2, G: 0x8c, B: 0x28, A: 0xff}
		white := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
		draw.Draw(img, img.Bounds(), &image.Uniform{C: orange}, image.Point{}, draw.Src)
		// feed glyph: a dot in the lower left corner and two arcs
		for y := 0; y < DefaultSize; y++ {
			for x := 0; x < DefaultSize; x++ {
				dx, dy := x-3, DefaultSize-4-y
				d := dx*dx + dy*dy
				if d <= 3 || (d >= 36 && d <= 56) || (d >= 100 && d <= 130) {
					if dx >= -1 && dy >= -1 {
						img.Set(x, y, white)
					}
				}
			}
		}
		defaultIcon = img
	})
	return defaultIcon
}

// Decode decodes favicon bytes. Besides the registered image formats it
// understands ICO containers holding PNG images.
func Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, errors.New("empty image data")
	}
	if isICO(data) {
		embedded, err := icoPNG(data)
		if err != nil {
			return nil, err
		}
		data = embedded
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// Scale resizes img to a size x size square.
func Scale(img image.Image, size int) image.Image {
	b := img.Bounds()
	if b.Dx() == size && b.Dy() == size {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// AverageColor is the mean colour of the visible pixels of img.
func AverageColor(img image.Image) color.RGBA {
	if img == nil {
		return color.RGBA{}
	}
	b := img.Bounds()
	var r, g, bl, n uint64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			pr, pg, pb, pa := img.At(x, y).RGBA()
			if pa == 0 {
				continue
			}
			r += uint64(pr >> 8)
			g += uint64(pg >> 8)
			bl += uint64(pb >> 8)
			n++
		}
	}
	if n == 0 {
		return color.RGBA{}
	}
	return color.RGBA{R: uint8(r / n), G: uint8(g / n), B: uint8(bl / n), A: 0xff}
}

func isICO(data []byte) bool {
	return len(data) >= 6 && data[0] == 0 && data[1] == 0 && data[2] == 1 && data[3] == 0
}

// icoPNG returns the largest PNG image stored in an ICO container.
func icoPNG(data []byte) ([]byte, error) {
	count := int(binary.LittleEndian.Uint16(data[4:6]))
	var best []byte
	bestWidth := -1
	for i := 0; i < count; i++ {
		entry := 6 + i*16
		if entry+16 > len(data) {
			break
		}
		width := int(data[entry])
		if width == 0 {
			width = 256
		}
		size := int(binary.LittleEndian.Uint32(data[entry+8 : entry+12]))
		offset := int(binary.LittleEndian.Uint32(data[entry+12 : entry+16]))
		if offset < 0 || size <= 0 || offset+size > len(data) {
			continue
		}
		payload := data[offset : offset+size]
		if !bytes.HasPrefix(payload, pngMagic) {
			continue
		}
		if width > bestWidth {
			best, bestWidth = payload, width
		}
	}
	if best == nil {
		return nil, errors.New("ico without png image")
	}
	return best, nil
}
