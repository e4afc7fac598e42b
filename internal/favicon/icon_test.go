package favicon

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func icoWithPNG(images ...[]byte) []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, [3]uint16{0, 1, uint16(len(images))})
	offset := 6 + 16*len(images)
	for i, img := range images {
		entry := make([]byte, 16)
		entry[0] = byte(16 * (i + 1))
		entry[1] = byte(16 * (i + 1))
		binary.LittleEndian.PutUint32(entry[8:12], uint32(len(img)))
		binary.LittleEndian.PutUint32(entry[12:16], uint32(offset))
		buf.Write(entry)
		offset += len(img)
	}
	for _, img := range images {
		buf.Write(img)
	}
	return buf.Bytes()
}

func TestDecode_PNG(t *testing.T) {
	img, err := Decode(solidPNG(t, 4, red))
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
}

func TestDecode_ICOPicksLargestPNG(t *testing.T) {
	data := icoWithPNG(solidPNG(t, 16, red), solidPNG(t, 32, green))
	img, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
	assert.Equal(t, green, AverageColor(img))
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode(nil)
	assert.Error(t, err)
	_, err = Decode([]byte("<html>not found</html>"))
	assert.Error(t, err)
	_, err = Decode(icoWithPNG([]byte("BMbitmap")))
	assert.Error(t, err)
}

func TestScale(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 64, 48))
	out := Scale(src, 16)
	assert.Equal(t, image.Rect(0, 0, 16, 16), out.Bounds())

	same := image.NewRGBA(image.Rect(0, 0, 16, 16))
	assert.Same(t, same, Scale(same, 16))
}

func TestAverageColorIgnoresTransparentPixels(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{B: 0xff, A: 0xff})
	assert.Equal(t, color.RGBA{B: 0xff, A: 0xff}, AverageColor(img))
	assert.Equal(t, color.RGBA{}, AverageColor(image.NewRGBA(image.Rect(0, 0, 1, 1))))
	assert.Equal(t, color.RGBA{}, AverageColor(nil))
}

func TestDefaultIcon(t *testing.T) {
	icon := DefaultIcon()
	require.NotNil(t, icon)
	assert.Same(t, icon, DefaultIcon())
	assert.Equal(t, image.Rect(0, 0, DefaultSize, DefaultSize), icon.Bounds())
}
