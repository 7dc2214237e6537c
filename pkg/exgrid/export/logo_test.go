package export

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func TestPrepareLogo(t *testing.T) {
	t.Parallel()
	img := image.NewRGBA(image.Rect(0, 0, 6, 3))

	var b bytes.Buffer
	require.NoError(t, bmp.Encode(&b, img))
	logo, err := PrepareLogo(b.Bytes())
	require.NoError(t, err)
	assert.Equal(t, ".png", logo.Ext)
	assert.Equal(t, "PNG", logo.ImageType())
	assert.Equal(t, 6, logo.Width)
	assert.Equal(t, 3, logo.Height)
	decoded, err := png.Decode(bytes.NewReader(logo.Data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 6, 3), decoded.Bounds())

	b.Reset()
	require.NoError(t, jpeg.Encode(&b, img, nil))
	logo, err = PrepareLogo(b.Bytes())
	require.NoError(t, err)
	assert.Equal(t, ".jpg", logo.Ext)
	assert.Equal(t, "JPG", logo.ImageType())

	_, err = PrepareLogo([]byte("GIF89a"))
	assert.ErrorIs(t, err, ErrUnsupportedLogo)

	_, err = PrepareLogo([]byte("BMnot really"))
	assert.Error(t, err)
}
