package export

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/bmp"
)

// Logo is an image ready for embedding.
type Logo struct {
	Data   []byte
	Ext    string // ".png" or ".jpg"
	Width  int
	Height int
}

// ImageType returns the PDF image type name.
func (l *Logo) ImageType() string {
	if l.Ext == ".jpg" {
		return "JPG"
	}
	return "PNG"
}

var (
	pngMagic  = []byte("\x89PNG\r\n\x1a\n")
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
	bmpMagic  = []byte("BM")
)

// PrepareLogo converts logo bytes to an embeddable raster. BMP images are
// re-encoded as PNG; PNG and JPEG pass through.
func PrepareLogo(data []byte) (*Logo, error) {
	switch {
	case bytes.HasPrefix(data, pngMagic):
		cfg, err := png.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode png logo: %w", err)
		}
		return &Logo{Data: data, Ext: ".png", Width: cfg.Width, Height: cfg.Height}, nil
	case bytes.HasPrefix(data, jpegMagic):
		cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode jpeg logo: %w", err)
		}
		return &Logo{Data: data, Ext: ".jpg", Width: cfg.Width, Height: cfg.Height}, nil
	case bytes.HasPrefix(data, bmpMagic):
		img, err := bmp.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode bmp logo: %w", err)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode logo as png: %w", err)
		}
		b := img.Bounds()
		return &Logo{Data: buf.Bytes(), Ext: ".png", Width: b.Dx(), Height: b.Dy()}, nil
	}
	return nil, ErrUnsupportedLogo
}
