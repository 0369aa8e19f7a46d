package stegcodec

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageMediaType is the media type of every encoded image artifact.
const ImageMediaType = "image/png"

// ImageAdapter hides bits in the R, G and B least-significant bits of a
// raster image. Alpha bytes are never touched. Any decodable input format
// is accepted; output is always PNG.
type ImageAdapter struct{}

func (ImageAdapter) Kind() CarrierKind { return CarrierImage }

func (ImageAdapter) MediaType() string { return ImageMediaType }

// Capacity is three bits per pixel.
func (a ImageAdapter) Capacity(data []byte) (int, error) {
	img, err := decodeNRGBA(data)
	if err != nil {
		return 0, err
	}
	return len(img.Pix) / 4 * 3, nil
}

func (a ImageAdapter) Embed(data []byte, payload string) ([]byte, error) {
	img, err := decodeNRGBA(data)
	if err != nil {
		return nil, err
	}
	if err := imageSubstrate(img).embed(payload); err != nil {
		return nil, err
	}
	return encodePNG(img)
}

func (a ImageAdapter) Extract(data []byte) (string, error) {
	img, err := decodeNRGBA(data)
	if err != nil {
		return "", err
	}
	return imageSubstrate(img).extract()
}

func (a ImageAdapter) Tamper(data []byte) ([]byte, error) {
	img, err := decodeNRGBA(data)
	if err != nil {
		return nil, err
	}
	if err := imageSubstrate(img).tamper(); err != nil {
		return nil, err
	}
	return encodePNG(img)
}

// imageSubstrate exposes every channel byte except alpha: slot i lives in
// pixel i/3, channel i%3.
func imageSubstrate(img *image.NRGBA) *lsbSubstrate {
	return &lsbSubstrate{
		kind:  CarrierImage,
		buf:   img.Pix,
		slots: len(img.Pix) / 4 * 3,
		offset: func(slot int) int {
			return slot/3*4 + slot%3
		},
	}
}

// decodeNRGBA decodes data into a freshly allocated, tightly packed
// non-premultiplied RGBA buffer. Non-premultiplied storage keeps colour
// bytes of translucent pixels intact across a PNG round trip.
func decodeNRGBA(data []byte) (*image.NRGBA, error) {
	if data == nil {
		return nil, ErrNilBuffer
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, newDetectionError(CarrierImage, ErrInvalidContainer, err.Error())
	}

	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	if n, ok := src.(*image.NRGBA); ok {
		for y := 0; y < b.Dy(); y++ {
			row := n.PixOffset(b.Min.X, b.Min.Y+y)
			copy(dst.Pix[y*dst.Stride:(y+1)*dst.Stride], n.Pix[row:row+dst.Stride])
		}
		return dst, nil
	}

	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst, nil
}

func encodePNG(img *image.NRGBA) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}
