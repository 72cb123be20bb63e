package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/fivejjs/gemini3-sample-chronos/internal/domain"
)

// captureJPEGQuality matches the quality the live preview encodes stills at.
const captureJPEGQuality = 90

// Mirror returns the image flipped horizontally. Captured frames are mirrored
// back to their natural orientation because the live preview renders a
// mirror image.
func Mirror(src image.Image) *image.RGBA {
	bounds := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			dst.Set(bounds.Max.X-1-x-bounds.Min.X, y-bounds.Min.Y, src.At(x, y))
		}
	}
	return dst
}

// ScaleToFit downscales the image so neither dimension exceeds the given
// bounds, preserving aspect ratio. Images already within bounds are returned
// unchanged.
func ScaleToFit(src image.Image, maxW, maxH int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxW && h <= maxH {
		return src
	}
	ratioW := float64(maxW) / float64(w)
	ratioH := float64(maxH) / float64(h)
	ratio := ratioW
	if ratioH < ratio {
		ratio = ratioH
	}
	dst := image.NewRGBA(image.Rect(0, 0, int(float64(w)*ratio), int(float64(h)*ratio)))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

// EncodeFrame mirrors a captured frame back to natural orientation and
// encodes it as a JPEG payload at capture quality.
func EncodeFrame(frame image.Image) (Payload, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, Mirror(frame), &jpeg.Options{Quality: captureJPEGQuality}); err != nil {
		return "", fmt.Errorf("encode frame: %w", err)
	}
	return Encode(MIMEJPEG, buf.Bytes()), nil
}

// Decode parses a payload and decodes it into an image.
func (p Payload) Decode() (image.Image, error) {
	_, data, err := p.Parse()
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode image: %v", domain.ErrUnsupportedImage, err)
	}
	return img, nil
}

// ToPNG converts a payload into raw PNG bytes for download. Payloads already
// declared as PNG pass through untouched.
func (p Payload) ToPNG() ([]byte, error) {
	mime, data, err := p.Parse()
	if err != nil {
		return nil, err
	}
	if mime == MIMEPNG {
		return data, nil
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode image: %v", domain.ErrUnsupportedImage, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
