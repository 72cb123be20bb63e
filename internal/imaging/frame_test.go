package imaging

import (
	"image"
	"image/color"
	"testing"
)

func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 40), G: uint8(y * 40), B: 128, A: 255})
		}
	}
	return img
}

func TestMirrorIsItsOwnInverse(t *testing.T) {
	src := gradient(6, 4)
	twice := Mirror(Mirror(src))

	if twice.Bounds() != src.Bounds() {
		t.Fatalf("bounds changed: %v -> %v", src.Bounds(), twice.Bounds())
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 6; x++ {
			if src.RGBAAt(x, y) != twice.RGBAAt(x, y) {
				t.Fatalf("pixel (%d,%d) changed after double mirror", x, y)
			}
		}
	}
}

func TestMirrorFlipsColumns(t *testing.T) {
	src := gradient(5, 3)
	flipped := Mirror(src)
	for y := 0; y < 3; y++ {
		for x := 0; x < 5; x++ {
			if src.RGBAAt(x, y) != flipped.RGBAAt(4-x, y) {
				t.Fatalf("pixel (%d,%d) not mirrored", x, y)
			}
		}
	}
}

func TestEncodeFrameRoundTrip(t *testing.T) {
	src := gradient(64, 48)
	payload, err := EncodeFrame(src)
	if err != nil {
		t.Fatalf("EncodeFrame returned error: %v", err)
	}

	mime, _, err := payload.Parse()
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if mime != MIMEJPEG {
		t.Fatalf("mime = %q, want %q", mime, MIMEJPEG)
	}

	decoded, err := payload.Decode()
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if got := decoded.Bounds(); got.Dx() != 64 || got.Dy() != 48 {
		t.Fatalf("decoded size = %dx%d, want 64x48", got.Dx(), got.Dy())
	}

	// Mirroring the decoded frame restores the natural orientation; with the
	// capture quality this should stay close to the source despite JPEG loss.
	restored := Mirror(decoded)
	srcPx := src.RGBAAt(2, 2)
	gotPx := restored.RGBAAt(2, 2)
	if absDiff(srcPx.R, gotPx.R) > 16 || absDiff(srcPx.G, gotPx.G) > 16 || absDiff(srcPx.B, gotPx.B) > 16 {
		t.Fatalf("restored pixel drifted too far: %v vs %v", srcPx, gotPx)
	}
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func TestScaleToFit(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		maxW, maxH   int
		wantW, wantH int
	}{
		{name: "within bounds untouched", w: 640, h: 480, maxW: 1280, maxH: 720, wantW: 640, wantH: 480},
		{name: "wide image capped by width", w: 2560, h: 1440, maxW: 1280, maxH: 1280, wantW: 1280, wantH: 720},
		{name: "tall image capped by height", w: 1000, h: 4000, maxW: 1280, maxH: 2000, wantW: 500, wantH: 2000},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := ScaleToFit(gradient(tc.w, tc.h), tc.maxW, tc.maxH)
			b := out.Bounds()
			if b.Dx() != tc.wantW || b.Dy() != tc.wantH {
				t.Fatalf("size = %dx%d, want %dx%d", b.Dx(), b.Dy(), tc.wantW, tc.wantH)
			}
		})
	}
}

func TestEncodeFrameMirrorsContent(t *testing.T) {
	// Left half black, right half white; after encoding the stored frame must
	// have white on the left.
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			c := color.RGBA{A: 255}
			if x >= 4 {
				c = color.RGBA{R: 255, G: 255, B: 255, A: 255}
			}
			src.SetRGBA(x, y, c)
		}
	}
	payload, err := EncodeFrame(src)
	if err != nil {
		t.Fatalf("EncodeFrame returned error: %v", err)
	}
	decoded, err := payload.Decode()
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	r, _, _, _ := decoded.At(1, 4).RGBA()
	if r < 0x8000 {
		t.Fatal("left edge is dark; frame was not mirrored")
	}
}
