package imaging

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fivejjs/gemini3-sample-chronos/internal/domain"
)

// Payload is a self-describing encoded image: a data URL of the form
// data:image/<png|jpeg|jpg|webp>;base64,<bytes>.
type Payload string

const (
	MIMEPNG  = "image/png"
	MIMEJPEG = "image/jpeg"
	MIMEJPG  = "image/jpg"
	MIMEWebP = "image/webp"
)

// MaxUploadBytes caps how much of an upload stream is read before rejecting
// it. Large portraits are downscaled after decode, but the raw stream itself
// must stay bounded.
const MaxUploadBytes = 20 << 20

var allowedMIMEs = map[string]struct{}{
	MIMEPNG:  {},
	MIMEJPEG: {},
	MIMEJPG:  {},
	MIMEWebP: {},
}

// Encode wraps raw image bytes into a payload declaring the given MIME type.
func Encode(mime string, data []byte) Payload {
	return Payload(fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data)))
}

// Parse splits a payload into its declared MIME type and decoded bytes.
func (p Payload) Parse() (string, []byte, error) {
	rest, ok := strings.CutPrefix(string(p), "data:")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing data url prefix", domain.ErrUnsupportedImage)
	}
	mime, encoded, ok := strings.Cut(rest, ";base64,")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing base64 marker", domain.ErrUnsupportedImage)
	}
	if _, allowed := allowedMIMEs[mime]; !allowed {
		return "", nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedImage, mime)
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", nil, fmt.Errorf("%w: decode base64: %v", domain.ErrUnsupportedImage, err)
	}
	return mime, data, nil
}

// Base64 returns the payload with any declared-format prefix stripped,
// leaving the bare base64 data expected by the model API.
func (p Payload) Base64() string {
	s := string(p)
	if rest, ok := strings.CutPrefix(s, "data:"); ok {
		if _, encoded, found := strings.Cut(rest, ";base64,"); found {
			return encoded
		}
	}
	return s
}

// IsZero reports whether the payload is unset.
func (p Payload) IsZero() bool {
	return p == ""
}

// ReadStream reads an uploaded image stream into a payload. The MIME type is
// sniffed from the bytes rather than trusted from the client, and any read
// error surfaces as an explicit failure instead of a callback that never
// fires.
func ReadStream(r io.Reader) (Payload, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrFileRead, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty stream", domain.ErrFileRead)
	}
	if len(data) > MaxUploadBytes {
		return "", fmt.Errorf("%w: upload exceeds %d bytes", domain.ErrFileRead, MaxUploadBytes)
	}
	mime := http.DetectContentType(data)
	if _, allowed := allowedMIMEs[mime]; !allowed {
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedImage, mime)
	}
	return Encode(mime, data), nil
}
