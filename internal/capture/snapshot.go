package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/fivejjs/gemini3-sample-chronos/internal/imaging"
)

// SnapshotDevice adapts an IP-camera style still-frame endpoint (one JPEG or
// PNG per GET) into a Device. The exclusive hardware lock is modeled locally:
// only one stream may be open at a time.
type SnapshotDevice struct {
	url    string
	client *http.Client

	mu   sync.Mutex
	held bool
}

// NewSnapshotDevice builds a device around the given snapshot URL. A nil
// client gets a default with a snapshot-friendly timeout.
func NewSnapshotDevice(url string, client *http.Client) *SnapshotDevice {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &SnapshotDevice{url: url, client: client}
}

func (d *SnapshotDevice) Open(ctx context.Context, c Constraints) (Stream, error) {
	d.mu.Lock()
	if d.held {
		d.mu.Unlock()
		return nil, NewAcquisitionError(ReasonBusy, errors.New("device already streaming"))
	}
	d.held = true
	d.mu.Unlock()

	stream := &snapshotStream{device: d, constraints: c}

	// Probe one frame so acquisition failures are classified up front instead
	// of on the first capture.
	if _, err := stream.ReadFrame(ctx); err != nil {
		_ = stream.Close()
		return nil, err
	}
	return stream, nil
}

func (d *SnapshotDevice) release() {
	d.mu.Lock()
	d.held = false
	d.mu.Unlock()
}

type snapshotStream struct {
	device      *SnapshotDevice
	constraints Constraints
	closeOnce   sync.Once
	closed      bool
	mu          sync.Mutex
}

func (s *snapshotStream) ReadFrame(ctx context.Context) (image.Image, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return nil, errors.New("capture: stream closed")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.device.url, nil)
	if err != nil {
		return nil, NewAcquisitionError(ReasonUnknown, err)
	}
	resp, err := s.device.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, NewAcquisitionError(ReasonDismissed, err)
		}
		return nil, NewAcquisitionError(ReasonUnknown, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, imaging.MaxUploadBytes))
	if err != nil {
		return nil, NewAcquisitionError(ReasonUnknown, err)
	}
	frame, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, NewAcquisitionError(ReasonUnknown, fmt.Errorf("decode snapshot: %w", err))
	}

	if s.constraints.Width > 0 && s.constraints.Height > 0 {
		frame = imaging.ScaleToFit(frame, s.constraints.Width, s.constraints.Height)
	}
	return frame, nil
}

func (s *snapshotStream) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		s.device.release()
	})
	return nil
}

func classifyStatus(status int) error {
	cause := fmt.Errorf("snapshot endpoint status %d", status)
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return NewAcquisitionError(ReasonPermissionDenied, cause)
	case http.StatusNotFound, http.StatusGone:
		return NewAcquisitionError(ReasonNotFound, cause)
	case http.StatusConflict, http.StatusLocked, http.StatusServiceUnavailable:
		return NewAcquisitionError(ReasonBusy, cause)
	default:
		return NewAcquisitionError(ReasonUnknown, cause)
	}
}
