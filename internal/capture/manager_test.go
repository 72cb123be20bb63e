package capture

import (
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/fivejjs/gemini3-sample-chronos/internal/domain"
	"github.com/fivejjs/gemini3-sample-chronos/internal/imaging"
)

type fakeStream struct {
	frame  image.Image
	closed atomic.Int32
}

func (s *fakeStream) ReadFrame(ctx context.Context) (image.Image, error) {
	if s.closed.Load() > 0 {
		return nil, errors.New("stream closed")
	}
	return s.frame, nil
}

func (s *fakeStream) Close() error {
	s.closed.Add(1)
	return nil
}

type fakeDevice struct {
	streams []*fakeStream
	opened  int
	openErr error
}

func (d *fakeDevice) Open(ctx context.Context, c Constraints) (Stream, error) {
	if d.openErr != nil {
		return nil, d.openErr
	}
	s := &fakeStream{frame: testFrame(8, 6)}
	d.streams = append(d.streams, s)
	d.opened++
	return s, nil
}

func testFrame(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 200, A: 255})
		}
	}
	return img
}

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func TestStartSupersedesLiveSession(t *testing.T) {
	device := &fakeDevice{}
	m := NewManager(device, testLogger())

	first, err := m.Start(context.Background(), DefaultConstraints())
	if err != nil {
		t.Fatalf("first Start returned error: %v", err)
	}
	second, err := m.Start(context.Background(), DefaultConstraints())
	if err != nil {
		t.Fatalf("second Start returned error: %v", err)
	}
	if first.ID == second.ID {
		t.Fatal("superseding session reused the prior session id")
	}

	if got := device.streams[0].closed.Load(); got != 1 {
		t.Fatalf("first stream closed %d times, want exactly 1", got)
	}
	if got := device.streams[1].closed.Load(); got != 0 {
		t.Fatal("second stream closed prematurely")
	}
}

func TestStopIsIdempotentAndReleasesOnce(t *testing.T) {
	device := &fakeDevice{}
	m := NewManager(device, testLogger())

	session, err := m.Start(context.Background(), DefaultConstraints())
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	m.Stop()
	m.Stop()
	session.Release()

	if got := device.streams[0].closed.Load(); got != 1 {
		t.Fatalf("stream closed %d times, want exactly 1", got)
	}
	if m.Active() {
		t.Fatal("manager still active after Stop")
	}
}

func TestCaptureWithoutSession(t *testing.T) {
	m := NewManager(&fakeDevice{}, testLogger())
	_, err := m.Capture(context.Background())
	if !errors.Is(err, domain.ErrDeviceAcquisition) {
		t.Fatalf("err = %v, want ErrDeviceAcquisition", err)
	}
	if ReasonOf(err) != ReasonNotFound {
		t.Fatalf("reason = %q, want %q", ReasonOf(err), ReasonNotFound)
	}
}

func TestCaptureKeepsSessionLive(t *testing.T) {
	device := &fakeDevice{}
	m := NewManager(device, testLogger())
	if _, err := m.Start(context.Background(), DefaultConstraints()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	for i := 0; i < 3; i++ {
		payload, err := m.Capture(context.Background())
		if err != nil {
			t.Fatalf("Capture %d returned error: %v", i, err)
		}
		mime, _, err := imaging.Payload(payload).Parse()
		if err != nil {
			t.Fatalf("captured payload invalid: %v", err)
		}
		if mime != imaging.MIMEJPEG {
			t.Fatalf("captured mime = %q, want %q", mime, imaging.MIMEJPEG)
		}
	}
	if !m.Active() {
		t.Fatal("session should remain live after capture")
	}
}

func TestStartClassifiedFailure(t *testing.T) {
	device := &fakeDevice{openErr: NewAcquisitionError(ReasonPermissionDenied, errors.New("denied"))}
	m := NewManager(device, testLogger())

	_, err := m.Start(context.Background(), DefaultConstraints())
	if !errors.Is(err, domain.ErrDeviceAcquisition) {
		t.Fatalf("err = %v, want ErrDeviceAcquisition", err)
	}
	if ReasonOf(err) != ReasonPermissionDenied {
		t.Fatalf("reason = %q, want %q", ReasonOf(err), ReasonPermissionDenied)
	}
	if m.Active() {
		t.Fatal("failed acquisition left manager active")
	}
}

func TestNilDeviceFallsBackToUnavailable(t *testing.T) {
	m := NewManager(nil, testLogger())
	_, err := m.Start(context.Background(), DefaultConstraints())
	if ReasonOf(err) != ReasonNotFound {
		t.Fatalf("reason = %q, want %q", ReasonOf(err), ReasonNotFound)
	}
}

func TestAcquisitionErrorMessages(t *testing.T) {
	tests := []struct {
		reason FailureReason
		want   string
	}{
		{ReasonPermissionDenied, "Camera access was denied. Please check permissions."},
		{ReasonNotFound, "No camera device was found."},
		{ReasonBusy, "The camera is in use by another application."},
		{ReasonDismissed, "The camera request was dismissed."},
		{ReasonUnknown, "Could not access camera. Please check permissions."},
	}
	for _, tc := range tests {
		if got := NewAcquisitionError(tc.reason, nil).Message(); got != tc.want {
			t.Fatalf("Message(%s) = %q, want %q", tc.reason, got, tc.want)
		}
	}
}
