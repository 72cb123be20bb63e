package workflow

import (
	"context"
	"errors"
	"image"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/fivejjs/gemini3-sample-chronos/internal/capture"
	"github.com/fivejjs/gemini3-sample-chronos/internal/domain"
)

type countingStream struct {
	closes *atomic.Int32
}

func (s *countingStream) ReadFrame(context.Context) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, 2, 2)), nil
}

func (s *countingStream) Close() error {
	s.closes.Add(1)
	return nil
}

type countingDevice struct {
	closes atomic.Int32
}

func (d *countingDevice) Open(context.Context, capture.Constraints) (capture.Stream, error) {
	return &countingStream{closes: &d.closes}, nil
}

func newTestStore(t *testing.T, device capture.Device) *Store {
	t.Helper()
	store := NewStore(time.Minute, &fakeTransformer{}, device, zerolog.New(io.Discard))
	t.Cleanup(store.Close)
	return store
}

func TestStoreCreateAndGet(t *testing.T) {
	store := newTestStore(t, nil)

	session := store.Create()
	if session.ID() == "" {
		t.Fatal("created session has no id")
	}

	got, err := store.Get(session.ID())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != session {
		t.Fatal("Get returned a different session")
	}
	if store.Len() != 1 {
		t.Fatalf("Len = %d, want 1", store.Len())
	}
}

func TestStoreGetUnknown(t *testing.T) {
	store := newTestStore(t, nil)
	_, err := store.Get("no-such-session")
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestStoreDeleteReleasesCamera(t *testing.T) {
	device := &countingDevice{}
	store := newTestStore(t, device)

	session := store.Create()
	if err := session.CameraStart(context.Background(), capture.DefaultConstraints()); err != nil {
		t.Fatalf("CameraStart: %v", err)
	}

	store.Delete(session.ID())
	if n := device.closes.Load(); n != 1 {
		t.Fatalf("stream closed %d times after delete, want 1", n)
	}
	if _, err := store.Get(session.ID()); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("deleted session still resolvable: %v", err)
	}
}

func TestStoreCloseReleasesAllSessions(t *testing.T) {
	device := &countingDevice{}
	store := newTestStore(t, device)

	for i := 0; i < 3; i++ {
		session := store.Create()
		if err := session.CameraStart(context.Background(), capture.DefaultConstraints()); err != nil {
			t.Fatalf("CameraStart: %v", err)
		}
	}

	store.Close()
	if n := device.closes.Load(); n != 3 {
		t.Fatalf("stream closes = %d, want 3", n)
	}
	if store.Len() != 0 {
		t.Fatalf("Len after close = %d, want 0", store.Len())
	}
}
