package capture

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fivejjs/gemini3-sample-chronos/internal/imaging"
)

// Session is one acquired camera stream. Release stops the underlying tracks
// exactly once no matter how many paths reach it.
type Session struct {
	ID       string
	OpenedAt time.Time

	stream  Stream
	release sync.Once
}

// Release stops the session's tracks. Safe to call from every exit path.
func (s *Session) Release() {
	if s == nil {
		return
	}
	s.release.Do(func() {
		if s.stream != nil {
			_ = s.stream.Close()
		}
	})
}

// Manager owns at most one live camera session. Acquiring while a session is
// live supersedes it: the prior session's tracks are stopped before the new
// stream is requested, so the hardware lock never leaks.
type Manager struct {
	device Device
	log    zerolog.Logger

	mu     sync.Mutex
	active *Session
}

// NewManager wires a manager around the given device.
func NewManager(device Device, log zerolog.Logger) *Manager {
	if device == nil {
		device = Unavailable()
	}
	return &Manager{device: device, log: log}
}

// Start acquires a stream under the given constraints. Any prior live
// session is released first.
func (m *Manager) Start(ctx context.Context, c Constraints) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != nil {
		m.log.Debug().Str("camera_session", m.active.ID).Msg("capture: superseding live session")
		m.active.Release()
		m.active = nil
	}

	stream, err := m.device.Open(ctx, c)
	if err != nil {
		m.log.Warn().Err(err).Str("reason", string(ReasonOf(err))).Msg("capture: device acquisition failed")
		return nil, err
	}

	session := &Session{ID: uuid.NewString(), OpenedAt: time.Now(), stream: stream}
	m.active = session
	m.log.Info().Str("camera_session", session.ID).Msg("capture: session started")
	return session, nil
}

// Capture grabs the current frame from the live session, mirrors it back to
// natural orientation and encodes it. The session stays live afterwards so
// repeat captures are allowed.
func (m *Manager) Capture(ctx context.Context) (imaging.Payload, error) {
	m.mu.Lock()
	session := m.active
	m.mu.Unlock()

	if session == nil {
		return "", NewAcquisitionError(ReasonNotFound, errors.New("no live camera session"))
	}
	frame, err := session.stream.ReadFrame(ctx)
	if err != nil {
		return "", err
	}
	return imaging.EncodeFrame(frame)
}

// Stop releases the live session, if any. Idempotent.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return
	}
	m.log.Info().Str("camera_session", m.active.ID).Msg("capture: session stopped")
	m.active.Release()
	m.active = nil
}

// Active reports whether a camera session is currently live.
func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active != nil
}
