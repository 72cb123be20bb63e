package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/fivejjs/gemini3-sample-chronos/internal/capture"
	"github.com/fivejjs/gemini3-sample-chronos/internal/domain"
	"github.com/fivejjs/gemini3-sample-chronos/internal/imaging"
	"github.com/fivejjs/gemini3-sample-chronos/internal/scene"
)

// Status is the workflow's coarse phase indicator. It gates request issuance:
// no transform or analysis may start while one is processing.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusProcessing Status = "processing"
	StatusResult     Status = "result"
	// StatusError is declared for completeness of the enum; failures surface
	// as notifications while the workflow returns to idle or result, so no
	// operation currently enters it.
	StatusError Status = "error"
)

// analysisFallback replaces an analysis response that carried no text.
const analysisFallback = "Analysis failed to produce text."

// Transformer is the remote generative-image contract the workflow drives.
type Transformer interface {
	Transform(ctx context.Context, payload imaging.Payload, instruction string) (imaging.Payload, error)
	Analyze(ctx context.Context, payload imaging.Payload) (string, error)
}

// Snapshot is a read-only view of session state for the presentation layer.
type Snapshot struct {
	ID            string        `json:"id"`
	Status        Status        `json:"status"`
	OriginalImage bool          `json:"has_original_image"`
	CurrentImage  bool          `json:"has_current_image"`
	Original      string        `json:"original_image,omitempty"`
	Current       string        `json:"current_image,omitempty"`
	SelectedScene *scene.Preset `json:"selected_scene,omitempty"`
	AnalysisText  string        `json:"analysis_text,omitempty"`
	LoadingMsg    string        `json:"loading_message,omitempty"`
	CameraActive  bool          `json:"camera_active"`
	CreatedAt     time.Time     `json:"created_at"`
}

// Session owns the workflow state for one client: original and current image,
// selected scene, analysis text and the processing gate. All mutation goes
// through its operations; the presentation layer only reads snapshots.
type Session struct {
	id        string
	createdAt time.Time

	transformer Transformer
	camera      *capture.Manager
	log         zerolog.Logger

	mu       sync.Mutex
	status   Status
	original imaging.Payload
	current  imaging.Payload
	selected *scene.Preset
	editText string
	analysis string
	loading  string
	epoch    uint64
}

func newSession(id string, transformer Transformer, camera *capture.Manager, log zerolog.Logger) *Session {
	return &Session{
		id:          id,
		createdAt:   time.Now(),
		transformer: transformer,
		camera:      camera,
		log:         log.With().Str("session", id).Logger(),
		status:      StatusIdle,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		ID:            s.id,
		Status:        s.status,
		OriginalImage: !s.original.IsZero(),
		CurrentImage:  !s.current.IsZero(),
		Original:      string(s.original),
		Current:       string(s.current),
		AnalysisText:  s.analysis,
		LoadingMsg:    s.loading,
		CameraActive:  s.camera.Active(),
		CreatedAt:     s.createdAt,
	}
	if s.selected != nil {
		preset := *s.selected
		snap.SelectedScene = &preset
	}
	return snap
}

// SetInputImage installs the acquired portrait as both the original and the
// current image. The original is set once per session; starting over
// requires Reset.
func (s *Session) SetInputImage(payload imaging.Payload) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if payload.IsZero() {
		return s.snapshotLocked(), fmt.Errorf("%w: empty image payload", domain.ErrPrecondition)
	}
	if !s.original.IsZero() {
		return s.snapshotLocked(), fmt.Errorf("%w: input image already set", domain.ErrPrecondition)
	}
	s.original = payload
	s.current = payload
	s.log.Info().Msg("workflow: input image set")
	return s.snapshotLocked(), nil
}

// Reset returns the session to its initial state unconditionally, releasing
// any live camera session. An in-flight request is not aborted, but its
// response is discarded: Reset advances the request epoch and late responses
// only apply when their epoch still matches.
func (s *Session) Reset() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.status = StatusIdle
	s.original = ""
	s.current = ""
	s.selected = nil
	s.editText = ""
	s.analysis = ""
	s.loading = ""
	s.camera.Stop()
	s.log.Info().Uint64("epoch", s.epoch).Msg("workflow: reset")
	return s.snapshotLocked()
}

// Travel transforms the current image into the given scene. On success the
// result replaces the current image; on failure the session returns to idle.
func (s *Session) Travel(ctx context.Context, preset scene.Preset) (Snapshot, error) {
	s.mu.Lock()
	if s.status == StatusProcessing {
		defer s.mu.Unlock()
		return s.snapshotLocked(), domain.ErrBusy
	}
	if s.current.IsZero() {
		defer s.mu.Unlock()
		return s.snapshotLocked(), fmt.Errorf("%w: no image to transform", domain.ErrPrecondition)
	}
	s.status = StatusProcessing
	s.loading = fmt.Sprintf("Traveling to %s...", preset.Era)
	selected := preset
	s.selected = &selected
	epoch := s.epoch
	input := s.current
	s.mu.Unlock()

	result, err := s.transformer.Transform(ctx, input, preset.PromptModifier)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		s.log.Debug().Str("scene", preset.ID).Msg("workflow: discarding stale travel response")
		return s.snapshotLocked(), nil
	}
	s.loading = ""
	if err != nil {
		s.status = StatusIdle
		s.log.Warn().Err(err).Str("scene", preset.ID).Msg("workflow: travel failed")
		return s.snapshotLocked(), err
	}
	s.current = result
	s.status = StatusResult
	s.log.Info().Str("scene", preset.ID).Msg("workflow: travel succeeded")
	return s.snapshotLocked(), nil
}

// Edit transforms the current image with a free-form instruction. Blank
// instructions do not fire. On failure the session stays on the last result.
func (s *Session) Edit(ctx context.Context, text string) (Snapshot, error) {
	trimmed := strings.TrimSpace(text)

	s.mu.Lock()
	if s.status == StatusProcessing {
		defer s.mu.Unlock()
		return s.snapshotLocked(), domain.ErrBusy
	}
	if s.current.IsZero() {
		defer s.mu.Unlock()
		return s.snapshotLocked(), fmt.Errorf("%w: no image to edit", domain.ErrPrecondition)
	}
	if trimmed == "" {
		defer s.mu.Unlock()
		return s.snapshotLocked(), fmt.Errorf("%w: empty edit instruction", domain.ErrPrecondition)
	}
	s.status = StatusProcessing
	s.loading = "Refining reality..."
	s.editText = trimmed
	epoch := s.epoch
	input := s.current
	s.mu.Unlock()

	result, err := s.transformer.Transform(ctx, input, trimmed)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		s.log.Debug().Msg("workflow: discarding stale edit response")
		return s.snapshotLocked(), nil
	}
	s.loading = ""
	if err != nil {
		s.status = StatusResult
		s.log.Warn().Err(err).Msg("workflow: edit failed")
		return s.snapshotLocked(), err
	}
	s.current = result
	s.editText = ""
	s.status = StatusResult
	s.log.Info().Msg("workflow: edit succeeded")
	return s.snapshotLocked(), nil
}

// Analyze asks the model to describe the current image. A response without
// text degrades to a placeholder instead of failing.
func (s *Session) Analyze(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	if s.status == StatusProcessing {
		defer s.mu.Unlock()
		return s.snapshotLocked(), domain.ErrBusy
	}
	if s.current.IsZero() {
		defer s.mu.Unlock()
		return s.snapshotLocked(), fmt.Errorf("%w: no image to analyze", domain.ErrPrecondition)
	}
	s.status = StatusProcessing
	s.loading = "Analyzing temporal anomalies..."
	epoch := s.epoch
	input := s.current
	s.mu.Unlock()

	text, err := s.transformer.Analyze(ctx, input)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		s.log.Debug().Msg("workflow: discarding stale analysis response")
		return s.snapshotLocked(), nil
	}
	s.loading = ""
	if errors.Is(err, domain.ErrEmptyAnalysis) {
		s.analysis = analysisFallback
		s.status = StatusResult
		s.log.Warn().Msg("workflow: analysis produced no text, using fallback")
		return s.snapshotLocked(), nil
	}
	if err != nil {
		s.status = StatusResult
		s.log.Warn().Err(err).Msg("workflow: analysis failed")
		return s.snapshotLocked(), err
	}
	s.analysis = text
	s.status = StatusResult
	s.log.Info().Msg("workflow: analysis succeeded")
	return s.snapshotLocked(), nil
}

// RevertToOriginal restores the original image and clears the analysis. It
// only fires when the current image has actually diverged.
func (s *Session) RevertToOriginal() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusProcessing {
		return s.snapshotLocked(), domain.ErrBusy
	}
	if s.current == s.original {
		return s.snapshotLocked(), fmt.Errorf("%w: current image is the original", domain.ErrPrecondition)
	}
	s.current = s.original
	s.analysis = ""
	s.log.Info().Msg("workflow: reverted to original")
	return s.snapshotLocked(), nil
}

// CurrentImage returns the current image payload.
func (s *Session) CurrentImage() (imaging.Payload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current.IsZero() {
		return "", fmt.Errorf("%w: no image held", domain.ErrPrecondition)
	}
	return s.current, nil
}

// OriginalImage returns the original image payload.
func (s *Session) OriginalImage() (imaging.Payload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.original.IsZero() {
		return "", fmt.Errorf("%w: no image held", domain.ErrPrecondition)
	}
	return s.original, nil
}

// AnalysisText returns the last analysis result, if any.
func (s *Session) AnalysisText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analysis
}

// CameraStart acquires a camera stream for this session, superseding any
// prior one.
func (s *Session) CameraStart(ctx context.Context, constraints capture.Constraints) error {
	_, err := s.camera.Start(ctx, constraints)
	return err
}

// CameraCapture grabs a still from the live camera session and installs it as
// the input image. The camera session stays live for repeat attempts after a
// Reset.
func (s *Session) CameraCapture(ctx context.Context) (Snapshot, error) {
	payload, err := s.camera.Capture(ctx)
	if err != nil {
		return s.Snapshot(), err
	}
	return s.SetInputImage(payload)
}

// CameraStop releases the camera session, if any.
func (s *Session) CameraStop() {
	s.camera.Stop()
}

// Close releases every OS resource the session holds. Called on eviction and
// shutdown; safe to call more than once.
func (s *Session) Close() {
	s.camera.Stop()
}
