package capture

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/fivejjs/gemini3-sample-chronos/internal/domain"
)

// Constraints describe the preferred video stream to acquire.
type Constraints struct {
	Width       int
	Height      int
	FacingFront bool
}

// DefaultConstraints prefers a front-facing 1280x720 stream.
func DefaultConstraints() Constraints {
	return Constraints{Width: 1280, Height: 720, FacingFront: true}
}

// Stream is a live video-device session. Closing it stops all underlying
// tracks and releases the hardware lock.
type Stream interface {
	ReadFrame(ctx context.Context) (image.Image, error)
	Close() error
}

// Device opens video streams. Exactly one stream may be open per device at a
// time; a second Open without closing the first fails as busy.
type Device interface {
	Open(ctx context.Context, c Constraints) (Stream, error)
}

// FailureReason classifies why a device acquisition failed.
type FailureReason string

const (
	ReasonPermissionDenied FailureReason = "permission_denied"
	ReasonNotFound         FailureReason = "not_found"
	ReasonBusy             FailureReason = "busy"
	ReasonDismissed        FailureReason = "dismissed"
	ReasonUnknown          FailureReason = "unknown"
)

// AcquisitionError reports a classified device acquisition failure.
type AcquisitionError struct {
	Reason FailureReason
	Cause  error
}

func (e *AcquisitionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("device acquisition failed (%s): %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("device acquisition failed (%s)", e.Reason)
}

func (e *AcquisitionError) Unwrap() error {
	return e.Cause
}

func (e *AcquisitionError) Is(target error) bool {
	return target == domain.ErrDeviceAcquisition
}

// Message returns the human-readable notification for the failure.
func (e *AcquisitionError) Message() string {
	switch e.Reason {
	case ReasonPermissionDenied:
		return "Camera access was denied. Please check permissions."
	case ReasonNotFound:
		return "No camera device was found."
	case ReasonBusy:
		return "The camera is in use by another application."
	case ReasonDismissed:
		return "The camera request was dismissed."
	default:
		return "Could not access camera. Please check permissions."
	}
}

// NewAcquisitionError builds a classified acquisition failure.
func NewAcquisitionError(reason FailureReason, cause error) *AcquisitionError {
	return &AcquisitionError{Reason: reason, Cause: cause}
}

// ReasonOf extracts the failure classification from an error chain, falling
// back to unknown.
func ReasonOf(err error) FailureReason {
	var acq *AcquisitionError
	if errors.As(err, &acq) {
		return acq.Reason
	}
	return ReasonUnknown
}

// unavailableDevice is used when no camera hardware is configured.
type unavailableDevice struct{}

// Unavailable returns a device whose acquisition always fails as not found.
func Unavailable() Device {
	return unavailableDevice{}
}

func (unavailableDevice) Open(context.Context, Constraints) (Stream, error) {
	return nil, NewAcquisitionError(ReasonNotFound, errors.New("no capture device configured"))
}
