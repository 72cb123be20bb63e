package domain

import "errors"

var (
	ErrMissingCredential = errors.New("missing api credential")
	ErrRemoteService     = errors.New("remote service failure")
	ErrNoImageProduced   = errors.New("no image produced")
	ErrEmptyAnalysis     = errors.New("empty analysis")
	ErrFileRead          = errors.New("file read failure")
	ErrDeviceAcquisition = errors.New("device acquisition failure")
	ErrSessionNotFound   = errors.New("session not found")
	ErrBusy              = errors.New("request already in flight")
	ErrPrecondition      = errors.New("precondition not met")
	ErrUnsupportedImage  = errors.New("unsupported image format")
)
