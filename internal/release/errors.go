package release

import (
	"fmt"

	"github.com/AloisH/capture-cli/internal/platform"
)

// Errors from target resolution, re-exported so callers need only this
// package to classify installer failures.
type (
	UnsupportedPlatformError     = platform.UnsupportedPlatformError
	UnsupportedArchitectureError = platform.UnsupportedArchitectureError
)

// DownloadError is returned when the release host answers with a status
// other than 200 (after redirects).
type DownloadError struct {
	URL        string
	StatusCode int
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("Download failed: HTTP %d", e.StatusCode)
}

// NetworkError wraps a transport-level failure.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// TooManyRedirectsError is returned when a download exceeds the redirect
// budget.
type TooManyRedirectsError struct {
	URL string
	Max int
}

func (e *TooManyRedirectsError) Error() string {
	return fmt.Sprintf("download %s: stopped after %d redirects", e.URL, e.Max)
}

// ExtractionError wraps any failure while unpacking or finalizing the
// archive contents.
type ExtractionError struct {
	Archive string
	Err     error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Archive, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// VerificationError is returned when an archive fails its integrity check.
type VerificationError struct {
	Method VerificationMethod
	Err    error
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("%s verification failed: %v", e.Method, e.Err)
}

func (e *VerificationError) Unwrap() error {
	return e.Err
}
