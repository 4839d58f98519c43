package trip

import (
	"errors"
	"fmt"
)

// FailureKind classifies a reconciliation failure so the caller can choose
// the right recovery prompt: a revoked grant can be re-granted, a missing
// folder cannot.
type FailureKind int

const (
	// KindNoCredential means no folder grant is stored for the project.
	KindNoCredential FailureKind = iota
	// KindAccessDenied means the stored grant exists but access was refused.
	KindAccessDenied
	// KindFolderMissing means the project root no longer exists.
	KindFolderMissing
	// KindEmptyScan means the scan returned zero files, the signal for a
	// stale or revoked handle rather than a genuinely empty project.
	KindEmptyScan
)

func (k FailureKind) String() string {
	switch k {
	case KindNoCredential:
		return "no-credential"
	case KindAccessDenied:
		return "access-denied"
	case KindFolderMissing:
		return "folder-missing"
	case KindEmptyScan:
		return "empty-scan"
	default:
		return "unknown"
	}
}

// ScanError is the single hard failure the core produces. It is surfaced
// once, unmodified; retry policy is a caller concern.
type ScanError struct {
	Kind FailureKind
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	msg := fmt.Sprintf("scan failed (%s): %s", e.Kind, e.Path)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ScanError) Unwrap() error { return e.Err }

// ScanFailure extracts a ScanError from an error chain.
func ScanFailure(err error) (*ScanError, bool) {
	var se *ScanError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// ErrHandleNotFound is returned by a CredentialStore when no grant is
// stored for the project.
var ErrHandleNotFound = errors.New("no folder grant stored for project")
