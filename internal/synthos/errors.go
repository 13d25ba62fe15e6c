package synthos

import (
	"errors"
	"fmt"
)

// ErrRemoteCallFailed matches every failure surfaced by the remote data client.
var ErrRemoteCallFailed = errors.New("remote call failed")

// RemoteError describes a failed call. Message carries the service's own explanation
// when the envelope reported success=false.
type RemoteError struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op + ": remote call failed"
	}
}

func (e *RemoteError) Unwrap() error { return e.Err }

func (e *RemoteError) Is(target error) bool { return target == ErrRemoteCallFailed }
