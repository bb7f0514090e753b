package resolve

import (
	"fmt"
	"io"
	"os"
)

// OpenError reports a resolved target that could not be opened for
// reading (permissions, file removed between resolution and open, ...).
type OpenError struct {
	Path  string
	Cause error
}

func (e *OpenError) Error() string { return fmt.Sprintf("%s: %v", e.Path, e.Cause) }
func (e *OpenError) Unwrap() error { return e.Cause }

// Open turns a target into a readable stream. Stdin targets return the
// process's standard input behind a no-op closer so the caller can close
// every stream uniformly without closing os.Stdin itself.
func Open(target Target) (io.ReadCloser, error) {
	if target.Kind == TargetStdin {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(target.Path)
	if err != nil {
		return nil, &OpenError{Path: target.Path, Cause: statCause(err)}
	}
	return f, nil
}
