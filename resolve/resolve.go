package resolve

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// stdinSentinel is the conventional path meaning "read standard input".
// It is translated to TargetStdin here and nowhere else.
const stdinSentinel = "-"

// TargetKind distinguishes the two kinds of openable targets.
type TargetKind int

const (
	TargetFile TargetKind = iota
	TargetStdin
)

// Target is a single concrete input stream produced by resolution:
// either a named file or standard input.
type Target struct {
	Kind TargetKind
	Path string // set for TargetFile, empty for TargetStdin
}

// Name returns the display name used when prefixing output lines.
func (t Target) Name() string {
	if t.Kind == TargetStdin {
		return stdinSentinel
	}
	return t.Path
}

// Entry is the outcome of one resolution step: a usable Target, or a
// typed error describing why the input path produced none.
type Entry struct {
	Target Target
	Err    error
}

// NotFoundError reports a top-level path whose metadata could not be read
// (missing path, permission denied, and so on).
type NotFoundError struct {
	Path  string
	Cause error
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s: %v", e.Path, e.Cause) }
func (e *NotFoundError) Unwrap() error { return e.Cause }

// DirectoryError reports a directory path given without recursion enabled.
type DirectoryError struct {
	Path string
}

func (e *DirectoryError) Error() string { return fmt.Sprintf("%s is a directory", e.Path) }

// SkipChecker is consulted during recursive walks to prune ignored
// directories and files. A nil checker skips nothing.
type SkipChecker interface {
	ShouldIgnore(absolutePath string) bool
	ShouldIgnoreDir(absolutePath string) bool
}

// Options controls resolution behavior. The zero value resolves
// non-recursively with no filtering.
type Options struct {
	Recursive bool
	Include   []string    // doublestar globs; applied only inside recursive walks
	Skip      SkipChecker // optional; applied only inside recursive walks
}

// Resolve expands input path strings into an ordered list of entries,
// one pass per input path, preserving input order:
//
//   - the "-" sentinel becomes a stdin target;
//   - a regular file becomes a file target with the path unchanged;
//   - a directory becomes one DirectoryError entry, or, with Recursive
//     set, one file target per regular file found under it;
//   - an unreadable path becomes one NotFoundError entry;
//   - any other file type (device, socket, ...) yields no entry.
func Resolve(paths []string, opts Options) []Entry {
	var entries []Entry

	for _, path := range paths {
		if path == stdinSentinel {
			entries = append(entries, Entry{Target: Target{Kind: TargetStdin}})
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			entries = append(entries, Entry{Err: &NotFoundError{Path: path, Cause: statCause(err)}})
			continue
		}

		switch {
		case info.IsDir():
			if !opts.Recursive {
				entries = append(entries, Entry{Err: &DirectoryError{Path: path}})
				continue
			}
			entries = walkTree(path, opts, entries)

		case info.Mode().IsRegular():
			entries = append(entries, Entry{Target: Target{Kind: TargetFile, Path: path}})

		default:
			// Devices, sockets, pipes: not searchable, not an error.
		}
	}

	return entries
}

// walkTree appends one file target per regular file under root.
// Traversal errors on individual subentries are skipped so that one
// unreadable subdirectory does not abort the whole scan; this is a
// deliberate best-effort contract, not an oversight.
func walkTree(root string, opts Options, entries []Entry) []Entry {
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && opts.Skip != nil && opts.Skip.ShouldIgnoreDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if opts.Skip != nil && opts.Skip.ShouldIgnore(path) {
			return nil
		}
		if !matchesInclude(root, path, opts.Include) {
			return nil
		}
		entries = append(entries, Entry{Target: Target{Kind: TargetFile, Path: path}})
		return nil
	})
	return entries
}

// matchesInclude reports whether path (relative to the walk root) matches
// any include glob. An empty glob list includes everything.
func matchesInclude(root string, path string, globs []string) bool {
	if len(globs) == 0 {
		return true
	}
	relPath, err := filepath.Rel(root, path)
	if err != nil {
		relPath = path
	}
	relPath = filepath.ToSlash(relPath)

	for _, glob := range globs {
		matched, err := doublestar.Match(glob, relPath)
		if err == nil && matched {
			return true
		}
		// Also try the basename so "*.go" works at any depth.
		matched, err = doublestar.Match(glob, filepath.Base(relPath))
		if err == nil && matched {
			return true
		}
	}
	return false
}

// statCause unwraps the os.Stat error to its underlying cause so entries
// render as "<path>: <cause>" without repeating the syscall name and path.
func statCause(err error) error {
	if pathErr, ok := err.(*fs.PathError); ok {
		return pathErr.Err
	}
	return err
}
