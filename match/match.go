// Package match implements line-by-line pattern matching over a byte
// stream, preserving each line's original terminator bytes.
package match

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Pattern is an immutable compiled regular expression. Case sensitivity
// is baked in at compile time, never decided per call.
type Pattern struct {
	re *regexp.Regexp
}

// Compile builds a pattern from a regular expression string. With
// insensitive set, the whole expression is case-folded.
func Compile(expr string, insensitive bool) (*Pattern, error) {
	if insensitive {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compiling pattern: %w", err)
	}
	return &Pattern{re: re}, nil
}

// Match reports whether the pattern matches the given line. The line is
// expected to have its terminator already stripped.
func (p *Pattern) Match(line string) bool {
	return p.re.MatchString(line)
}

// String returns the compiled expression, including any baked-in flags.
func (p *Pattern) String() string {
	return p.re.String()
}

// ReadError reports an I/O failure while reading lines from a stream.
type ReadError struct {
	Cause error
}

func (e *ReadError) Error() string { return fmt.Sprintf("reading input: %v", e.Cause) }
func (e *ReadError) Unwrap() error { return e.Cause }

// Lines reads the stream one line at a time and returns, in order, every
// line whose match status equals the desired polarity: matching lines
// normally, non-matching lines with invert set.
//
// Returned lines keep their terminator bytes exactly as read, so a "\r\n"
// line stays "\r\n"-terminated and a final line without a terminator is
// returned as-is. The match predicate itself sees the line with its
// terminator stripped.
//
// A read failure returns a ReadError and no lines: results for a single
// stream are all-or-nothing.
func Lines(r io.Reader, p *Pattern, invert bool) ([]string, error) {
	reader := bufio.NewReader(r)
	var selected []string

	for {
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, &ReadError{Cause: err}
		}
		if line != "" && p.Match(trimTerminator(line)) != invert {
			selected = append(selected, line)
		}
		if err != nil {
			return selected, nil
		}
	}
}

// trimTerminator strips a trailing "\n" or "\r\n".
func trimTerminator(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}
