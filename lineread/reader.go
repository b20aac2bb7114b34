// Package lineread turns a byte-oriented input into a lazy, pull-based
// sequence of decoded text lines annotated with 1-based line numbers —
// Component A of the pipeline (spec section 4.A).
package lineread

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"iter"
	"strings"
	"sync"
)

// Line is one emitted line together with its 1-based line number.
type Line struct {
	Number int
	Text   string
}

// Reader pulls decoded lines out of an underlying byte source. The source
// is acquired lazily (on the first Next call) and released at most once, on
// whichever terminal condition comes first: normal end of input, a read or
// decode error, or context cancellation.
type Reader struct {
	src  io.Reader
	opts Options

	buf        bytes.Buffer
	chunk      []byte
	lineNo     int
	sourceEOF  bool
	finalFlush bool // residual tail has been handled; no more lines remain
	closed     bool
	closeOnce  sync.Once
}

// New creates a Reader over src with the given options. If src implements
// io.Closer, it is closed exactly once when the Reader reaches a terminal
// condition.
func New(src io.Reader, opts Options) *Reader {
	return &Reader{
		src:   src,
		opts:  opts.withDefaults(),
		chunk: make([]byte, 64*1024),
	}
}

func (r *Reader) release() error {
	var err error
	r.closeOnce.Do(func() {
		r.closed = true
		if c, ok := r.src.(io.Closer); ok {
			err = c.Close()
		}
	})
	return err
}

// Next pulls the next line. ok is false once the source is exhausted (err
// is nil in that case) or a terminal error has occurred (err is non-nil).
// Calling Next again after a terminal return is safe and returns ok=false,
// nil immediately.
func (r *Reader) Next(ctx context.Context) (Line, bool, error) {
	if r.closed {
		return Line{}, false, nil
	}

	delim := delimiterFor(r.opts.Encoding)

	for {
		if err := ctx.Err(); err != nil {
			_ = r.release()
			return Line{}, false, err
		}

		if raw, found := r.extractDelimited(delim); found {
			line, ok, err := r.emit(raw)
			if err != nil {
				_ = r.release()
				return Line{}, false, err
			}
			if ok {
				return line, true, nil
			}
			continue // filtered blank line; keep scanning
		}

		if r.buf.Len() >= r.opts.MaxLineLength {
			raw := r.takeTruncated(delim)
			line, ok, err := r.emit(raw)
			if err != nil {
				_ = r.release()
				return Line{}, false, err
			}
			if ok {
				return line, true, nil
			}
			continue
		}

		if r.sourceEOF {
			if r.finalFlush {
				_ = r.release()
				return Line{}, false, nil
			}
			r.finalFlush = true
			if r.buf.Len() == 0 {
				_ = r.release()
				return Line{}, false, nil
			}
			raw := append([]byte(nil), r.buf.Bytes()...)
			r.buf.Reset()
			line, ok, err := r.emit(raw)
			if err != nil {
				_ = r.release()
				return Line{}, false, err
			}
			if ok {
				return line, true, nil
			}
			_ = r.release()
			return Line{}, false, nil
		}

		n, err := r.src.Read(r.chunk)
		if n > 0 {
			r.buf.Write(r.chunk[:n])
		}
		if err == io.EOF {
			r.sourceEOF = true
			continue
		}
		if err != nil {
			_ = r.release()
			return Line{}, false, fmt.Errorf("lineread: read source: %w", err)
		}
	}
}

// extractDelimited pulls one delimited raw line out of the buffer, if a
// full delimiter is present. For the two-byte encodings it only accepts a
// match at an even byte offset, since the delimiter can otherwise
// false-match inside a multi-byte code unit.
func (r *Reader) extractDelimited(delim []byte) ([]byte, bool) {
	data := r.buf.Bytes()
	aligned := len(delim) == 2

	search := data
	offset := 0
	for {
		idx := bytes.Index(search, delim)
		if idx < 0 {
			return nil, false
		}
		abs := offset + idx
		if aligned && abs%2 != 0 {
			offset = abs + 1
			if offset >= len(data) {
				return nil, false
			}
			search = data[offset:]
			continue
		}
		if abs > r.opts.MaxLineLength {
			return nil, false // over-long line: Next truncates it instead
		}
		raw := append([]byte(nil), data[:abs]...)
		r.buf.Next(abs + len(delim))
		return raw, true
	}
}

// takeTruncated greedily emits MaxLineLength bytes as one line when no
// delimiter appears within the first MaxLineLength bytes, per spec section 4.A's "truncation is greedy
// and repeated, never silent skipping" policy. For the two-byte encodings
// the cut point is rounded down to an even offset so a code unit is never
// split.
func (r *Reader) takeTruncated(delim []byte) []byte {
	n := r.opts.MaxLineLength
	if len(delim) == 2 && n%2 != 0 {
		n--
	}
	raw := append([]byte(nil), r.buf.Bytes()[:n]...)
	r.buf.Next(n)
	return raw
}

// emit decodes raw and applies the empty-line policy. ok is false when the
// line was filtered (blank, IncludeEmpty unset) rather than an error.
func (r *Reader) emit(raw []byte) (Line, bool, error) {
	text, err := decodeLine(raw, r.opts.Encoding)
	if err != nil {
		return Line{}, false, fmt.Errorf("lineread: decode line %d: %w", r.lineNo+1, err)
	}

	isBlank := strings.TrimSpace(text) == ""
	if isBlank && !r.opts.IncludeEmpty {
		return Line{}, false, nil
	}

	r.lineNo++
	return Line{Number: r.lineNo, Text: text}, true, nil
}

// Lines returns an idiomatic range-over-func sequence pairing each Line
// with an error. A non-nil error is always the final pair yielded; consumers
// that `break` out of the range stop pulling, which is this package's
// cancellation contract (the underlying source is released before the next
// iteration would have occurred).
func (r *Reader) Lines(ctx context.Context) iter.Seq2[Line, error] {
	return func(yield func(Line, error) bool) {
		for {
			line, ok, err := r.Next(ctx)
			if err != nil {
				yield(Line{}, err)
				return
			}
			if !ok {
				return
			}
			if !yield(line, nil) {
				_ = r.release()
				return
			}
		}
	}
}
