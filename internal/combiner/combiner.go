// Package combiner concatenates the source files into the target, writing
// the reference header once and streaming every file's body after it.
package combiner

import (
	"bufio"
	"bytes"
	"errors"
	"io"

	"github.com/spf13/afero"

	"github.com/satishbabariya/csvcombine/internal/debug"
	"github.com/satishbabariya/csvcombine/internal/header"
)

// Options configures a combine run.
type Options struct {
	// Progress, if set, is called with each source path before it is
	// processed. Used by the CLI for its progress bar.
	Progress func(path string)
}

// Combine writes the header lines from spec followed by the body lines of
// every source, in order, into target. Writes are byte-preserving: lines are
// copied exactly as read, no re-encoding.
//
// A source that cannot be opened is recorded as skipped and the run
// continues. A failure to create or write the target is fatal and returns a
// *TargetWriteError; whatever was written stays on disk.
func Combine(fs afero.Fs, target string, sources []string, spec header.Spec, opts Options) (*Report, error) {
	if len(sources) == 0 {
		return nil, NewConfigError(ErrNoSources, "")
	}
	for _, src := range sources {
		if src == target {
			return nil, NewConfigError(ErrTargetIsSource, src)
		}
	}

	out, err := fs.Create(target)
	if err != nil {
		return nil, &TargetWriteError{Path: target, Cause: err}
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	report := &Report{}

	for _, line := range spec.Lines {
		if _, err := w.Write(line); err != nil {
			return report, &TargetWriteError{Path: target, Cause: err}
		}
	}

	for _, src := range sources {
		if opts.Progress != nil {
			opts.Progress(src)
		}
		if err := appendBody(fs, w, src, spec, report); err != nil {
			return report, &TargetWriteError{Path: target, Cause: err}
		}
	}

	if err := w.Flush(); err != nil {
		return report, &TargetWriteError{Path: target, Cause: err}
	}
	if err := out.Close(); err != nil {
		return report, &TargetWriteError{Path: target, Cause: err}
	}

	return report, nil
}

// appendBody streams one source into w. Its leading spec.Count lines are
// compared against the reference header and recorded on mismatch; everything
// after them is copied verbatim. The returned error is a write error only,
// read failures are recorded in the report.
func appendBody(fs afero.Fs, w *bufio.Writer, src string, spec header.Spec, report *Report) error {
	in, err := fs.Open(src)
	if err != nil {
		debug.Warn("skipping unreadable source", "path", src, "error", err)
		report.addSkipped(src, err, 0)
		return nil
	}
	defer in.Close()

	r := bufio.NewReader(in)

	for i := 0; i < spec.Count; i++ {
		line, err := r.ReadBytes('\n')
		if err != nil && err != io.EOF {
			debug.Warn("skipping source after read error", "path", src, "error", err)
			report.addSkipped(src, err, 0)
			return nil
		}
		if !bytes.Equal(line, spec.Lines[i]) {
			report.addMismatch(src, i+1, spec.Lines[i], line)
		}
		if err == io.EOF && i < spec.Count-1 {
			// Shorter than the header: remaining header lines are
			// mismatches against nothing, the body is empty.
			for j := i + 1; j < spec.Count; j++ {
				report.addMismatch(src, j+1, spec.Lines[j], nil)
			}
			break
		}
	}

	lines, err := copyLines(w, r)
	report.BodyLines += lines
	if err != nil {
		if isWriteError(err) {
			return err
		}
		debug.Warn("read error mid-file, rest of source dropped", "path", src, "error", err, "body_lines_written", lines)
		report.addSkipped(src, err, lines)
		return nil
	}
	report.FilesCombined++
	debug.Debug("appended source", "path", src, "body_lines", lines)

	return nil
}

// writeError tags errors coming from the writer side of copyLines so the
// caller can tell them apart from source read errors.
type writeError struct{ cause error }

func (e *writeError) Error() string { return e.cause.Error() }
func (e *writeError) Unwrap() error { return e.cause }

func isWriteError(err error) bool {
	var we *writeError
	return errors.As(err, &we)
}

// copyLines copies r into w line by line, counting lines. A trailing line
// without a newline still counts as one line.
func copyLines(w *bufio.Writer, r *bufio.Reader) (int, error) {
	lines := 0
	for {
		line, err := r.ReadBytes('\n')
		if len(line) > 0 {
			lines++
			if _, werr := w.Write(line); werr != nil {
				return lines, &writeError{cause: werr}
			}
		}
		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			return lines, err
		}
	}
}
