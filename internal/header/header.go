// Package header detects how many leading lines of the source files make up
// the shared header.
package header

import (
	"bufio"
	"bytes"
	"io"
)

// DefaultMaxLines caps the prefix scan when no explicit limit is configured.
const DefaultMaxLines = 100

// Spec describes the header that will be written once at the top of the
// combined output: the line count and the verbatim bytes of those lines,
// taken from the first source file. Line terminators are part of the bytes.
type Spec struct {
	Count int
	Lines [][]byte
}

// Detect returns the number of leading lines that are byte-identical between
// the two readers. The scan stops at the first differing line, at the end of
// either stream, or at max lines, whichever comes first. Zero is a valid
// result and not an error.
func Detect(a, b io.Reader, max int) (int, error) {
	if max <= 0 {
		max = DefaultMaxLines
	}

	ra := bufio.NewReader(a)
	rb := bufio.NewReader(b)

	count := 0
	for count < max {
		lineA, errA := readLine(ra)
		lineB, errB := readLine(rb)
		if errA != nil && errA != io.EOF {
			return 0, errA
		}
		if errB != nil && errB != io.EOF {
			return 0, errB
		}

		if lineA == nil || lineB == nil || !bytes.Equal(lineA, lineB) {
			break
		}
		count++

		if errA == io.EOF || errB == io.EOF {
			break
		}
	}

	return count, nil
}

// ReadSpec builds a Spec from the first count lines of r. If the stream ends
// early, the Spec holds the lines that exist; files shorter than the header
// simply have empty bodies.
func ReadSpec(r io.Reader, count int) (Spec, error) {
	br := bufio.NewReader(r)

	spec := Spec{Lines: make([][]byte, 0, count)}
	for i := 0; i < count; i++ {
		line, err := readLine(br)
		if err != nil && err != io.EOF {
			return Spec{}, err
		}
		if line != nil {
			spec.Lines = append(spec.Lines, line)
		}
		if err == io.EOF {
			break
		}
	}
	spec.Count = len(spec.Lines)

	return spec, nil
}

// readLine returns the next line including its terminator. A final line
// without a trailing newline is still returned; a nil line with io.EOF marks
// stream end.
func readLine(r *bufio.Reader) ([]byte, error) {
	line, err := r.ReadBytes('\n')
	if len(line) == 0 {
		if err == nil {
			err = io.EOF
		}
		return nil, err
	}
	return line, err
}
