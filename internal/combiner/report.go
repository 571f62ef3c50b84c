package combiner

// Mismatch records a header line in a source file that differs from the
// reference header at the same position. The file is still combined; the
// reference header wins.
type Mismatch struct {
	Path     string
	Line     int // 1-based
	Expected string
	Actual   string
}

// SkippedFile records a source that could not be opened or read. The run
// continues without it. A file failing mid-body is only partially excluded:
// LinesWritten body lines were already copied into the target (and counted
// in Report.BodyLines) before the read error.
type SkippedFile struct {
	Path         string
	Cause        error
	LinesWritten int
}

// Report accumulates what happened during a combine run.
type Report struct {
	Mismatches    []Mismatch
	Skipped       []SkippedFile
	FilesCombined int
	BodyLines     int
}

func (r *Report) addMismatch(path string, line int, expected, actual []byte) {
	r.Mismatches = append(r.Mismatches, Mismatch{
		Path:     path,
		Line:     line,
		Expected: string(expected),
		Actual:   string(actual),
	})
}

func (r *Report) addSkipped(path string, cause error, linesWritten int) {
	r.Skipped = append(r.Skipped, SkippedFile{Path: path, Cause: cause, LinesWritten: linesWritten})
}
