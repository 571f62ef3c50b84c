package combiner

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/csvcombine/internal/header"
)

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
}

func readFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return string(data)
}

func specOf(lines ...string) header.Spec {
	spec := header.Spec{Count: len(lines)}
	for _, l := range lines {
		spec.Lines = append(spec.Lines, []byte(l))
	}
	return spec
}

// truncatingFs serves data for one path and then fails the read instead of
// returning EOF, simulating a source that dies mid-file.
type truncatingFs struct {
	afero.Fs
	path string
	data string
	err  error
}

func (f *truncatingFs) Open(name string) (afero.File, error) {
	file, err := f.Fs.Open(name)
	if err != nil || name != f.path {
		return file, err
	}
	return &truncatingFile{File: file, r: strings.NewReader(f.data), err: f.err}, nil
}

type truncatingFile struct {
	afero.File
	r   io.Reader
	err error
}

func (f *truncatingFile) Read(p []byte) (int, error) {
	n, err := f.r.Read(p)
	if err == io.EOF {
		return n, f.err
	}
	return n, err
}

func TestCombine(t *testing.T) {
	t.Run("header written once, bodies in order", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFile(t, fs, "a.csv", "h1\nh2\n1,2\n")
		writeFile(t, fs, "b.csv", "h1\nh2\n3,4\n")

		report, err := Combine(fs, "out.csv", []string{"a.csv", "b.csv"}, specOf("h1\n", "h2\n"), Options{})
		require.NoError(t, err)

		assert.Equal(t, "h1\nh2\n1,2\n3,4\n", readFile(t, fs, "out.csv"))
		assert.Equal(t, 2, report.FilesCombined)
		assert.Equal(t, 2, report.BodyLines)
		assert.Empty(t, report.Mismatches)
		assert.Empty(t, report.Skipped)
	})

	t.Run("mismatched header logged, reference header wins", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFile(t, fs, "a.csv", "H\nx\n")
		writeFile(t, fs, "b.csv", "DIFFERENT\ny\n")

		report, err := Combine(fs, "out.csv", []string{"a.csv", "b.csv"}, specOf("H\n"), Options{})
		require.NoError(t, err)

		assert.Equal(t, "H\nx\ny\n", readFile(t, fs, "out.csv"))
		require.Len(t, report.Mismatches, 1)
		m := report.Mismatches[0]
		assert.Equal(t, "b.csv", m.Path)
		assert.Equal(t, 1, m.Line)
		assert.Equal(t, "H\n", m.Expected)
		assert.Equal(t, "DIFFERENT\n", m.Actual)
	})

	t.Run("unreadable source skipped, run continues", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFile(t, fs, "a.csv", "h\n1\n")
		writeFile(t, fs, "c.csv", "h\n3\n")

		report, err := Combine(fs, "out.csv", []string{"a.csv", "missing.csv", "c.csv"}, specOf("h\n"), Options{})
		require.NoError(t, err)

		assert.Equal(t, "h\n1\n3\n", readFile(t, fs, "out.csv"))
		assert.Equal(t, 2, report.FilesCombined)
		require.Len(t, report.Skipped, 1)
		assert.Equal(t, "missing.csv", report.Skipped[0].Path)
	})

	t.Run("target among sources refused before writing", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFile(t, fs, "a.csv", "h\n1\n")

		_, err := Combine(fs, "a.csv", []string{"a.csv"}, specOf("h\n"), Options{})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrTargetIsSource)
		assert.True(t, IsConfigError(err))

		// The source must be untouched.
		assert.Equal(t, "h\n1\n", readFile(t, fs, "a.csv"))
	})

	t.Run("no sources is a config error, target not created", func(t *testing.T) {
		fs := afero.NewMemMapFs()

		_, err := Combine(fs, "out.csv", nil, header.Spec{}, Options{})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoSources)

		exists, statErr := afero.Exists(fs, "out.csv")
		require.NoError(t, statErr)
		assert.False(t, exists)
	})

	t.Run("source shorter than header has empty body", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFile(t, fs, "a.csv", "h1\nh2\n1\n")
		writeFile(t, fs, "short.csv", "h1\n")

		report, err := Combine(fs, "out.csv", []string{"a.csv", "short.csv"}, specOf("h1\n", "h2\n"), Options{})
		require.NoError(t, err)

		assert.Equal(t, "h1\nh2\n1\n", readFile(t, fs, "out.csv"))
		require.Len(t, report.Mismatches, 1)
		assert.Equal(t, "short.csv", report.Mismatches[0].Path)
		assert.Equal(t, 2, report.Mismatches[0].Line)
		assert.Equal(t, "", report.Mismatches[0].Actual)
	})

	t.Run("missing final newline preserved byte for byte", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFile(t, fs, "a.csv", "h\n1\n")
		writeFile(t, fs, "b.csv", "h\n2")

		report, err := Combine(fs, "out.csv", []string{"a.csv", "b.csv"}, specOf("h\n"), Options{})
		require.NoError(t, err)

		assert.Equal(t, "h\n1\n2", readFile(t, fs, "out.csv"))
		assert.Equal(t, 2, report.BodyLines)
	})

	t.Run("zero header lines concatenates everything", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFile(t, fs, "a.csv", "1\n")
		writeFile(t, fs, "b.csv", "2\n")

		report, err := Combine(fs, "out.csv", []string{"a.csv", "b.csv"}, header.Spec{}, Options{})
		require.NoError(t, err)

		assert.Equal(t, "1\n2\n", readFile(t, fs, "out.csv"))
		assert.Equal(t, 2, report.BodyLines)
		assert.Empty(t, report.Mismatches)
	})

	t.Run("overwriting is idempotent", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFile(t, fs, "a.csv", "h\n1\n")
		writeFile(t, fs, "b.csv", "h\n2\n")
		sources := []string{"a.csv", "b.csv"}

		_, err := Combine(fs, "out.csv", sources, specOf("h\n"), Options{})
		require.NoError(t, err)
		first := readFile(t, fs, "out.csv")

		_, err = Combine(fs, "out.csv", sources, specOf("h\n"), Options{})
		require.NoError(t, err)
		assert.Equal(t, first, readFile(t, fs, "out.csv"))
	})

	t.Run("unwritable target is fatal", func(t *testing.T) {
		base := afero.NewMemMapFs()
		writeFile(t, base, "a.csv", "h\n1\n")
		writeFile(t, base, "b.csv", "h\n2\n")
		fs := afero.NewReadOnlyFs(base)

		_, err := Combine(fs, "out.csv", []string{"a.csv", "b.csv"}, specOf("h\n"), Options{})
		require.Error(t, err)

		var twe *TargetWriteError
		require.True(t, errors.As(err, &twe))
		assert.Equal(t, "out.csv", twe.Path)
	})

	t.Run("read error mid-body keeps the copied lines and records them", func(t *testing.T) {
		base := afero.NewMemMapFs()
		writeFile(t, base, "a.csv", "h\nunused\n")
		writeFile(t, base, "b.csv", "h\n2\n")
		readErr := errors.New("read failed")
		fs := &truncatingFs{Fs: base, path: "a.csv", data: "h\n1\n", err: readErr}

		report, err := Combine(fs, "out.csv", []string{"a.csv", "b.csv"}, specOf("h\n"), Options{})
		require.NoError(t, err)

		// The line copied before the failure stays in the target.
		assert.Equal(t, "h\n1\n2\n", readFile(t, base, "out.csv"))
		assert.Equal(t, 2, report.BodyLines)
		assert.Equal(t, 1, report.FilesCombined)
		require.Len(t, report.Skipped, 1)
		skip := report.Skipped[0]
		assert.Equal(t, "a.csv", skip.Path)
		assert.ErrorIs(t, skip.Cause, readErr)
		assert.Equal(t, 1, skip.LinesWritten)
	})

	t.Run("progress callback sees every source in order", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFile(t, fs, "a.csv", "h\n1\n")
		writeFile(t, fs, "b.csv", "h\n2\n")

		var seen []string
		opts := Options{Progress: func(path string) { seen = append(seen, path) }}
		_, err := Combine(fs, "out.csv", []string{"a.csv", "b.csv"}, specOf("h\n"), opts)
		require.NoError(t, err)
		assert.Equal(t, []string{"a.csv", "b.csv"}, seen)
	})
}
