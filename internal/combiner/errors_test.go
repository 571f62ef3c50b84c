package combiner

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigError(t *testing.T) {
	err := NewConfigError(ErrTooFewSources, "got 1")

	assert.ErrorIs(t, err, ErrTooFewSources)
	assert.True(t, IsConfigError(err))
	assert.Equal(t, "need at least two source files to detect the header: got 1", err.Error())
}

func TestTargetWriteError(t *testing.T) {
	cause := errors.New("disk full")
	err := &TargetWriteError{Path: "out.csv", Cause: cause}

	assert.ErrorIs(t, err, cause)
	assert.False(t, IsConfigError(err))
	assert.Equal(t, "writing out.csv: disk full", err.Error())
}
