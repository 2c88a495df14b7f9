package fault_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/hbomb79/mediagate/internal/fault"
	"github.com/stretchr/testify/assert"
)

func Test_WrapFormatsMessageAndKeepsCause(t *testing.T) {
	cause := errors.New("permission denied")
	err := fault.Wrap(fault.IoError, "Failed to read subtitle file", cause)

	assert.Equal(t, "Failed to read subtitle file: permission denied", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, fault.IoError, err.Kind)
}

func Test_KindOfSeesThroughWrapping(t *testing.T) {
	inner := fault.New(fault.NoVideoStream, "No video stream found")
	outer := fmt.Errorf("while probing: %w", inner)

	assert.Equal(t, fault.NoVideoStream, fault.KindOf(outer))
	assert.True(t, fault.Is(outer, fault.NoVideoStream))
	assert.False(t, fault.Is(nil, fault.NoVideoStream))
	assert.Equal(t, fault.Unknown, fault.KindOf(errors.New("plain")))
}

func Test_KindText(t *testing.T) {
	txt, err := fault.EncodeFailed.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "EncodeFailed", string(txt))
	assert.Equal(t, "Unknown", fault.Kind(99).String())
}
