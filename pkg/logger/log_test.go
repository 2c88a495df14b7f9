package logger_test

import (
	"bytes"
	"testing"

	"github.com/hbomb79/mediagate/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	buf := &bytes.Buffer{}
	logger.SetOutput(buf)
	t.Cleanup(func() {
		logger.SetOutput(nil)
		logger.SetMinLoggingLevel(logger.INFO.Level())
	})

	return buf
}

func Test_EmitRespectsMinimumLevel(t *testing.T) {
	buf := captureOutput(t)
	logger.SetMinLoggingLevel(logger.WARNING.Level())

	log := logger.Get("Test")
	log.Emit(logger.INFO, "hidden %d\n", 1)
	log.Emit(logger.WARNING, "shown %d\n", 2)

	assert.NotContains(t, buf.String(), "hidden 1")
	assert.Contains(t, buf.String(), "shown 2")
	assert.Contains(t, buf.String(), "[Test]")
}

func Test_ParseLevel(t *testing.T) {
	lvl, err := logger.ParseLevel("warning")
	require.NoError(t, err)
	assert.Equal(t, logger.WARNING, lvl)

	lvl, err = logger.ParseLevel(" Verbose ")
	require.NoError(t, err)
	assert.Equal(t, logger.VERBOSE, lvl)

	_, err = logger.ParseLevel("loud")
	assert.Error(t, err)
}
