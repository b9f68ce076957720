package logger

import (
	"bytes"
	"testing"

	"codeberg.org/mutker/hwstat/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestInitWithWriterLevels(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "info", true)
	defer SetLogLevel(WarnLevel)

	Debug().Msg("hidden")
	Info().Str("chip", "coretemp-isa-0000").Msg("visible")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible")
	assert.Contains(t, out, "coretemp-isa-0000")
}

func TestErrorWithCode(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "debug", true)
	defer SetLogLevel(WarnLevel)

	Default().ErrorWithCode(errors.New().New(errors.ErrDuplicateKey)).Msg("parse failed")

	assert.Contains(t, buf.String(), "duplicate_key")
	assert.Contains(t, buf.String(), "parse failed")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, ParseLevel("debug"))
	assert.Equal(t, InfoLevel, ParseLevel("INFO"))
	assert.Equal(t, WarnLevel, ParseLevel("warning"))
	assert.Equal(t, ErrorLevel, ParseLevel("error"))
	assert.Equal(t, WarnLevel, ParseLevel("bogus"))
}
