package logging_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-storefront/logging"
)

func newBuffered() (*logging.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	l := logrus.New()
	l.SetOutput(buf)
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetLevel(logrus.DebugLevel)
	return logging.Wrap(l), buf
}

func TestLogger_KeyValueFields(t *testing.T) {
	logger, buf := newBuffered()

	logger.Error("email delivery failed", "to", "jane@example.com", "error", errors.New("boom"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "email delivery failed", entry["msg"])
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "jane@example.com", entry["to"])
	assert.Equal(t, "boom", entry["error"])
}

func TestLogger_OddArgs(t *testing.T) {
	logger, buf := newBuffered()

	logger.With("component", "flow").Info("dangling", "key")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "flow", entry["component"])
	assert.Equal(t, "key", entry["!BADKEY"])
}

func TestNew(t *testing.T) {
	_, err := logging.New(logging.Config{Level: "debug", Format: "json"})
	assert.NoError(t, err)

	_, err = logging.New(logging.Config{Level: "loud"})
	assert.Error(t, err)
}
