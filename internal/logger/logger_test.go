package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithOptions_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOptions(Options{Environment: "production", Level: "debug", Output: &buf})

	log.Component("dataset.loader").WithField("rows", 12).Debug("loaded")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "dataset.loader", entry["component"])
	assert.Equal(t, float64(12), entry["rows"])
	assert.Equal(t, "loaded", entry["msg"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, parseLevel("debug"))
	assert.Equal(t, logrus.WarnLevel, parseLevel("warn"))
	assert.Equal(t, logrus.ErrorLevel, parseLevel("error"))
	assert.Equal(t, logrus.InfoLevel, parseLevel(""))
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOptions(Options{Environment: "ci", Output: &buf})

	log.WithError(errors.New("boom")).Error("failed")
	assert.Contains(t, buf.String(), `"error":"boom"`)

	assert.Equal(t, log.Entry, log.WithError(nil))
}

func TestRequestID(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/trend", nil)
	assert.Len(t, RequestID(r), 36)

	r.Header.Set("X-Request-ID", "abc-123")
	assert.Equal(t, "abc-123", RequestID(r))
}
