package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/dc311rn/api/pkg/common/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContextTagsRequestID(t *testing.T) {
	var buf bytes.Buffer
	Log = newLogger(&buf, "debug")

	ctx := requestid.With(context.Background(), "req-1")
	FromContext(ctx).Info("hello")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, "hello", line["msg"])
}

func TestFromContextWithoutRequestID(t *testing.T) {
	var buf bytes.Buffer
	Log = newLogger(&buf, "info")

	FromContext(context.Background()).Info("plain")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	_, ok := line["request_id"]
	assert.False(t, ok)
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	l := newLogger(&bytes.Buffer{}, "loud")
	assert.Equal(t, "info", l.GetLevel().String())
}
