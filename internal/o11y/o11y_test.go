package o11y

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_WithoutExporter(t *testing.T) {
	var buf bytes.Buffer
	obs, cleanup, err := Setup(context.Background(), Options{
		ServiceName: "campusride-test",
		Level:       slog.LevelWarn,
		Output:      &buf,
	})
	require.NoError(t, err)
	defer cleanup()

	obs.Logger.Info("dropped")
	obs.Logger.Warn("kept", "scooterId", "A")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kept", line["msg"])
	assert.Equal(t, "campusride-test", line["service"])
	assert.Equal(t, "A", line["scooterId"])

	_, span := obs.Tracer.Tracer("test").Start(context.Background(), "op")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	assert.NotNil(t, obs.Registry)
}
