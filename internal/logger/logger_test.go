package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := NewWithWriter(&buf)
	log.Info().Str("component", "resolver").Msg("tier advanced")

	out := buf.String()
	assert.Contains(t, out, `"component":"resolver"`)
	assert.Contains(t, out, "tier advanced")
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := WithContext(context.Background(), NewWithWriter(&buf))
	log := FromContext(ctx)
	log.Info().Msg("stored")

	require.Contains(t, buf.String(), "stored")
}
