package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestSetAndConsole(t *testing.T) {
	prev := *L()
	defer Set(prev)

	assert.Equal(t, zerolog.Disabled, zerolog.Nop().GetLevel())

	var buf bytes.Buffer
	Set(Console(&buf, zerolog.InfoLevel))
	L().Debug().Msg("hidden")
	L().Info().Int("chunks", 4).Msg("visible")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible")
	assert.Contains(t, out, "[INFO]")
	assert.Contains(t, out, "chunks")
}
