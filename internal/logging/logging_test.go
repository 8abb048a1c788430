package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParsesLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, New("debug", "text").GetLevel())
	assert.Equal(t, logrus.InfoLevel, New("nonsense", "text").GetLevel())
}

func TestNewJSONFormat(t *testing.T) {
	log := New("info", "JSON")
	var buf bytes.Buffer
	log.SetOutput(&buf)
	log.WithField("system_id", "engines").Info("broken")
	require.Contains(t, buf.String(), `"system_id":"engines"`)
	require.Contains(t, buf.String(), `"msg":"broken"`)
}

func TestDiscard(t *testing.T) {
	log := Discard()
	log.Error("dropped")
}
