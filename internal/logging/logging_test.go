package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOffIsNop(t *testing.T) {
	l, err := New(LevelOff)
	require.NoError(t, err)
	require.NotNil(t, l)
}

func TestNewDefaultsToInfoOnEmptyLevel(t *testing.T) {
	l, err := New("")
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("VERBOSE")
	require.Error(t, err)
}

func TestNewAcceptsAllDocumentedLevels(t *testing.T) {
	for _, lvl := range []string{LevelOff, LevelError, LevelWarn, LevelInfo, LevelDebug, LevelTrace} {
		_, err := New(lvl)
		require.NoError(t, err, lvl)
	}
}
