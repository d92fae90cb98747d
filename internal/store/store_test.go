package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryKV(t *testing.T) {
	kv := NewMemoryKV()

	_, err := kv.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	buf := []byte(`{"a":1}`)
	require.NoError(t, kv.Set("k", buf))
	buf[0] = 'x'

	got, err := kv.Get("k")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(got), "stored value must not alias the caller's slice")
}

func TestFileKV_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	kv, err := NewFileKV(dir)
	require.NoError(t, err)

	_, err = kv.Get("weather-app-state")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, kv.Set("weather-app-state", []byte(`{"unit":"metric"}`)))
	require.NoError(t, kv.Set("weather-app-state", []byte(`{"unit":"imperial"}`)))

	got, err := kv.Get("weather-app-state")
	require.NoError(t, err)
	assert.Equal(t, `{"unit":"imperial"}`, string(got))

	_, err = os.Stat(filepath.Join(dir, "weather-app-state.json.tmp"))
	assert.True(t, os.IsNotExist(err), "temp file is renamed away")
}

func TestFileKV_RejectsPathKeys(t *testing.T) {
	kv, err := NewFileKV(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, kv.Set("../escape", []byte("x")))
	_, err = kv.Get("a/b")
	assert.Error(t, err)
}
