package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := NewSnapshotStore(t.TempDir())

	in := payload{Name: "aapl", Count: 3}
	require.NoError(t, s.Save("paper-u1", in))

	var out payload
	require.NoError(t, s.Load("paper-u1", &out))
	assert.Equal(t, in, out)
}

func TestLoadMissingKey(t *testing.T) {
	s := NewSnapshotStore(t.TempDir())

	var out payload
	err := s.Load("absent", &out)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	s := NewSnapshotStore(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0o644))

	var out payload
	err := s.Load("bad", &out)
	assert.ErrorIs(t, err, ErrNotFound, "damaged data must read as not found")
}

func TestSaveOverwrites(t *testing.T) {
	s := NewSnapshotStore(t.TempDir())

	require.NoError(t, s.Save("k", payload{Name: "first"}))
	require.NoError(t, s.Save("k", payload{Name: "second"}))

	var out payload
	require.NoError(t, s.Load("k", &out))
	assert.Equal(t, "second", out.Name)
}

func TestDelete(t *testing.T) {
	s := NewSnapshotStore(t.TempDir())

	require.NoError(t, s.Save("k", payload{Name: "x"}))
	require.NoError(t, s.Delete("k"))

	var out payload
	assert.ErrorIs(t, s.Load("k", &out), ErrNotFound)
	require.NoError(t, s.Delete("k"), "deleting a missing key is a no-op")
}

func TestInvalidKeyRejected(t *testing.T) {
	s := NewSnapshotStore(t.TempDir())

	assert.Error(t, s.Save("../escape", payload{}))
	assert.Error(t, s.Save("", payload{}))
	var out payload
	assert.Error(t, s.Load("a/b", &out))
}

func TestDisabledStore(t *testing.T) {
	s := NewSnapshotStore("")

	assert.False(t, s.Enabled())
	require.NoError(t, s.Save("k", payload{Name: "x"}))
	var out payload
	assert.ErrorIs(t, s.Load("k", &out), ErrNotFound)
	require.NoError(t, s.Delete("k"))
}
