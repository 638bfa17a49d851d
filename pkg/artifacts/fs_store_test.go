package artifacts_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"kokorotts/pkg/artifacts"

	"github.com/stretchr/testify/require"
)

func writeBytes(data []byte) artifacts.EncodeFunc {
	return func(w io.WriteSeeker) error {
		_, err := w.Write(data)
		return err
	}
}

func TestFSStoreRoundTrip(t *testing.T) {
	assert := require.New(t)

	store, err := artifacts.NewFSStore(filepath.Join(t.TempDir(), "nested", "temp"))
	assert.NoError(err)

	loc, size, err := store.Put(context.Background(), "tts_a.wav", writeBytes([]byte("RIFF....WAVE")))
	assert.NoError(err)
	assert.EqualValues(12, size)
	assert.Equal(filepath.Join(store.Root(), "tts_a.wav"), string(loc))

	rc, err := store.Open(context.Background(), loc)
	assert.NoError(err)

	data, err := io.ReadAll(rc)
	assert.NoError(err)
	assert.NoError(rc.Close())
	assert.Equal([]byte("RIFF....WAVE"), data)

	entries, err := os.ReadDir(store.Root())
	assert.NoError(err)
	assert.Len(entries, 1)

	assert.NoError(store.Delete(context.Background(), loc))
	assert.ErrorIs(store.Delete(context.Background(), loc), artifacts.ErrNotFound)

	_, err = store.Open(context.Background(), loc)
	assert.ErrorIs(err, artifacts.ErrNotFound)
}

func TestFSStoreEncodeFailureLeavesNothing(t *testing.T) {
	store, err := artifacts.NewFSStore(t.TempDir())
	require.NoError(t, err)

	_, _, err = store.Put(context.Background(), "tts_b.wav", func(w io.WriteSeeker) error {
		_, _ = w.Write([]byte("partial"))
		return errors.New("encoder exploded")
	})
	require.ErrorContains(t, err, "encoder exploded")

	entries, err := os.ReadDir(store.Root())
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestFSStoreRejectsForeignLocations(t *testing.T) {
	store, err := artifacts.NewFSStore(t.TempDir())
	require.NoError(t, err)

	outside := filepath.Join(t.TempDir(), "other.wav")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))

	_, err = store.Open(context.Background(), artifacts.Location(outside))
	require.ErrorIs(t, err, artifacts.ErrNotFound)

	require.ErrorIs(t, store.Delete(context.Background(), artifacts.Location(outside)), artifacts.ErrNotFound)

	_, err = os.Stat(outside)
	require.NoError(t, err)

	_, _, err = store.Put(context.Background(), "../escape.wav", writeBytes([]byte("x")))
	require.Error(t, err)

	_, _, err = store.Put(context.Background(), "", writeBytes([]byte("x")))
	require.Error(t, err)
}

func TestFSStoreCancelledContext(t *testing.T) {
	store, err := artifacts.NewFSStore(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err = store.Put(ctx, "tts_c.wav", writeBytes([]byte("x")))
	require.ErrorIs(t, err, context.Canceled)
}
