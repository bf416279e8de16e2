package artifact

import (
	"encoding/binary"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxd/voxd/internal/log"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "audio"), log.NewNop())
	require.NoError(t, err)
	return store
}

func TestSave_ReturnsBareFilename(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	name, err := store.Save([]byte{0x01, 0x02, 0x03, 0x04}, 24000)
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(name, Ext))
	assert.NotContains(t, name, string(filepath.Separator), "Save must not leak paths")

	// The file exists inside the store directory and nowhere else was touched.
	_, err = os.Stat(filepath.Join(store.Dir(), name))
	assert.NoError(t, err)
}

func TestSave_WritesValidWAV(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	pcm := []byte{0x10, 0x20, 0x30, 0x40, 0x50, 0x60}

	name, err := store.Save(pcm, 24000)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(store.Dir(), name))
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(data), wavHeaderSize)

	assert.Equal(t, "RIFF", string(data[0:4]))
	assert.Equal(t, "WAVE", string(data[8:12]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(data[20:22]), "PCM format")
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(data[22:24]), "mono")
	assert.Equal(t, uint32(24000), binary.LittleEndian.Uint32(data[24:28]))
	assert.Equal(t, uint32(len(pcm)), binary.LittleEndian.Uint32(data[40:44]))
	assert.Equal(t, pcm, data[wavHeaderSize:])
}

func TestSave_UniqueFilenames(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	seen := make(map[string]bool)
	for range 20 {
		name, err := store.Save([]byte{0, 0}, 24000)
		require.NoError(t, err)
		assert.False(t, seen[name], "duplicate filename %q", name)
		seen[name] = true
	}
}

func TestSave_NoTempLeftovers(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	_, err := store.Save([]byte{0, 0}, 24000)
	require.NoError(t, err)

	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), "incoming-"),
			"temporary file %q left behind", e.Name())
	}
}

func TestDelete_Idempotent(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	name, err := store.Save([]byte{0, 0}, 24000)
	require.NoError(t, err)

	deleted, err := store.Delete(name)
	require.NoError(t, err)
	assert.True(t, deleted)

	// Second delete of the same name is a benign not-found, never an error.
	deleted, err = store.Delete(name)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestDelete_AbsentFile(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	deleted, err := store.Delete("never-existed.wav")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestDelete_RejectsUnsafeNames(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	for _, name := range []string{"../escape.wav", "/etc/passwd", "%2Fetc%2Fpasswd", ""} {
		deleted, err := store.Delete(name)
		assert.ErrorIs(t, err, ErrUnsafeFilename, "name %q", name)
		assert.False(t, deleted)
	}
}

func TestDelete_DoesNotFollowSymlinkOutside(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	outside := filepath.Join(t.TempDir(), "precious.wav")
	require.NoError(t, os.WriteFile(outside, []byte("keep me"), 0o600))
	require.NoError(t, os.Symlink(outside, filepath.Join(store.Dir(), "trap.wav")))

	_, err := store.Delete("trap.wav")
	assert.ErrorIs(t, err, ErrUnsafeFilename)

	// The target outside the directory must still exist.
	_, err = os.Stat(outside)
	assert.NoError(t, err)
}

func TestDelete_Concurrent(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	name, err := store.Save([]byte{0, 0}, 24000)
	require.NoError(t, err)

	const workers = 8
	results := make([]bool, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			deleted, err := store.Delete(name)
			assert.NoError(t, err)
			results[i] = deleted
		}()
	}
	wg.Wait()

	// Exactly one goroutine observes the deletion.
	wins := 0
	for _, r := range results {
		if r {
			wins++
		}
	}
	assert.Equal(t, 1, wins)
}

func TestOpen_ServesSavedArtifact(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	pcm := []byte{1, 2, 3, 4}
	name, err := store.Save(pcm, 24000)
	require.NoError(t, err)

	f, err := store.Open(name)
	require.NoError(t, err)
	defer f.Close()

	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, pcm, data[wavHeaderSize:])
}

func TestOpen_MissingAndUnsafeLookAlike(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	// Absent file.
	_, err := store.Open("gone.wav")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	// Unsafe name.
	_, err = store.Open("../../etc/passwd")
	assert.ErrorIs(t, err, ErrUnsafeFilename)
}

func TestNewStore_CreatesDirectory(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "a", "b", "audio")
	store, err := NewStore(dir, log.NewNop())
	require.NoError(t, err)

	info, err := os.Stat(store.Dir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewStore_EmptyDir(t *testing.T) {
	t.Parallel()

	_, err := NewStore("", log.NewNop())
	assert.Error(t, err)
}
