package security

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newGuard creates a guard over a fresh temp directory with symlinks
// pre-resolved, matching how the store constructs it.
func newGuard(t *testing.T) (*Path, string) {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	guard, err := NewPath(dir)
	require.NoError(t, err)
	return guard, dir
}

func TestResolve_ValidFilename(t *testing.T) {
	t.Parallel()

	guard, dir := newGuard(t)

	got, err := guard.Resolve("speech_abc123.wav")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "speech_abc123.wav"), got)
}

func TestResolve_ExistingFile(t *testing.T) {
	t.Parallel()

	guard, dir := newGuard(t)
	target := filepath.Join(dir, "clip.wav")
	require.NoError(t, os.WriteFile(target, []byte("RIFF"), 0o600))

	got, err := guard.Resolve("clip.wav")
	require.NoError(t, err)
	assert.Equal(t, target, got)
}

func TestResolve_Rejections(t *testing.T) {
	t.Parallel()

	guard, _ := newGuard(t)

	tests := []struct {
		name      string
		candidate string
	}{
		{"empty", ""},
		{"absolute", "/etc/passwd"},
		{"backslash absolute", `\windows\system32`},
		{"encoded slash lower", "%2fetc%2fpasswd"},
		{"encoded slash upper", "%2Fetc%2Fpasswd"},
		{"encoded backslash", "%5cboot.ini"},
		{"parent traversal", "../config.yaml"},
		{"deep traversal", "../../etc/passwd"},
		{"nested traversal", "a/../../escape.wav"},
		{"dot", "."},
		{"dotdot", ".."},
		{"null byte", "clip\x00.wav"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := guard.Resolve(tt.candidate)
			assert.ErrorIs(t, err, ErrUnsafePath)
			assert.Empty(t, got)
		})
	}
}

// Resolve must never return a path outside the base directory, for any
// candidate shape.
func TestResolve_NeverEscapes(t *testing.T) {
	t.Parallel()

	guard, dir := newGuard(t)

	candidates := []string{
		"ok.wav",
		"sub/dir/file.wav",
		"..%2f..%2fetc/passwd",
		"....//....//etc/passwd",
		"a/b/../c.wav",
	}

	for _, c := range candidates {
		got, err := guard.Resolve(c)
		if err != nil {
			continue
		}
		assert.True(t, strings.HasPrefix(got, dir+string(filepath.Separator)),
			"candidate %q resolved to %q outside %q", c, got, dir)
	}
}

func TestResolve_SymlinkEscape(t *testing.T) {
	t.Parallel()

	guard, dir := newGuard(t)

	// A symlink inside the directory pointing outside it must be rejected.
	outside := t.TempDir()
	secret := filepath.Join(outside, "secret.wav")
	require.NoError(t, os.WriteFile(secret, []byte("x"), 0o600))
	require.NoError(t, os.Symlink(secret, filepath.Join(dir, "sneaky.wav")))

	_, err := guard.Resolve("sneaky.wav")
	assert.ErrorIs(t, err, ErrUnsafePath)
}

func TestResolve_SymlinkInside(t *testing.T) {
	t.Parallel()

	guard, dir := newGuard(t)

	target := filepath.Join(dir, "real.wav")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o600))
	require.NoError(t, os.Symlink(target, filepath.Join(dir, "alias.wav")))

	got, err := guard.Resolve("alias.wav")
	require.NoError(t, err)
	assert.Equal(t, target, got)
}

func TestNewPath_MissingDirectory(t *testing.T) {
	t.Parallel()

	_, err := NewPath(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Error(t, err)
}
