// Package artifact manages transient synthesized-audio files.
//
// An artifact is a single WAV file in a fixed directory. Filenames are
// generated server-side (UUID + ".wav") and are never client-chosen;
// the only client influence on the filesystem passes through the
// security.Path guard. Saves are atomic (temp file + rename) so a
// failed synthesis never leaves a partial artifact behind.
//
// Thread safety: Save and Delete are safe for concurrent use. There is
// no shared index beyond the filesystem itself; a file vanishing
// between operations is reported as not-found, never as a fault.
//
// Lifecycle: artifacts live until the client deletes them. No expiry
// reaper is implemented.
package artifact
