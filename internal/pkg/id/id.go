package id

import (
	"path"

	"github.com/oklog/ulid/v2"
)

// New returns a ULID string for actor ids. ulid.Make draws from a
// process-wide monotonic source, so ids minted in the same millisecond still sort.
func New() string {
	return ulid.Make().String()
}

// ObjectKey joins dir with a fresh ULID and ext, e.g. "avatars/users/01H.../01J....png".
func ObjectKey(dir, ext string) string {
	return path.Join(dir, New()+ext)
}
