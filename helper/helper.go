package helper

import "errors"

// ErrLocked means another pass holds the lock.
var ErrLocked = errors.New("another instance is running")

// LockPath returns the lock file guarding the stored IP at path.
func LockPath(path string) string {
	return path + ".lock"
}
