//go:build !unix && !windows

package storage

import "os"

// No advisory locking on this platform.
func lockFile(*os.File) error   { return nil }
func unlockFile(*os.File) error { return nil }
