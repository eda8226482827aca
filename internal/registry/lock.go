package registry

import (
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"github.com/conn-castle/depgate/internal/messages"
)

// hiveLock is the exclusive advisory lock guarding one hive document.
type hiveLock struct {
	file *os.File
}

var (
	lockFileFn   = lockFile
	unlockFileFn = unlockFile
	flockFn      = unix.Flock
	lockSleep    = time.Sleep
)

var (
	lockWaitTimeout = 30 * time.Second
	lockPollEvery   = 100 * time.Millisecond
)

// lockPath is the sidecar file writers of the hive at path lock. The document
// itself is replaced by rename, so it cannot carry the lock.
func lockPath(path string) string {
	return path + ".lock"
}

// withHiveLock runs fn while holding the writer lock of the hive at path.
// Readers do not lock.
func withHiveLock(path string, fn func() error) error {
	lock, err := lockHive(lockPath(path))
	if err != nil {
		return err
	}
	defer func() {
		_ = lock.unlock()
	}()
	return fn()
}

func lockHive(path string) (*hiveLock, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, filePerm)
	if err != nil {
		return nil, fmt.Errorf(messages.RegistryOpenLockFmt, path, err)
	}
	if err := lockFileFn(file); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf(messages.RegistryLockFmt, path, err)
	}
	return &hiveLock{file: file}, nil
}

// unlock always closes the lock file, even when unlocking fails.
func (l *hiveLock) unlock() error {
	if l == nil || l.file == nil {
		return nil
	}
	return errors.Join(unlockFileFn(l.file), l.file.Close())
}

// lockFile polls a non-blocking flock until it succeeds, fails for a reason
// other than contention, or lockWaitTimeout passes.
func lockFile(file *os.File) error {
	deadline := time.Now().Add(lockWaitTimeout)
	for {
		err := flockFn(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		switch {
		case err == nil:
			return nil
		case !errors.Is(err, unix.EWOULDBLOCK) && !errors.Is(err, unix.EAGAIN):
			return err
		case time.Now().After(deadline):
			return fmt.Errorf(messages.RegistryLockTimeoutFmt, lockWaitTimeout)
		}
		lockSleep(lockPollEvery)
	}
}

func unlockFile(file *os.File) error {
	return flockFn(int(file.Fd()), unix.LOCK_UN)
}
