package registry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/conn-castle/depgate/internal/messages"
)

// System abstracts the filesystem operations the registry needs so tests can
// inject faults without touching permissions.
type System interface {
	ReadFile(name string) ([]byte, error)
	MkdirAll(path string, perm os.FileMode) error
	WriteFileAtomic(filename string, data []byte, perm os.FileMode) error
}

// RealSystem implements System using the OS filesystem.
type RealSystem struct{}

// ReadFile reads the named file and returns the contents.
func (RealSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// MkdirAll creates a directory named path, along with any necessary parents.
func (RealSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// WriteFileAtomic writes data to a temp file in the target directory and renames it into place.
func (RealSystem) WriteFileAtomic(filename string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(filename), "."+filepath.Base(filename)+".*")
	if err != nil {
		return fmt.Errorf(messages.RegistryCreateTempFmt, err)
	}
	tmpName := tmp.Name()
	keep := false
	defer func() {
		if !keep {
			_ = os.Remove(tmpName)
		}
	}()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf(messages.RegistryWriteTempFmt, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf(messages.RegistrySyncTempFmt, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf(messages.RegistryCloseTempFmt, err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf(messages.RegistryChmodTempFmt, err)
	}
	if err := os.Rename(tmpName, filename); err != nil {
		return fmt.Errorf(messages.RegistryRenameTempFmt, err)
	}
	keep = true
	return nil
}
