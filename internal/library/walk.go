package library

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/hbomb79/mediagate/pkg/logger"
)

// ErrorPolicy decides what happens when an individual entry of a directory
// cannot be read while it is being enumerated.
type ErrorPolicy int

const (
	// Silent drops unreadable entries without reporting them.
	Silent ErrorPolicy = iota

	// LogAndContinue emits a warning for unreadable entries and carries on.
	LogAndContinue
)

const readBatchSize = 256

// openDirectory opens a directory for enumeration. Tests replace it to
// simulate directories which cannot be read.
var openDirectory = os.Open

type child struct {
	name  string
	path  string
	isDir bool
}

// enumerate reads the direct children of the directory at dir. An error is
// returned only if the directory cannot be opened or read at all; failures
// part way through enumeration are handled according to the policy and the
// children read so far are returned.
func enumerate(dir string, policy ErrorPolicy) ([]child, error) {
	f, err := openDirectory(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	children := make([]child, 0)
	for read := 0; ; read++ {
		batch, err := f.ReadDir(readBatchSize)
		for _, d := range batch {
			path := filepath.Join(dir, d.Name())
			children = append(children, child{
				name:  d.Name(),
				path:  path,
				isDir: isDirEntry(path, d),
			})
		}

		if err == nil {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if read == 0 && len(batch) == 0 {
			// Nothing could be read at all; that is a failure of the directory itself.
			return nil, err
		}

		if policy == LogAndContinue {
			log.Emit(logger.WARNING, "Failed to read directory entry in %s: %s\n", dir, err)
		}
		break
	}

	return children, nil
}

// isDirEntry reports whether the entry is a directory, following symlinks. A
// symlink whose target cannot be resolved is not a directory.
func isDirEntry(path string, d os.DirEntry) bool {
	if d.Type()&os.ModeSymlink == 0 {
		return d.IsDir()
	}

	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isDirPath(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// canonicalPath resolves symlinks so that a directory reachable through more
// than one path is only visited once by the recursive scan.
func canonicalPath(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}

	return filepath.Clean(path)
}
