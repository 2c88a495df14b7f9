// Package library implements the read-only filesystem operations exposed by
// the gateway: listing a directory, recursively scanning a tree for files,
// checking for existence, and reading subtitle files.
//
// None of the operations hold state between calls.
package library

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/hbomb79/mediagate/internal/fault"
	"github.com/hbomb79/mediagate/pkg/logger"
)

var (
	log = logger.Get("Library")

	errInvalidUTF8 = errors.New("stream did not contain valid UTF-8")
)

const (
	msgDirectoryMissing = "Directory does not exist"
	msgReadDirFailed    = "Failed to read directory"
	msgReadSubFailed    = "Failed to read subtitle file"
)

type (
	// DirectoryEntry is a single child of a directory, as reported to the
	// presentation layer. IsVideo is never true for a directory.
	DirectoryEntry struct {
		Name    string `json:"name"`
		Path    string `json:"path"`
		IsDir   bool   `json:"is_dir"`
		IsVideo bool   `json:"is_video"`
	}

	// Subtitle is a subtitle file found alongside a video.
	Subtitle struct {
		Path    string `json:"path"`
		Format  string `json:"format"`
		Content string `json:"content"`
	}

	Library struct {
		listing   ExtensionSet
		scan      ExtensionSet
		subtitles ExtensionSet
	}
)

func New(config Config) *Library {
	return &Library{
		listing:   NewExtensionSet(config.ListingExtensions...),
		scan:      NewExtensionSet(config.ScanExtensions...),
		subtitles: NewExtensionSet(config.SubtitleExtensions...),
	}
}

// ListDirectory returns the direct children of the directory at path. Directories
// are ordered before files, and each group is ordered by name ignoring case.
//
// Entries which cannot be read are silently omitted.
func (lib *Library) ListDirectory(path string) ([]DirectoryEntry, error) {
	if !isDirPath(path) {
		return nil, fault.New(fault.NotFound, msgDirectoryMissing)
	}

	children, err := enumerate(path, Silent)
	if err != nil {
		return nil, fault.Wrap(fault.DirectoryReadFailed, msgReadDirFailed, err)
	}

	entries := make([]DirectoryEntry, 0, len(children))
	for _, c := range children {
		entries = append(entries, DirectoryEntry{
			Name:    c.name,
			Path:    c.path,
			IsDir:   c.isDir,
			IsVideo: !c.isDir && lib.listing.Matches(c.name),
		})
	}

	slices.SortStableFunc(entries, func(a, b DirectoryEntry) int {
		if a.IsDir != b.IsDir {
			if a.IsDir {
				return -1
			}
			return 1
		}

		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})

	return entries, nil
}

// ScanRecursive walks the tree rooted at path and returns every file found
// (directories themselves are never included), ordered by full path ignoring case.
//
// A subdirectory which cannot be read is logged and skipped; only a failure to
// read the root directory is returned as an error.
func (lib *Library) ScanRecursive(path string) ([]DirectoryEntry, error) {
	if !isDirPath(path) {
		return nil, fault.New(fault.NotFound, msgDirectoryMissing)
	}

	entries := make([]DirectoryEntry, 0)
	visited := map[string]struct{}{canonicalPath(path): {}}
	if err := lib.scanDirectory(path, &entries, visited); err != nil {
		return nil, err
	}

	slices.SortStableFunc(entries, func(a, b DirectoryEntry) int {
		return strings.Compare(strings.ToLower(a.Path), strings.ToLower(b.Path))
	})

	return entries, nil
}

func (lib *Library) scanDirectory(dir string, entries *[]DirectoryEntry, visited map[string]struct{}) error {
	children, err := enumerate(dir, LogAndContinue)
	if err != nil {
		return fault.Wrap(fault.DirectoryReadFailed, msgReadDirFailed, err)
	}

	for _, c := range children {
		if !c.isDir {
			*entries = append(*entries, DirectoryEntry{
				Name:    c.name,
				Path:    c.path,
				IsDir:   false,
				IsVideo: lib.scan.Matches(c.name),
			})
			continue
		}

		canonical := canonicalPath(c.path)
		if _, seen := visited[canonical]; seen {
			log.Emit(logger.DEBUG, "Skipping directory %s as it has already been scanned (%s)\n", c.path, canonical)
			continue
		}
		visited[canonical] = struct{}{}

		if err := lib.scanDirectory(c.path, entries, visited); err != nil {
			log.Emit(logger.WARNING, "Failed to scan directory %s: %s\n", c.path, err)
		}
	}

	return nil
}

// FindSubtitle looks for a subtitle file sharing the video's path (minus its
// extension), trying each configured subtitle extension in order. The first
// candidate which exists and can be read is returned; nil is returned if there is none.
func (lib *Library) FindSubtitle(videoPath string) *Subtitle {
	base := strings.TrimSuffix(videoPath, filepath.Ext(videoPath))
	for _, ext := range lib.subtitles.Extensions() {
		candidate := base + "." + ext
		if !Exists(candidate) {
			continue
		}

		content, err := ReadText(candidate)
		if err != nil {
			log.Emit(logger.DEBUG, "Subtitle candidate %s could not be read: %s\n", candidate, err)
			continue
		}

		return &Subtitle{Path: candidate, Format: ext, Content: content}
	}

	return nil
}

// Exists reports whether anything exists at the path provided. Any failure
// to stat the path is treated as non-existence.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ReadText reads the entire file at path, which must be valid UTF-8.
func ReadText(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fault.Wrap(fault.IoError, msgReadSubFailed, err)
	}
	if !utf8.Valid(content) {
		return "", fault.Wrap(fault.IoError, msgReadSubFailed, errInvalidUTF8)
	}

	return string(content), nil
}
