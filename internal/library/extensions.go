package library

import (
	"path/filepath"
	"strings"
)

// ExtensionSet is an ordered, case-insensitive set of file extensions. Extensions
// are stored without their leading dot.
type ExtensionSet struct {
	ordered []string
	lookup  map[string]struct{}
}

// NewExtensionSet builds a set from the extensions provided. Leading dots
// and surrounding whitespace are ignored, and duplicates are dropped while
// preserving the order of first appearance.
func NewExtensionSet(extensions ...string) ExtensionSet {
	set := ExtensionSet{
		ordered: make([]string, 0, len(extensions)),
		lookup:  make(map[string]struct{}, len(extensions)),
	}

	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext == "" {
			continue
		}
		if _, ok := set.lookup[ext]; ok {
			continue
		}

		set.lookup[ext] = struct{}{}
		set.ordered = append(set.ordered, ext)
	}

	return set
}

// Contains reports whether the extension provided (with or without a leading dot) is
// a member of this set.
func (set ExtensionSet) Contains(ext string) bool {
	_, ok := set.lookup[strings.ToLower(strings.TrimPrefix(ext, "."))]
	return ok
}

// Matches reports whether the file name provided has an extension in this set. A
// name consisting only of a dot-prefixed word (e.g. ".mp4") has no extension.
func (set ExtensionSet) Matches(name string) bool {
	ext := extensionOf(name)
	return ext != "" && set.Contains(ext)
}

// Extensions returns the members of the set in their configured order.
func (set ExtensionSet) Extensions() []string {
	out := make([]string, len(set.ordered))
	copy(out, set.ordered)
	return out
}

func extensionOf(name string) string {
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	if ext == base {
		return ""
	}

	return strings.TrimPrefix(ext, ".")
}
