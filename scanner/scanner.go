package scanner

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

type FileInfo struct {
	Path string
	Size int64
}

// defaultSkipDirs are directory names never descended into.
var defaultSkipDirs = []string{".git", ".hg", ".svn", "node_modules"}

type Scanner struct {
	rootDir    string
	extensions map[string]bool
	skipDirs   map[string]bool
	skip       func(path string) bool
}

// New returns a scanner over rootDir that selects files with one of the
// given extensions. Without extensions every regular file is selected.
func New(rootDir string, extensions ...string) *Scanner {
	s := &Scanner{
		rootDir:    rootDir,
		extensions: make(map[string]bool, len(extensions)),
		skipDirs:   make(map[string]bool, len(defaultSkipDirs)),
	}
	for _, ext := range extensions {
		s.extensions[strings.ToLower(ext)] = true
	}
	for _, d := range defaultSkipDirs {
		s.skipDirs[d] = true
	}
	return s
}

// SkipPaths sets a predicate that excludes matching files and directories.
func (s *Scanner) SkipPaths(fn func(path string) bool) *Scanner {
	s.skip = fn
	return s
}

// Scan walks the root and returns the selected files sorted by path.
func (s *Scanner) Scan() ([]FileInfo, error) {
	var files []FileInfo

	err := filepath.WalkDir(s.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != s.rootDir && (s.skipDirs[d.Name()] || s.skipped(path)) {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() || !s.isTargetFile(path) || s.skipped(path) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, FileInfo{Path: path, Size: info.Size()})
		return nil
	})

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, err
}

func (s *Scanner) skipped(path string) bool {
	return s.skip != nil && s.skip(path)
}

func (s *Scanner) isTargetFile(path string) bool {
	if len(s.extensions) == 0 {
		return true
	}
	return s.extensions[strings.ToLower(filepath.Ext(path))]
}
