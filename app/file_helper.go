package app

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/ludo-technologies/complexitylens/domain"
	"github.com/ludo-technologies/complexitylens/internal/constants"
)

// FileHelper provides file operation utilities
type FileHelper struct {
	respectGitignore bool
}

var _ domain.JSFileReader = (*FileHelper)(nil)

// NewFileHelper creates a new FileHelper
func NewFileHelper() *FileHelper {
	return &FileHelper{}
}

// NewFileHelperWithGitignore creates a FileHelper that skips files ignored by
// .gitignore files found under the collected directories
func NewFileHelperWithGitignore(respect bool) *FileHelper {
	return &FileHelper{respectGitignore: respect}
}

// gitignoreMatcher is a compiled .gitignore and the directory it applies to
type gitignoreMatcher struct {
	dir string
	gi  *ignore.GitIgnore
}

// ignoreSet holds the .gitignore files seen during one walk
type ignoreSet struct {
	matchers []gitignoreMatcher
}

// load compiles dir/.gitignore if present
func (s *ignoreSet) load(dir string) {
	path := filepath.Join(dir, ".gitignore")
	if _, err := os.Stat(path); err != nil {
		return
	}
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return
	}
	s.matchers = append(s.matchers, gitignoreMatcher{dir: dir, gi: gi})
}

// ignored reports whether any loaded .gitignore above path ignores it
func (s *ignoreSet) ignored(path string, isDir bool) bool {
	for _, m := range s.matchers {
		rel, err := filepath.Rel(m.dir, path)
		if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
			continue
		}
		rel = filepath.ToSlash(rel)
		if m.gi.MatchesPath(rel) {
			return true
		}
		if isDir && m.gi.MatchesPath(rel+"/") {
			return true
		}
	}
	return false
}

// CollectJSFiles collects JavaScript/TypeScript files from paths. Results
// keep the order of paths; files found in a directory are sorted.
func (h *FileHelper) CollectJSFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	var files []string

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			if h.isJSFile(path) && !h.isExcluded(path, excludePatterns) {
				files = append(files, path)
			}
			continue
		}

		dirFiles, err := h.collectDir(path, recursive, includePatterns, excludePatterns)
		if err != nil {
			return nil, err
		}
		files = append(files, dirFiles...)
	}

	return files, nil
}

// collectDir collects the files of one directory
func (h *FileHelper) collectDir(root string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	var files []string
	ignores := &ignoreSet{}

	accept := func(filePath string) bool {
		return h.isJSFile(filePath) &&
			h.isIncluded(filePath, includePatterns) &&
			!h.isExcluded(filePath, excludePatterns) &&
			!(h.respectGitignore && ignores.ignored(filePath, false))
	}

	if !recursive {
		if h.respectGitignore {
			ignores.load(root)
		}
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			filePath := filepath.Join(root, entry.Name())
			if accept(filePath) {
				files = append(files, filePath)
			}
		}
		return files, nil
	}

	err := filepath.Walk(root, func(filePath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if filePath != root {
				dirName := filepath.Base(filePath)
				for _, pattern := range excludePatterns {
					if pattern == dirName {
						return filepath.SkipDir
					}
					if matched, _ := filepath.Match(pattern, dirName); matched {
						return filepath.SkipDir
					}
				}
				if h.respectGitignore && ignores.ignored(filePath, true) {
					return filepath.SkipDir
				}
			}
			if h.respectGitignore {
				ignores.load(filePath)
			}
			return nil
		}

		if accept(filePath) {
			files = append(files, filePath)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// IsValidJSFile checks if a file is a valid JavaScript/TypeScript file
func (h *FileHelper) IsValidJSFile(path string) bool {
	return h.isJSFile(path)
}

// FileExists checks if a file exists
func (h *FileHelper) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// ReadFile reads file content
func (h *FileHelper) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// isJSFile checks if a file is JavaScript/TypeScript based on extension
func (h *FileHelper) isJSFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, supported := range constants.SupportedExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}

// isIncluded checks a file against include patterns. Patterns match the base
// name; a leading "**/" matches any directory. No patterns includes everything.
func (h *FileHelper) isIncluded(path string, includePatterns []string) bool {
	if len(includePatterns) == 0 {
		return true
	}
	base := filepath.Base(path)
	for _, pattern := range includePatterns {
		pattern = strings.TrimPrefix(pattern, "**/")
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, filepath.ToSlash(path)); matched {
			return true
		}
	}
	return false
}

// isExcluded checks if a path matches any exclude pattern
func (h *FileHelper) isExcluded(path string, excludePatterns []string) bool {
	for _, pattern := range excludePatterns {
		if matched, _ := filepath.Match(pattern, filepath.Base(path)); matched {
			return true
		}
		// Directory names match as path components
		for _, part := range strings.Split(filepath.ToSlash(path), "/") {
			if part == pattern {
				return true
			}
		}
	}
	return false
}

// ResolveFilePaths resolves file paths, returning existing files directly
// or collecting files from directories
func ResolveFilePaths(
	fileHelper *FileHelper,
	paths []string,
	recursive bool,
	includePatterns []string,
	excludePatterns []string,
) ([]string, error) {
	allFiles := true
	for _, path := range paths {
		exists, err := fileHelper.FileExists(path)
		if err != nil || !exists {
			allFiles = false
			break
		}
	}

	// Explicitly named files are analysed even when they match an exclude pattern
	if allFiles {
		return paths, nil
	}

	return fileHelper.CollectJSFiles(paths, recursive, includePatterns, excludePatterns)
}
