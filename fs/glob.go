package fs

import (
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fwojciec/datasage"
)

// Expand resolves paths and glob patterns (with ** for recursive matching)
// to a sorted, de-duplicated list of regular files. A literal path must
// exist; a pattern that matches nothing is an error.
func Expand(args ...string) ([]string, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no input files: %w", datasage.ErrInvalidInput)
	}
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, arg := range args {
		slashed := filepath.ToSlash(arg)
		if !hasMeta(slashed) {
			info, err := os.Stat(arg)
			if err != nil {
				return nil, fmt.Errorf("failed to access path: %w", err)
			}
			if info.IsDir() {
				return nil, fmt.Errorf("%s is a directory: %w", arg, datasage.ErrInvalidInput)
			}
			add(arg)
			continue
		}

		if !doublestar.ValidatePattern(slashed) {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", arg, datasage.ErrInvalidInput)
		}
		base, pattern := doublestar.SplitPattern(slashed)
		matched := 0
		err := doublestar.GlobWalk(os.DirFS(base), pattern, func(path string, d iofs.DirEntry) error {
			if d.IsDir() {
				return nil
			}
			matched++
			add(filepath.Join(filepath.FromSlash(base), filepath.FromSlash(path)))
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("error matching pattern %q: %w", arg, err)
		}
		if matched == 0 {
			return nil, fmt.Errorf("no files match %q: %w", arg, datasage.ErrInvalidInput)
		}
	}

	sort.Strings(out)
	return out, nil
}

func hasMeta(p string) bool {
	for _, c := range p {
		switch c {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}
