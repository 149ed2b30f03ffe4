// Package deploy mirrors generated template subtrees into their destination
// directories. The mapping table is validated up front: if any destination
// root is absent nothing at all is copied. Individual file failures during a
// real copy are collected and do not stop the rest of the walk.
package deploy

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Mapping pairs a subtree under the source root with an existing destination
// directory.
type Mapping struct {
	Source string
	Dest   string
}

// DependencyError reports destination roots that do not exist. It is raised
// before any file is touched.
type DependencyError struct {
	Missing []string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("deploy: destination directories do not exist: %s (create them and re-run)",
		strings.Join(e.Missing, ", "))
}

// CopyError records one file that failed to copy.
type CopyError struct {
	Path string
	Err  error
}

func (e CopyError) Error() string {
	return fmt.Sprintf("copy %s: %v", e.Path, e.Err)
}

// Result summarizes a copy run. Planned counts every file the walk saw;
// Copied counts the ones that landed. In dry-run mode Copied stays zero while
// Planned reports what a real run would copy.
type Result struct {
	Planned int
	Copied  int
	Errors  []CopyError
}

// Copier mirrors mapped subtrees. The zero value is not usable; construct
// with New.
type Copier struct {
	logf func(format string, args ...any)
}

// Option customizes a Copier.
type Option func(*Copier)

// WithLogFunc routes planned/copied notices somewhere other than stdout.
func WithLogFunc(logf func(format string, args ...any)) Option {
	return func(c *Copier) {
		if logf != nil {
			c.logf = logf
		}
	}
}

// New builds a Copier.
func New(opts ...Option) *Copier {
	c := &Copier{
		logf: func(format string, args ...any) {
			fmt.Printf(format+"\n", args...)
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Copy mirrors each mapping's subtree of sourceRoot into its destination.
// All destination roots are checked before anything is copied; a missing one
// aborts with DependencyError and zero mutations. Mappings whose source
// subtree was never generated are skipped with a notice. In dry-run mode the
// walk happens but no filesystem mutation does.
func (c *Copier) Copy(sourceRoot string, mappings []Mapping, dryRun bool) (Result, error) {
	var absent []string
	for _, m := range mappings {
		info, err := os.Stat(m.Dest)
		if err != nil || !info.IsDir() {
			absent = append(absent, m.Dest)
		}
	}
	if len(absent) > 0 {
		return Result{}, &DependencyError{Missing: absent}
	}

	var result Result
	for _, m := range mappings {
		src := filepath.Join(sourceRoot, m.Source)
		if _, err := os.Stat(src); err != nil {
			c.logf("nothing generated under %s, skipping", m.Source)
			continue
		}
		if err := c.copyTree(src, m.Dest, dryRun, &result); err != nil {
			return result, err
		}
	}
	return result, nil
}

func (c *Copier) copyTree(src, dest string, dryRun bool, result *Result) error {
	return filepath.WalkDir(src, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)
		if entry.IsDir() {
			if dryRun || rel == "." {
				return nil
			}
			if err := os.MkdirAll(target, 0o755); err != nil {
				result.Errors = append(result.Errors, CopyError{Path: target, Err: err})
				return fs.SkipDir
			}
			return nil
		}
		result.Planned++
		if dryRun {
			c.logf("would copy %s -> %s", path, target)
			return nil
		}
		if err := copyFile(path, target); err != nil {
			result.Errors = append(result.Errors, CopyError{Path: path, Err: err})
			return nil
		}
		result.Copied++
		c.logf("copied %s -> %s", path, target)
		return nil
	})
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
