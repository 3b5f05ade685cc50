package expand

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"
)

// Files expands every file in paths, at most jobs at a time. Results come
// back in the order of paths. Diagnostics live in the results; the error
// only reports files that could not be read.
func (e *Expander) Files(ctx context.Context, paths []string, jobs int) ([]*Result, error) {
	results := make([]*Result, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := e.File(path)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// File reads and expands one file.
func (e *Expander) File(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	e.log.Debugw("expanding file", "file", path, "bytes", len(data))
	return e.Source(path, string(data)), nil
}

// CollectSources expands directories in args into the files below them
// whose name ends in one of exts. Plain file arguments are kept as given.
// Hidden directories are skipped.
func CollectSources(args []string, exts []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, errors.Wrapf(err, "access %s", arg)
		}
		if !info.IsDir() {
			out = append(out, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != arg && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if slices.Contains(exts, filepath.Ext(path)) {
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "walk %s", arg)
		}
	}
	return out, nil
}

// OutputPath maps a source path to its location under outDir. Paths below
// the working directory keep their relative layout; others are flattened to
// their base name.
func OutputPath(outDir, src string) string {
	rel := filepath.Clean(src)
	if filepath.IsAbs(rel) {
		wd, err := os.Getwd()
		if err == nil {
			rel, err = filepath.Rel(wd, rel)
		}
		if err != nil {
			rel = filepath.Base(src)
		}
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		rel = filepath.Base(src)
	}
	return filepath.Join(outDir, rel)
}

// WriteOutput writes res under outDir, creating directories as needed.
func WriteOutput(outDir string, res *Result) (string, error) {
	dst := OutputPath(outDir, res.Filename)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", errors.Wrapf(err, "create %s", filepath.Dir(dst))
	}
	if err := os.WriteFile(dst, []byte(res.Output), 0o644); err != nil {
		return "", errors.Wrapf(err, "write %s", dst)
	}
	return dst, nil
}
