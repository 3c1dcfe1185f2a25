package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// RunBatch runs every path concurrently, at most Config.Workers at a time.
//
// With a single path, artifacts go directly into Config.OutputDir; otherwise
// each image gets its own subdirectory named after the file. One image's
// failure is recorded in its ImageResult and does not stop the others. Decoded
// images are evicted from the cache once their pipeline finishes.
//
// Results are returned in input order. The error is non-nil only when ctx was
// cancelled; unfinished images then carry the context error.
func (r *Runner) RunBatch(ctx context.Context, paths []string) ([]*ImageResult, error) {
	dirs := OutputDirs(r.cfg.OutputDir, paths)
	results := make([]*ImageResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, r.cfg.Workers))

	for i, path := range paths {
		results[i] = &ImageResult{Path: path, OutputDir: dirs[i]}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			res, err := r.Run(gctx, path, dirs[i])
			results[i] = res
			r.cache.Evict(path)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				r.log.Error().Str("image", path).Err(err).Msg("image failed")
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, fmt.Errorf("batch interrupted: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return results, fmt.Errorf("batch interrupted: %w", err)
	}
	return results, nil
}

// OutputDirs assigns an output directory to each path. A single image writes
// into root; several images get root/<name>, where name is the file name
// without extension, suffixed with -2, -3, ... on collisions.
func OutputDirs(root string, paths []string) []string {
	dirs := make([]string, len(paths))
	if len(paths) == 1 {
		dirs[0] = root
		return dirs
	}

	seen := make(map[string]int, len(paths))
	for i, p := range paths {
		base := filepath.Base(p)
		name := strings.TrimSuffix(base, filepath.Ext(base))
		seen[name]++
		if n := seen[name]; n > 1 {
			name = fmt.Sprintf("%s-%d", name, n)
		}
		dirs[i] = filepath.Join(root, name)
	}
	return dirs
}
