package compiler

import (
	"context"
	"os"

	"golang.org/x/sync/errgroup"
)

// CompileAll compiles every file in files concurrently, bounded by
// maxWorkers in-flight compilations at a time (§4.6 bulk compilation). A
// single file's error does not abort the others; CompileAll returns once
// every file has either produced an Object or failed outright (a read or
// parse-level error, not a recorded diagnostic).
func (c *Compiler) CompileAll(ctx context.Context, files []string, maxWorkers int) ([]*Object, error) {
	if maxWorkers <= 0 {
		maxWorkers = 4
	}

	objects := make([]*Object, len(files))
	var g errgroup.Group
	g.SetLimit(maxWorkers)

	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			content, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			obj, err := c.Compile(file, string(content))
			if err != nil {
				return err
			}
			objects[i] = obj
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return objects, err
	}
	return objects, nil
}
