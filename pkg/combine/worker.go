// File: pkg/combine/worker.go
package combine

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// transformOutcome is the result for the candidate at the same index.
type transformOutcome struct {
	block Block
	err   error
}

// TransformAll transforms candidates with at most maxWorkers files in flight.
// Outcomes are stored by candidate index, so the returned blocks keep the
// traversal order no matter which worker finishes first. Per-file failures do
// not stop the others; they are returned in skipped, in order.
func TransformAll(ctx context.Context, t *Transformer, candidates []Candidate, maxWorkers int, logger *zap.Logger) (blocks []Block, skipped []error, err error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxWorkers <= 0 {
		maxWorkers = 1
	}

	outcomes := make([]transformOutcome, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)
	logger.Debug("Initializing worker pool", zap.Int("workers", maxWorkers), zap.Int("files", len(candidates)))

	for i, c := range candidates {
		i, c := i, c
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			block, err := t.Transform(c)
			outcomes[i] = transformOutcome{block: block, err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	blocks = make([]Block, 0, len(candidates))
	for i, o := range outcomes {
		if o.err != nil {
			logger.Warn("Skipping unreadable file", zap.String("filePath", candidates[i].Path), zap.Error(o.err))
			skipped = append(skipped, o.err)
			continue
		}
		blocks = append(blocks, o.block)
	}

	logger.Debug("All files processed", zap.Int("processedFiles", len(blocks)), zap.Int("skippedFiles", len(skipped)))
	return blocks, skipped, nil
}
