package combine

import (
	"context"
	"os"
	"time"

	"byteweaver/pkg/match"

	"gitlab.com/tozd/go/errors"
	"go.uber.org/zap"
)

// Stage is a step of a pipeline run.
type Stage int

const (
	StageIdle Stage = iota
	StageTraversing
	StageTransforming
	StageAssembling
	StageWriting
	StageDone
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageTraversing:
		return "traversing"
	case StageTransforming:
		return "transforming"
	case StageAssembling:
		return "assembling"
	case StageWriting:
		return "writing"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Pipeline runs traversal, transformation, assembly and the final write in
// sequence. A Pipeline serves one run at a time.
type Pipeline struct {
	fs     FileSystem
	logger *zap.Logger
	stage  Stage
}

// NewPipeline creates a Pipeline over fsys.
func NewPipeline(fsys FileSystem, logger *zap.Logger) *Pipeline {
	if fsys == nil {
		fsys = OSFileSystem{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{fs: fsys, logger: logger}
}

// RunPipeline concatenates the files of directory into output on the host
// file system.
func RunPipeline(ctx context.Context, directory, output string, opts Options, logger *zap.Logger) (*Result, error) {
	return NewPipeline(OSFileSystem{}, logger).Run(ctx, directory, output, opts)
}

// Stage returns the stage the last run reached.
func (p *Pipeline) Stage() Stage { return p.stage }

// Run executes one pipeline run. Files that cannot be read are skipped with a
// warning; any other failure aborts the run before the output is touched.
func (p *Pipeline) Run(ctx context.Context, directory, output string, opts Options) (*Result, error) {
	startTime := time.Now()
	p.stage = StageIdle
	p.logger.Info("Starting combination process", zap.String("directory", directory), zap.String("outputFile", output))

	p.enter(StageTraversing)
	resolved, err := opts.Resolve()
	if err != nil {
		return nil, p.fail(newError(KindConfig, "", err))
	}

	info, err := p.fs.Stat(directory)
	if err != nil {
		return nil, p.fail(newError(KindIO, directory, errors.Errorf("reading directory: %w", err)))
	}
	if !info.IsDir() {
		return nil, p.fail(newError(KindIO, directory, errors.New("not a directory")))
	}

	traverser := NewTraverser(p.fs, match.New(resolved.WorkDir), resolved.Gitignore, p.logger)
	candidates, err := traverser.Traverse(directory, resolved.Exclude, resolved.Include, resolved.Recursive)
	if err != nil {
		return nil, p.fail(err)
	}
	candidates = dropPaths(candidates, append([]string{output}, resolved.Omit...)...)

	p.enter(StageTransforming)
	transformer := NewTransformer(p.fs, directory, resolved, p.logger)
	blocks, skipped, err := TransformAll(ctx, transformer, candidates, resolved.Workers, p.logger)
	if err != nil {
		return nil, p.fail(newError(KindIO, "", errors.Errorf("transforming files: %w", err)))
	}

	result := &Result{OutputFile: output}
	included := blocks[:0]
	for _, b := range blocks {
		if b.Omitted {
			continue
		}
		included = append(included, b)
		result.ProcessedFiles = append(result.ProcessedFiles, b.Candidate.Path)
	}
	for _, e := range skipped {
		var perr *Error
		if errors.As(e, &perr) {
			result.Skipped = append(result.Skipped, perr.Path)
		}
	}

	p.enter(StageAssembling)
	content, err := NewAssembler(p.fs, directory, resolved, p.logger).Assemble(included)
	if err != nil {
		return nil, p.fail(err)
	}

	p.enter(StageWriting)
	if resolved.Check {
		previous, err := p.fs.ReadFile(output)
		if err != nil && !os.IsNotExist(err) {
			return nil, p.fail(newError(KindIO, output, errors.Errorf("reading existing output: %w", err)))
		}
		result.Changed, result.Diff = diffOutput(string(previous), content)
		p.logger.Debug("Compared output", zap.String("outputFile", output), zap.Bool("changed", result.Changed))
	} else if err := p.fs.WriteFile(output, []byte(content)); err != nil {
		return nil, p.fail(newError(KindIO, output, errors.Errorf("writing output: %w", err)))
	}

	p.enter(StageDone)
	result.Success = true
	result.FileCount = len(result.ProcessedFiles)

	p.logger.Info("Combination process completed",
		zap.String("outputFile", output),
		zap.Int("totalFiles", result.FileCount),
		zap.Int("skippedFiles", len(result.Skipped)),
		zap.Duration("elapsed", time.Since(startTime)))
	return result, nil
}

func (p *Pipeline) enter(stage Stage) {
	p.logger.Debug("Entering stage", zap.Stringer("from", p.stage), zap.Stringer("to", stage))
	p.stage = stage
}

// fail records the failing stage on err, moves to StageFailed and wraps err
// for the caller.
func (p *Pipeline) fail(err error) error {
	var perr *Error
	if errors.As(err, &perr) {
		perr.Stage = p.stage
	}
	p.logger.Error("Combination process failed", zap.Stringer("stage", p.stage), zap.Error(err))
	p.stage = StageFailed
	return errors.Errorf("concatenating files: %w", err)
}
