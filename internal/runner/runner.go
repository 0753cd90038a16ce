package runner

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vvka-141/sqlbatch/internal/retry"
	"github.com/vvka-141/sqlbatch/internal/splitter"
	"github.com/vvka-141/sqlbatch/pkg/sqlbatch"
)

// RunResult reports what a run executed.
type RunResult struct {
	// RunID identifies the run in logs.
	RunID uuid.UUID

	// Batches is the total number of batches executed.
	Batches int

	// Files is the number of script files executed.
	Files int

	// BatchesPerFile maps file names to the number of batches each
	// contributed. Empty for ExecuteScript runs.
	BatchesPerFile map[string]int

	// Duration is the wall-clock time of the run.
	Duration time.Duration
}

// ScriptRunner splits scripts into batches and executes them in order.
//
// Thread Safety: a ScriptRunner holds no per-run state; it is safe for
// concurrent use if the injected executor is.
type ScriptRunner struct {
	executor sqlbatch.CommandExecutor
	files    sqlbatch.FileProvider
	logger   sqlbatch.Logger
	retry    *retry.Executor
}

// NewScriptRunner creates a ScriptRunner.
// Panics if any dependency is nil.
func NewScriptRunner(
	executor sqlbatch.CommandExecutor,
	files sqlbatch.FileProvider,
	logger sqlbatch.Logger,
	retryExecutor *retry.Executor,
) *ScriptRunner {
	if executor == nil {
		panic("executor cannot be nil")
	}
	if files == nil {
		panic("files cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if retryExecutor == nil {
		panic("retryExecutor cannot be nil")
	}
	return &ScriptRunner{
		executor: executor,
		files:    files,
		logger:   logger,
		retry:    retryExecutor,
	}
}

// ExecuteScript splits the script on GO separator lines and executes each
// batch sequentially. The returned result counts the executed batches.
func (r *ScriptRunner) ExecuteScript(ctx context.Context, script string) (*RunResult, error) {
	result := newRunResult()
	start := time.Now()

	count, err := r.executeBatches(ctx, result.RunID, script)
	if err != nil {
		return nil, err
	}

	result.Batches = count
	result.Duration = time.Since(start)
	return result, nil
}

// ExecuteScriptFile reads and executes the script at path. A missing file
// means there is nothing to execute; it is not an error.
func (r *ScriptRunner) ExecuteScriptFile(ctx context.Context, path string) (*RunResult, error) {
	result := newRunResult()
	start := time.Now()

	exists, err := r.files.FileExists(path)
	if err != nil {
		return nil, fmt.Errorf("failed to check script file %s: %w", path, err)
	}
	if !exists {
		r.logger.Verbose("[%s] script file %s does not exist, nothing to execute", result.RunID, path)
		result.Duration = time.Since(start)
		return result, nil
	}

	count, err := r.executeFile(ctx, result.RunID, path)
	if err != nil {
		return nil, err
	}

	result.Batches = count
	result.Files = 1
	result.Duration = time.Since(start)
	return result, nil
}

// ExecuteDirectory executes every .sql file in dir, in lexical name order.
func (r *ScriptRunner) ExecuteDirectory(ctx context.Context, dir string) (*RunResult, error) {
	result := newRunResult()
	start := time.Now()

	exists, err := r.files.DirectoryExists(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to check directory %s: %w", dir, err)
	}
	if !exists {
		return nil, fmt.Errorf("directory %s does not exist", dir)
	}

	entries, err := r.files.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	r.logger.Verbose("[%s] executing %d script(s) from %s", result.RunID, len(names), dir)

	for _, name := range names {
		path := filepath.Join(dir, name)

		count, err := r.executeFile(ctx, result.RunID, path)
		if err != nil {
			return nil, err
		}

		result.Batches += count
		result.Files++
		result.BatchesPerFile[name] = count
	}

	result.Duration = time.Since(start)
	return result, nil
}

// executeFile reads one script file and executes its batches, returning the
// batch count.
func (r *ScriptRunner) executeFile(ctx context.Context, runID uuid.UUID, path string) (int, error) {
	script, err := r.files.ReadAllText(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read script %s: %w", path, err)
	}

	r.logger.Verbose("[%s] executing %s", runID, path)

	count, err := r.executeBatches(ctx, runID, script)
	if err != nil {
		return 0, fmt.Errorf("script %s: %w", path, err)
	}

	return count, nil
}

// executeBatches splits the script and runs each batch in order, awaiting
// each result before sending the next. Transient failures retry per batch.
// Returns the number of batches executed.
func (r *ScriptRunner) executeBatches(ctx context.Context, runID uuid.UUID, script string) (int, error) {
	batches := splitter.Split(script)
	if len(batches) == 0 {
		r.logger.Verbose("[%s] script contains no batches", runID)
		return 0, nil
	}

	for i, batch := range batches {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		retryable := r.retry.WithOnRetry(func(attempt int, err error, delay time.Duration) {
			r.logger.Verbose("[%s] batch %d/%d attempt %d failed (%v), retrying in %v",
				runID, i+1, len(batches), attempt+1, err, delay)
		})

		err := retryable.Execute(ctx, func(ctx context.Context) error {
			rows, execErr := r.executor.Exec(ctx, batch)
			if execErr != nil {
				return execErr
			}
			r.logger.Verbose("[%s] batch %d/%d ok (%d row(s) affected)", runID, i+1, len(batches), rows)
			return nil
		})
		if err != nil {
			return 0, fmt.Errorf("batch %d/%d failed: %w\n  batch preview: %s\n%w",
				i+1, len(batches), err, previewBatch(batch), sqlbatch.ErrExecutionFailed)
		}
	}

	return len(batches), nil
}

// previewBatch truncates a batch for error messages so a failing multi-page
// statement does not flood the console.
func previewBatch(batch string) string {
	trimmed := strings.TrimSpace(batch)
	if len(trimmed) <= sqlbatch.MaxErrorPreviewLength {
		return trimmed
	}
	return trimmed[:sqlbatch.MaxErrorPreviewLength] + "..."
}

func newRunResult() *RunResult {
	return &RunResult{
		RunID:          uuid.New(),
		BatchesPerFile: make(map[string]int),
	}
}
