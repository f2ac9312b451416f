package collect

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/specvital/typecollect/pkg/domain"
)

var (
	// ErrCollectCancelled is returned when collection is cancelled via
	// context.
	ErrCollectCancelled = errors.New("collect: cancelled")
	// ErrCollectTimeout is returned when collection exceeds the timeout
	// duration.
	ErrCollectTimeout = errors.New("collect: timeout")
)

// Collector discovers test files under a root and synthesizes their trees
// in parallel. Files are independent; no state is shared across them.
type Collector struct {
	options *Options
}

// CollectError represents a non-fatal error tied to one phase of a run.
type CollectError struct {
	// Err is the underlying error.
	Err error

	// Path is the file path where the error occurred (may be empty for
	// non-file errors).
	Path string

	// Phase indicates which phase the error occurred in.
	// Values: "discovery", "collect"
	Phase string
}

// Error implements the error interface.
func (e CollectError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("[%s] %v", e.Phase, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Phase, e.Path, e.Err)
}

// Stats provides statistics about a collect run.
type Stats struct {
	// FilesScanned is the number of test file candidates discovered.
	FilesScanned int

	// FilesCollected is the number of files with a synthesized tree.
	FilesCollected int

	// FilesFailed is the number of files that failed to collect.
	FilesFailed int

	// FilesSkipped is the number of candidates the transformer yielded no
	// module for.
	FilesSkipped int

	// TestsCollected is the number of test nodes across all trees.
	TestsCollected int

	// Duration is the total run duration.
	Duration time.Duration
}

// Result contains the outcome of a collect run.
type Result struct {
	// RootPath is the project root that was collected.
	RootPath string

	// Files contains the synthesized trees, ordered by path.
	Files []*domain.ParsedFile

	// Errors contains non-fatal errors encountered during the run.
	Errors []CollectError

	// Stats provides run statistics.
	Stats Stats
}

// NewCollector creates a collector with the given options.
func NewCollector(opts ...Option) *Collector {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}
	applyDefaults(options)

	return &Collector{options: options}
}

// Collect discovers test files under root and synthesizes their trees.
func (c *Collector) Collect(ctx context.Context, root string) (*Result, error) {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(ctx, c.options.Timeout)
	defer cancel()

	result := newResult(root)

	files, errs := c.discoverTestFiles(ctx, root)
	for _, err := range errs {
		result.Errors = append(result.Errors, CollectError{
			Err:   err,
			Phase: "discovery",
		})
	}
	result.Stats.FilesScanned = len(files)

	if len(files) > 0 {
		c.collectParallel(ctx, root, files, result)
	}

	finishResult(result, startTime)
	return result, runErr(ctx)
}

// CollectFiles collects specific files relative to root (for
// incremental/watch mode), bypassing discovery.
func (c *Collector) CollectFiles(ctx context.Context, root string, files []string) (*Result, error) {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(ctx, c.options.Timeout)
	defer cancel()

	result := newResult(root)
	result.Stats.FilesScanned = len(files)

	if len(files) > 0 {
		c.collectParallel(ctx, root, files, result)
	}

	finishResult(result, startTime)
	return result, runErr(ctx)
}

func newResult(root string) *Result {
	return &Result{
		RootPath: root,
		Files:    []*domain.ParsedFile{},
		Errors:   []CollectError{},
	}
}

func finishResult(result *Result, startTime time.Time) {
	result.Stats.FilesCollected = len(result.Files)
	result.Stats.FilesSkipped = result.Stats.FilesScanned - result.Stats.FilesCollected - result.Stats.FilesFailed
	for _, f := range result.Files {
		result.Stats.TestsCollected += f.File.CountTests()
	}
	result.Stats.Duration = time.Since(startTime)
}

func runErr(ctx context.Context) error {
	switch err := ctx.Err(); {
	case errors.Is(err, context.DeadlineExceeded):
		return ErrCollectTimeout
	case errors.Is(err, context.Canceled):
		return ErrCollectCancelled
	default:
		return nil
	}
}

func (c *Collector) collectParallel(ctx context.Context, root string, files []string, result *Result) {
	workers := c.options.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > MaxWorkers {
		workers = MaxWorkers
	}

	sem := semaphore.NewWeighted(int64(workers))
	g, gCtx := errgroup.WithContext(ctx)

	var mu sync.Mutex

	for _, file := range files {
		g.Go(func() error {
			if err := sem.Acquire(gCtx, 1); err != nil {
				return nil
			}
			defer sem.Release(1)

			parsed, err := CollectFile(gCtx, c.options.Transformer, FileRequest{
				Path:        filepath.Join(root, file),
				Root:        root,
				ProjectName: c.options.ProjectName,
				NamePattern: c.options.NamePattern,
				AllowOnly:   c.options.AllowOnly,
			})

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				result.Errors = append(result.Errors, CollectError{
					Err:   err,
					Path:  file,
					Phase: "collect",
				})
				if parsed == nil {
					result.Stats.FilesFailed++
					return nil
				}
			}

			if parsed != nil {
				result.Files = append(result.Files, parsed)
			}

			return nil
		})
	}

	_ = g.Wait()

	// Goroutines finish in arbitrary order; sort for deterministic output.
	sort.Slice(result.Files, func(i, j int) bool {
		return result.Files[i].File.Name < result.Files[j].File.Name
	})
}

// discoverTestFiles walks the root to find test file candidates.
// Returns paths relative to root.
func (c *Collector) discoverTestFiles(ctx context.Context, root string) ([]string, []error) {
	skipSet := buildSkipSet(append(append([]string{}, DefaultSkipPatterns...), c.options.ExcludePatterns...))

	var (
		files []string
		errs  []error
	)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if walkErr != nil {
			errs = append(errs, fmt.Errorf("access error at %s: %w", path, walkErr))
			return nil
		}

		if d.IsDir() {
			if path != root && skipSet[filepath.Base(path)] {
				return filepath.SkipDir
			}
			return nil
		}

		if !IsTestFileCandidate(path) {
			return nil
		}

		relPath, relErr := filepath.Rel(root, path)
		if relErr != nil {
			errs = append(errs, fmt.Errorf("compute relative path for %s: %w", path, relErr))
			return nil
		}

		if len(c.options.Patterns) > 0 && !matchesAnyPattern(relPath, c.options.Patterns) {
			return nil
		}

		if c.options.MaxFileSize > 0 {
			info, infoErr := d.Info()
			if infoErr != nil {
				errs = append(errs, fmt.Errorf("stat %s: %w", path, infoErr))
				return nil
			}
			if info.Size() > c.options.MaxFileSize {
				return nil
			}
		}

		files = append(files, relPath)
		return nil
	})

	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		errs = append(errs, err)
	}

	return files, errs
}

// IsTestFileCandidate reports whether the path follows a JS/TS test file
// naming convention.
func IsTestFileCandidate(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs":
	default:
		return false
	}

	base := strings.ToLower(filepath.Base(path))
	if strings.Contains(base, ".test.") || strings.Contains(base, ".spec.") {
		return true
	}

	normalized := filepath.ToSlash(path)

	// Fixture and mock directories hold test data, not test files.
	if strings.Contains(normalized, "/__fixtures__/") || strings.HasPrefix(normalized, "__fixtures__/") ||
		strings.Contains(normalized, "/__mocks__/") || strings.HasPrefix(normalized, "__mocks__/") {
		return false
	}

	return strings.Contains(normalized, "/__tests__/") || strings.HasPrefix(normalized, "__tests__/")
}

func matchesAnyPattern(relPath string, patterns []string) bool {
	relPath = filepath.ToSlash(relPath)

	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, relPath)
		if err != nil {
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

func buildSkipSet(patterns []string) map[string]bool {
	skipSet := make(map[string]bool, len(patterns))
	for _, p := range patterns {
		skipSet[p] = true
	}
	return skipSet
}

// Collect creates a collector per call and runs it against root.
func Collect(ctx context.Context, root string, opts ...Option) (*Result, error) {
	return NewCollector(opts...).Collect(ctx, root)
}
