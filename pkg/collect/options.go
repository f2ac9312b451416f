package collect

import (
	"regexp"
	"time"

	"github.com/specvital/typecollect/pkg/transform"
)

const (
	// DefaultWorkers indicates that the collector should use GOMAXPROCS as
	// the worker count.
	DefaultWorkers = 0
	// DefaultTimeout is the default duration bounding one Collect run.
	DefaultTimeout = 5 * time.Minute
	// MaxWorkers is the maximum number of concurrent workers allowed.
	MaxWorkers = 1024
	// DefaultMaxFileSize is the default maximum file size to collect (10MB).
	DefaultMaxFileSize = 10 * 1024 * 1024
)

// DefaultSkipPatterns contains directory names skipped by default during
// discovery.
var DefaultSkipPatterns = []string{
	"node_modules",
	".git",
	"dist",
	".next",
	"coverage",
	".cache",
}

// Options configure a Collector.
type Options struct {
	// AllowOnly permits focused (only) nodes without error.
	AllowOnly bool

	// ExcludePatterns specifies directory names to skip during discovery.
	// These are combined with DefaultSkipPatterns.
	ExcludePatterns []string

	// MaxFileSize is the maximum file size in bytes to collect. Larger
	// files are skipped.
	MaxFileSize int64

	// NamePattern skips tests whose full name does not match. Nil matches
	// all.
	NamePattern *regexp.Regexp

	// Patterns specifies glob patterns to filter test files. Empty keeps
	// every candidate.
	Patterns []string

	// ProjectName discriminates subprojects sharing a root; part of every
	// file node's ID.
	ProjectName string

	// Timeout is the maximum duration for the entire collect operation.
	// Zero or negative values use DefaultTimeout.
	Timeout time.Duration

	// Transformer produces module code per file. Nil reads files verbatim
	// from disk.
	Transformer transform.Transformer

	// Workers specifies the number of concurrent file collections.
	// Zero or negative values use runtime.GOMAXPROCS(0).
	Workers int
}

// Option is a functional option for configuring a Collector.
type Option func(*Options)

// WithWorkers sets the number of concurrent file collections.
// Negative values are ignored.
func WithWorkers(n int) Option {
	return func(o *Options) {
		if n >= 0 {
			o.Workers = n
		}
	}
}

// WithTimeout sets the collect timeout duration.
// Negative values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		if d >= 0 {
			o.Timeout = d
		}
	}
}

// WithPatterns sets glob patterns to filter test files.
func WithPatterns(patterns []string) Option {
	return func(o *Options) {
		o.Patterns = patterns
	}
}

// WithExcludePatterns adds directory names to skip during discovery.
func WithExcludePatterns(patterns []string) Option {
	return func(o *Options) {
		o.ExcludePatterns = patterns
	}
}

// WithMaxFileSize sets the maximum file size to collect.
func WithMaxFileSize(size int64) Option {
	return func(o *Options) {
		o.MaxFileSize = size
	}
}

// WithNamePattern skips tests whose full name does not match the pattern.
func WithNamePattern(re *regexp.Regexp) Option {
	return func(o *Options) {
		o.NamePattern = re
	}
}

// WithAllowOnly permits focused (only) nodes without error.
func WithAllowOnly(allow bool) Option {
	return func(o *Options) {
		o.AllowOnly = allow
	}
}

// WithProjectName sets the subproject discriminator used in file IDs.
func WithProjectName(name string) Option {
	return func(o *Options) {
		o.ProjectName = name
	}
}

// WithTransformer sets the transformer producing module code per file.
func WithTransformer(tr transform.Transformer) Option {
	return func(o *Options) {
		o.Transformer = tr
	}
}

func applyDefaults(opts *Options) {
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = DefaultMaxFileSize
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Transformer == nil {
		opts.Transformer = transform.Local{}
	}
}
