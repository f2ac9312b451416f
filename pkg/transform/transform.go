// Package transform defines the module-transform boundary consumed by
// collection. Collection only consumes transform results; it never rewrites
// source itself.
package transform

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// Result is the output of transforming one file into executable module code.
type Result struct {
	// Code is the transformed module source.
	Code []byte
	// Map is the raw source map, if the transform produced one.
	Map json.RawMessage
}

// Transformer produces module code for a file path. Returning (nil, nil)
// means the transform yielded no module for the file; the caller collects
// no tree for it.
type Transformer interface {
	Transform(ctx context.Context, path string) (*Result, error)
}

// Local reads files verbatim from disk with no transformation and no
// source map.
type Local struct{}

// Transform implements Transformer.
func (Local) Transform(ctx context.Context, path string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	code, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return &Result{Code: code}, nil
}
