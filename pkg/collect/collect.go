// Package collect synthesizes suite/test trees from test sources without
// executing them. Given a transformed module and its parsed syntax tree, it
// reconstructs the hierarchy, declared names, and execution modes an
// executing collection pass would produce, using offset containment and
// callee-shape classification instead of runtime control flow.
package collect

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/specvital/typecollect/pkg/domain"
	"github.com/specvital/typecollect/pkg/parser/tspool"
	"github.com/specvital/typecollect/pkg/task"
	"github.com/specvital/typecollect/pkg/transform"
)

// DetectLanguage picks the grammar to parse with from the file extension.
func DetectLanguage(filename string) domain.Language {
	switch filepath.Ext(filename) {
	case ".js", ".jsx", ".mjs", ".cjs":
		return domain.LanguageJavaScript
	case ".tsx":
		return domain.LanguageTSX
	default:
		return domain.LanguageTypeScript
	}
}

// FileRequest identifies one file to collect and how to finalize its tree.
type FileRequest struct {
	// Path is the path of the test file, passed to the transformer.
	Path string
	// Root is the project root; the file node is named by the path relative
	// to it. Empty keeps Path as-is.
	Root string
	// ProjectName discriminates subprojects sharing a root; part of the
	// file node's ID.
	ProjectName string
	// NamePattern skips tests whose full name does not match. Nil matches
	// all.
	NamePattern *regexp.Regexp
	// AllowOnly permits focused (only) nodes without error.
	AllowOnly bool
}

// CollectFile transforms, parses, and synthesizes the tree for one file.
// A transformer yielding no module produces a nil result with no error.
// When focused nodes are present and not allowed, the synthesized tree is
// still returned alongside task.ErrOnlyNotAllowed; fatality is the
// caller's decision.
func CollectFile(ctx context.Context, tr transform.Transformer, req FileRequest) (*domain.ParsedFile, error) {
	if tr == nil {
		tr = transform.Local{}
	}

	res, err := tr.Transform(ctx, req.Path)
	if err != nil {
		return nil, fmt.Errorf("transform %s: %w", req.Path, err)
	}
	if res == nil {
		return nil, nil
	}

	tree, err := tspool.Parse(ctx, DetectLanguage(req.Path), res.Code)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", req.Path, err)
	}
	defer tree.Close()

	sites := CollectCallSites(tree.RootNode(), res.Code)

	relPath := req.Path
	if req.Root != "" {
		if rel, relErr := filepath.Rel(req.Root, req.Path); relErr == nil {
			relPath = rel
		}
	}

	file := domain.NewFileNode(filepath.ToSlash(relPath), uint32(len(res.Code)))
	file.ID = task.FileID(file.Name, req.ProjectName)

	BuildTree(file, sites)

	task.CalculateSuiteHash(file)
	hasOnly := task.SomeOnly(file)
	modeErr := task.InterpretModes(file, req.NamePattern, hasOnly, req.AllowOnly)

	return &domain.ParsedFile{
		File:      file,
		Source:    string(res.Code),
		Map:       res.Map,
		CallSites: sites,
	}, modeErr
}
