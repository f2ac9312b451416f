package collect

import (
	"sort"

	"github.com/specvital/typecollect/pkg/domain"
)

// BuildTree folds classified call sites into the file tree. Nesting is
// recovered purely from offset containment: the cursor ascends out of every
// suite that closed before the next call site starts, so each site attaches
// to the nearest enclosing suite that still contains it. Sites are never
// dropped here; a site the current suite cannot contain lands on an
// ancestor that can.
func BuildTree(file *domain.TaskNode, sites []domain.CallSite) {
	sort.SliceStable(sites, func(i, j int) bool {
		return sites[i].Start < sites[j].Start
	})

	cursor := file
	for _, site := range sites {
		for cursor.Parent != nil && cursor.End < site.Start {
			cursor = cursor.Parent
		}

		// A skipped or todo suite forces everything beneath it. Focus (only)
		// does not cascade at build time; exclusivity is resolved by the
		// finalizer.
		mode := site.Mode
		if cursor.Mode == domain.ModeSkip || cursor.Mode == domain.ModeTodo {
			mode = cursor.Mode
		}

		node := &domain.TaskNode{
			Name:  site.Name,
			Kind:  site.Kind,
			Mode:  mode,
			Start: site.Start,
			End:   site.End,
		}
		cursor.Append(node)

		if node.Kind == domain.KindSuite {
			cursor = node
		}
	}
}
