// Package task finalizes synthesized trees: stable node identity,
// exclusivity detection, and final mode resolution.
package task

import (
	"strconv"

	"github.com/specvital/typecollect/pkg/domain"
)

// GenerateHash computes the deterministic string hash used for file-level
// node IDs. The algorithm mirrors the runtime runner's string hash so that
// statically collected IDs line up with IDs from executed collection.
func GenerateHash(s string) string {
	var hash int32
	for _, r := range s {
		hash = hash<<5 - hash + int32(r)
	}
	return strconv.FormatInt(int64(hash), 10)
}

// FileID derives a file node's ID from its project-relative path and the
// subproject discriminator.
func FileID(relPath, projectName string) string {
	return GenerateHash(relPath + projectName)
}

// CalculateSuiteHash assigns position-stable IDs to every descendant of the
// given suite: each child's ID is its parent's ID plus its child index,
// depth-first. The parent's own ID must already be set.
func CalculateSuiteHash(parent *domain.TaskNode) {
	for i, child := range parent.Children {
		child.ID = parent.ID + "_" + strconv.Itoa(i)
		if child.Kind == domain.KindSuite {
			CalculateSuiteHash(child)
		}
	}
}
