package domain

import (
	"encoding/json"
	"strings"
)

// NodeKind distinguishes suite containers from leaf tests.
type NodeKind string

// Node kinds.
const (
	KindSuite NodeKind = "suite"
	KindTest  NodeKind = "test"
)

// RunMode is the declared or resolved execution mode of a node.
type RunMode string

// Run modes. Only marks a node as focused; whether focus suppresses the rest
// of the tree is decided during finalization, not at declaration time.
const (
	ModeRun  RunMode = "run"
	ModeSkip RunMode = "skip"
	ModeOnly RunMode = "only"
	ModeTodo RunMode = "todo"
)

// CallSite is one classified declaration call, positioned by byte offsets
// and not yet linked into a tree.
type CallSite struct {
	Start uint32   `json:"start"`
	End   uint32   `json:"end"`
	Name  string   `json:"name"`
	Kind  NodeKind `json:"kind"`
	Mode  RunMode  `json:"mode"`
}

// TaskNode is one node of the synthesized suite/test tree. The file root is
// a suite named by the project-relative path, with a range covering the
// whole source.
type TaskNode struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Kind     NodeKind    `json:"kind"`
	Mode     RunMode     `json:"mode"`
	Start    uint32      `json:"start"`
	End      uint32      `json:"end"`
	Parent   *TaskNode   `json:"-"`
	Children []*TaskNode `json:"children,omitempty"`
}

// NewFileNode creates the root suite for a file. The ID is assigned by the
// caller once the subproject discriminator is known.
func NewFileNode(relPath string, size uint32) *TaskNode {
	return &TaskNode{
		Name:  relPath,
		Kind:  KindSuite,
		Mode:  ModeRun,
		Start: 0,
		End:   size,
	}
}

// Append adds child as the last child of n and sets its parent link.
func (n *TaskNode) Append(child *TaskNode) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// FullName returns the ancestor names joined with spaces, excluding the
// file root. Used for name-pattern matching.
func (n *TaskNode) FullName() string {
	var names []string
	for cur := n; cur != nil && cur.Parent != nil; cur = cur.Parent {
		names = append(names, cur.Name)
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, " ")
}

// Walk visits n and all descendants depth-first. The visitor returns false
// to stop descending into a node's children.
func (n *TaskNode) Walk(visit func(*TaskNode) bool) {
	if !visit(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(visit)
	}
}

// CountTests returns the number of test nodes in the subtree.
func (n *TaskNode) CountTests() int {
	count := 0
	n.Walk(func(t *TaskNode) bool {
		if t.Kind == KindTest {
			count++
		}
		return true
	})
	return count
}

// CountSuites returns the number of suite nodes in the subtree, excluding
// the receiver itself.
func (n *TaskNode) CountSuites() int {
	count := 0
	n.Walk(func(t *TaskNode) bool {
		if t != n && t.Kind == KindSuite {
			count++
		}
		return true
	})
	return count
}

// ParsedFile is the result of collecting one file. It owns the tree and the
// call sites; Source and Map are borrowed from the transform result. The
// call sites are retained so downstream consumers can correlate diagnostic
// source positions with tree nodes.
type ParsedFile struct {
	File      *TaskNode       `json:"file"`
	Source    string          `json:"-"`
	Map       json.RawMessage `json:"map,omitempty"`
	CallSites []CallSite      `json:"callSites,omitempty"`
}
