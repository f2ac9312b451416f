package collect

import (
	"strings"
	"testing"

	"github.com/specvital/typecollect/pkg/domain"
)

func TestClassifyShapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		source   string
		wantKind domain.NodeKind
		wantMode domain.RunMode
		wantName string
	}{
		{
			name:     "should classify plain test",
			source:   "test('adds', () => {})",
			wantKind: domain.KindTest,
			wantMode: domain.ModeRun,
			wantName: "adds",
		},
		{
			name:     "should classify it alias",
			source:   "it('adds', () => {})",
			wantKind: domain.KindTest,
			wantMode: domain.ModeRun,
			wantName: "adds",
		},
		{
			name:     "should classify plain describe",
			source:   "describe('math', () => {})",
			wantKind: domain.KindSuite,
			wantMode: domain.ModeRun,
			wantName: "math",
		},
		{
			name:     "should classify suite alias",
			source:   "suite('math', () => {})",
			wantKind: domain.KindSuite,
			wantMode: domain.ModeRun,
			wantName: "math",
		},
		{
			name:     "should classify test.skip",
			source:   "test.skip('later', () => {})",
			wantKind: domain.KindTest,
			wantMode: domain.ModeSkip,
			wantName: "later",
		},
		{
			name:     "should classify describe.only",
			source:   "describe.only('focus', () => {})",
			wantKind: domain.KindSuite,
			wantMode: domain.ModeOnly,
			wantName: "focus",
		},
		{
			name:     "should classify it.todo without callback",
			source:   "it.todo('someday')",
			wantKind: domain.KindTest,
			wantMode: domain.ModeTodo,
			wantName: "someday",
		},
		{
			name:     "should classify chained each as plain declaration",
			source:   "test.each([[1, 2]])('adds %s', () => {})",
			wantKind: domain.KindTest,
			wantMode: domain.ModeRun,
			wantName: "adds %s",
		},
		{
			name:     "should classify chained skipIf as plain declaration",
			source:   "test.skipIf(isWindows)('posix only', () => {})",
			wantKind: domain.KindTest,
			wantMode: domain.ModeRun,
			wantName: "posix only",
		},
		{
			name:     "should classify tagged-template each declaration",
			source:   "test.each`\n  a | b\n`('adds $a and $b', () => {})",
			wantKind: domain.KindTest,
			wantMode: domain.ModeRun,
			wantName: "adds $a and $b",
		},
		{
			name:     "should classify unknown chain property as run",
			source:   "test.concurrent('parallel', () => {})",
			wantKind: domain.KindTest,
			wantMode: domain.ModeRun,
			wantName: "parallel",
		},
		{
			name:     "should unwrap generated namespace reference",
			source:   "__vite_ssr_import_0__.test('adds', () => {})",
			wantKind: domain.KindTest,
			wantMode: domain.ModeRun,
			wantName: "adds",
		},
		{
			name:     "should unwrap namespaced modifier",
			source:   "__vite_ssr_import_0__.describe.skip('later', () => {})",
			wantKind: domain.KindSuite,
			wantMode: domain.ModeSkip,
			wantName: "later",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sites := collectSites(t, tt.source)

			if len(sites) != 1 {
				t.Fatalf("got %d call sites, want 1", len(sites))
			}
			site := sites[0]
			if site.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", site.Kind, tt.wantKind)
			}
			if site.Mode != tt.wantMode {
				t.Errorf("Mode = %q, want %q", site.Mode, tt.wantMode)
			}
			if site.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", site.Name, tt.wantName)
			}
		})
	}
}

func TestClassifyRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
	}{
		{
			name:   "should reject unknown function",
			source: "setupServer('name', () => {})",
		},
		{
			name:   "should reject unrelated member call",
			source: "vi.mock('module')",
		},
		{
			name:   "should reject nameless declaration",
			source: "test()",
		},
		{
			name:   "should reject unrecognized namespace convention",
			source: "helpers.test('adds', () => {})",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sites := collectSites(t, tt.source)

			if len(sites) != 0 {
				t.Errorf("got %d call sites, want 0", len(sites))
			}
		})
	}
}

func TestClassifyChainedStartOffset(t *testing.T) {
	t.Parallel()

	source := "test.each([[1, 2]])('adds %s', () => {})"
	sites := collectSites(t, source)

	if len(sites) != 1 {
		t.Fatalf("got %d call sites, want 1", len(sites))
	}

	// The site starts after the modifier call so its range does not
	// swallow the each(...) span.
	wantStart := uint32(strings.Index(source, "('adds"))
	if sites[0].Start != wantStart {
		t.Errorf("Start = %d, want %d", sites[0].Start, wantStart)
	}
	if sites[0].End != uint32(len(source)) {
		t.Errorf("End = %d, want %d", sites[0].End, len(source))
	}
}
