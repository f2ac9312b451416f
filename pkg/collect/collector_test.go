package collect

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, relPath, content string) {
	t.Helper()

	path := filepath.Join(root, relPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestCollectorCollect(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "a.test.ts", `describe('a', () => { it('one', () => {}); });`)
	writeFile(t, root, "src/b.spec.js", `it('two', () => {}); it('three', () => {});`)
	writeFile(t, root, "src/helper.ts", `export const x = 1;`)
	writeFile(t, root, "node_modules/dep/c.test.ts", `it('hidden', () => {});`)

	result, err := Collect(context.Background(), root)
	require.NoError(t, err)

	require.Len(t, result.Files, 2)
	// Files come back sorted by path regardless of completion order.
	assert.Equal(t, "a.test.ts", result.Files[0].File.Name)
	assert.Equal(t, "src/b.spec.js", result.Files[1].File.Name)

	assert.Equal(t, 2, result.Stats.FilesScanned)
	assert.Equal(t, 2, result.Stats.FilesCollected)
	assert.Equal(t, 0, result.Stats.FilesFailed)
	assert.Equal(t, 3, result.Stats.TestsCollected)
	assert.Empty(t, result.Errors)
}

func TestCollectorPatternFilter(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "a.test.ts", `it('one', () => {});`)
	writeFile(t, root, "nested/b.test.ts", `it('two', () => {});`)

	result, err := Collect(context.Background(), root, WithPatterns([]string{"nested/**"}))
	require.NoError(t, err)

	require.Len(t, result.Files, 1)
	assert.Equal(t, "nested/b.test.ts", result.Files[0].File.Name)
}

func TestCollectorExcludePatterns(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "a.test.ts", `it('one', () => {});`)
	writeFile(t, root, "fixtures/b.test.ts", `it('two', () => {});`)

	result, err := Collect(context.Background(), root, WithExcludePatterns([]string{"fixtures"}))
	require.NoError(t, err)

	require.Len(t, result.Files, 1)
	assert.Equal(t, "a.test.ts", result.Files[0].File.Name)
}

func TestCollectorMaxFileSize(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "a.test.ts", `it('one', () => {});`)

	result, err := Collect(context.Background(), root, WithMaxFileSize(4))
	require.NoError(t, err)

	assert.Empty(t, result.Files)
	assert.Equal(t, 0, result.Stats.FilesScanned)
}

func TestCollectorCollectFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "a.test.ts", `it('one', () => {});`)
	writeFile(t, root, "b.test.ts", `it('two', () => {});`)

	collector := NewCollector(WithWorkers(2))
	result, err := collector.CollectFiles(context.Background(), root, []string{"b.test.ts"})
	require.NoError(t, err)

	require.Len(t, result.Files, 1)
	assert.Equal(t, "b.test.ts", result.Files[0].File.Name)
	assert.Equal(t, 1, result.Stats.FilesScanned)
}

func TestCollectorCancelled(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "a.test.ts", `it('one', () => {});`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Collect(ctx, root, WithTimeout(time.Minute))
	assert.ErrorIs(t, err, ErrCollectCancelled)
}

func TestIsTestFileCandidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		want bool
	}{
		{
			name: "should accept .test. infix",
			path: "src/math.test.ts",
			want: true,
		},
		{
			name: "should accept .spec. infix",
			path: "src/math.spec.js",
			want: true,
		},
		{
			name: "should accept __tests__ directory",
			path: "src/__tests__/math.ts",
			want: true,
		},
		{
			name: "should reject plain source file",
			path: "src/math.ts",
			want: false,
		},
		{
			name: "should reject non-JS extension",
			path: "src/math_test.go",
			want: false,
		},
		{
			name: "should reject fixtures inside __tests__ path",
			path: "src/__tests__/__fixtures__/data.ts",
			want: false,
		},
		{
			name: "should reject mocks directory",
			path: "src/__mocks__/axios.ts",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := IsTestFileCandidate(tt.path)

			if got != tt.want {
				t.Errorf("IsTestFileCandidate(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}
