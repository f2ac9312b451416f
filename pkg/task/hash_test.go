package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specvital/typecollect/pkg/domain"
)

func TestGenerateHash(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "should hash empty string to zero",
			input: "",
			want:  "0",
		},
		{
			name:  "should match the runner hash for ascii input",
			input: "hello",
			want:  "99162322",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := GenerateHash(tt.input)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerateHashDeterminism(t *testing.T) {
	t.Parallel()

	assert.Equal(t, GenerateHash("a.test.ts"), GenerateHash("a.test.ts"))
	assert.NotEqual(t, GenerateHash("a.test.ts"), GenerateHash("b.test.ts"))
}

func TestFileID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, GenerateHash("a.test.ts"), FileID("a.test.ts", ""))
	assert.NotEqual(t, FileID("a.test.ts", ""), FileID("a.test.ts", "web"),
		"subproject discriminator must change the ID")
}

func TestCalculateSuiteHash(t *testing.T) {
	t.Parallel()

	file := domain.NewFileNode("a.test.ts", 100)
	file.ID = FileID("a.test.ts", "")

	suite := &domain.TaskNode{Name: "s", Kind: domain.KindSuite, Mode: domain.ModeRun}
	file.Append(suite)
	testA := &domain.TaskNode{Name: "a", Kind: domain.KindTest, Mode: domain.ModeRun}
	testB := &domain.TaskNode{Name: "b", Kind: domain.KindTest, Mode: domain.ModeRun}
	suite.Append(testA)
	suite.Append(testB)

	CalculateSuiteHash(file)

	require.NotEmpty(t, file.ID)
	assert.Equal(t, file.ID+"_0", suite.ID)
	assert.Equal(t, file.ID+"_0_0", testA.ID)
	assert.Equal(t, file.ID+"_0_1", testB.ID)
}
