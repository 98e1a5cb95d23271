package cmd

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"nfind.dev/pkg/nfind/internal/domain/filters"
	m "nfind.dev/pkg/nfind/internal/model"
)

func outputLines(out string) []string {
	return strings.Fields(out)
}

func TestScanCmd_Patterns(t *testing.T) {
	root := writeDataset(t)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"default matches every file", nil, 11},
		{"nifti", []string{"-p", "*.nii*"}, 5},
		{"two patterns", []string{"-p", "*.nii.gz", "-p", "*.json"}, 9},
		{"anchored subject pattern", []string{"-p", "sub-0[12]/**/*.nii.gz"}, 2},
		{"exclude sessions", []string{"-p", "*.nii*", "-f", "!dir-prefix=ses-"}, 3},
		{"or logic", []string{"-p", "*", "-f", "extension=.tsv", "-f", "extension=nii", "--logic", "or"}, 2},
		{"limit", []string{"-p", "*.json", "--limit", "2"}, 2},
		{"first", []string{"-p", "*.json", "--first"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"scan", root}, tt.args...)
			out, _, err := executeCommand(t, args...)

			require.NoError(t, err)
			assert.Len(t, outputLines(out), tt.want)
		})
	}
}

func TestScanCmd_SortedOutput(t *testing.T) {
	root := writeDataset(t)

	out, _, err := executeCommand(t, "scan", root, "-p", "*.nii*", "--sort")
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "sub-01/anat/sub-01_T1w.nii.gz"),
		filepath.Join(root, "sub-02/anat/sub-02_T1w.nii.gz"),
		filepath.Join(root, "sub-03/anat/sub-03_T1w.nii"),
		filepath.Join(root, "sub-04/ses-1/anat/sub-04_ses-1_T1w.nii.gz"),
		filepath.Join(root, "sub-05/ses-1/anat/sub-05_ses-1_T1w.nii.gz"),
	}, outputLines(out))
}

func TestScanCmd_OverlapAndUnique(t *testing.T) {
	root := writeDataset(t)

	out, _, err := executeCommand(t, "scan", root, "-p", "*.nii*", "-p", "*.nii.gz")
	require.NoError(t, err)
	assert.Len(t, outputLines(out), 9)

	out, _, err = executeCommand(t, "scan", root, "-p", "*.nii*", "-p", "*.nii.gz", "--unique")
	require.NoError(t, err)
	assert.Len(t, outputLines(out), 5)
}

func TestScanCmd_Count(t *testing.T) {
	root := writeDataset(t)

	out, _, err := executeCommand(t, "scan", root, "-p", "*.json", "--count")
	require.NoError(t, err)
	assert.Equal(t, "5\n", out)
}

func TestScanCmd_MultipleRoots(t *testing.T) {
	first := writeDataset(t)
	second := writeDataset(t)

	out, _, err := executeCommand(t, "scan", first, second, "-p", "*.tsv", "--parallel", "2")
	require.NoError(t, err)

	assert.Equal(t, "# "+first+"\n"+
		filepath.Join(first, "participants.tsv")+"\n\n"+
		"# "+second+"\n"+
		filepath.Join(second, "participants.tsv")+"\n", out)

	out, _, err = executeCommand(t, "scan", first, second, "-p", "*.tsv", "--count")
	require.NoError(t, err)
	assert.Equal(t, first+"\t1\n"+second+"\t1\n", out)
}

func TestScanCmd_Batches(t *testing.T) {
	root := writeDataset(t)

	out, _, err := executeCommand(t, "scan", root, "-p", "*.nii*", "--batch-size", "2")
	require.NoError(t, err)

	groups := strings.Split(strings.TrimSpace(out), "\n\n")
	require.Len(t, groups, 3)
	assert.Len(t, outputLines(groups[2]), 1)
}

func TestScanCmd_YAMLFormat(t *testing.T) {
	root := writeDataset(t)

	out, _, err := executeCommand(t, "scan", root, "-p", "*.nii.gz", "--format", "yaml", "--sort")
	require.NoError(t, err)

	var results []m.RootResult
	require.NoError(t, yaml.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, m.Path(root), results[0].Root)
	assert.Equal(t, 4, results[0].Count)
	assert.Len(t, results[0].Paths, 4)
}

func TestScanCmd_TableFormat(t *testing.T) {
	root := writeDataset(t)

	out, _, err := executeCommand(t, "scan", root, "-p", "*.tsv", "--format", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "participants.tsv")
	assert.Contains(t, out, "1 FILES")
}

func TestScanCmd_Errors(t *testing.T) {
	root := writeDataset(t)

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"bad filter kind", []string{"scan", root, "-f", "colour=red"}, filters.ErrInvalidSpec},
		{"bad regex", []string{"scan", root, "-f", "file-regex=sub-("}, filters.ErrInvalidRegex},
		{"bad logic", []string{"scan", root, "-f", "extension=.nii", "--logic", "xor"}, filters.ErrInvalidLogic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := executeCommand(t, tt.args...)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestScanCmd_RejectsBadInvocations(t *testing.T) {
	root := writeDataset(t)

	_, _, err := executeCommand(t, "scan", filepath.Join(root, "missing"))
	require.Error(t, err)

	_, _, err = executeCommand(t, "scan", filepath.Join(root, "participants.tsv"))
	require.Error(t, err)

	_, _, err = executeCommand(t, "scan", root, "--first", "--count")
	require.Error(t, err)

	_, _, err = executeCommand(t, "scan", root, "--format", "xml")
	require.Error(t, err)
}
