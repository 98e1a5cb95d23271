package cmd

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"nfind.dev/pkg/nfind/internal/domain/filters"
)

func TestFiltersCmd_PrintsRules(t *testing.T) {
	out, _, err := executeCommand(t, "filters", "-f", ".nii.gz", "-f", "!dir-prefix=ses-", "--logic", "or")
	require.Error(t, err, "a rule without KIND= is rejected")
	assert.Empty(t, out)

	out, _, err = executeCommand(t, "filters", "-f", "extension=.nii.gz", "-f", "!dir-prefix=ses-", "--logic", "or")
	require.NoError(t, err)

	var doc filterRules
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "OR", doc.Logic)
	assert.Equal(t, []filters.Spec{
		{Kind: filters.KindExtension, Value: ".nii.gz"},
		{Kind: filters.KindDirPrefix, Value: "ses-", Exclude: true},
	}, doc.Rules)
}

func TestFiltersCmd_Describe(t *testing.T) {
	out, _, err := executeCommand(t, "filters", "-f", "extension=.nii.gz", "-f", "!dir-prefix=ses-", "--logic", "or", "--describe")
	require.NoError(t, err)
	assert.Equal(t, "or(extension(\".nii.gz\"), not(dir-prefix(\"ses-\")))\n", out)
}

func TestFiltersCmd_ConfigRulesComeFirst(t *testing.T) {
	viper.Set(filtersRulesKey, []map[string]any{
		{"kind": "all", "filters": []map[string]any{
			{"kind": "file-prefix", "value": "sub-"},
			{"kind": "extension", "value": ".json", "exclude": true},
		}},
	})
	t.Cleanup(func() { viper.Set(filtersRulesKey, []map[string]any{}) })

	out, _, err := executeCommand(t, "filters", "-f", "file-suffix=_T1w.nii.gz", "--describe")
	require.NoError(t, err)
	assert.Equal(t, "and(and(file-prefix(\"sub-\"), not(extension(\".json\"))), file-suffix(\"_T1w.nii.gz\"))\n", out)
}

func TestFiltersCmd_InvalidRule(t *testing.T) {
	_, _, err := executeCommand(t, "filters", "-f", "exists=*;in=/labels{self}")
	require.ErrorIs(t, err, filters.ErrInvalidLocation)
}
