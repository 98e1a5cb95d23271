package controller

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	m "nfind.dev/pkg/nfind/internal/model"
)

// YAMLUI implements UI by encoding results as a YAML document.
type YAMLUI struct {
	cmd    *cobra.Command
	config StartConfig
}

// NewYAMLUI creates a new YAMLUI.
func NewYAMLUI(cmd *cobra.Command) *YAMLUI {
	return &YAMLUI{cmd: cmd}
}

// Start initializes the UI.
func (y *YAMLUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	y.config = newStartConfig(options)

	return nil
}

// Close finalizes the UI.
func (y *YAMLUI) Close(_ context.Context) {}

// DisplayResults writes one document listing every root. Paths are left out
// in count mode and when batches are present.
func (y *YAMLUI) DisplayResults(ctx context.Context, results []m.RootResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	docs := make([]m.RootResult, 0, len(results))

	for _, result := range results {
		doc := m.RootResult{Root: result.Root, Count: result.Count}

		switch {
		case y.config.mode == ModeCount:
		case len(result.Batches) > 0:
			doc.Batches = result.Batches
		default:
			doc.Paths = result.Paths
		}

		docs = append(docs, doc)
	}

	enc := yaml.NewEncoder(y.cmd.OutOrStdout())
	enc.SetIndent(2)

	if err := enc.Encode(docs); err != nil {
		return fmt.Errorf("encode results: %w", err)
	}

	return enc.Close()
}
