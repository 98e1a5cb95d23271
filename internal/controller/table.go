package controller

import (
	"bytes"
	"context"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "nfind.dev/pkg/nfind/internal/model"
)

// TableUI implements UI with tablewriter tables.
type TableUI struct {
	cmd    *cobra.Command
	config StartConfig
}

// NewTableUI creates a new TableUI.
func NewTableUI(cmd *cobra.Command) *TableUI {
	return &TableUI{cmd: cmd}
}

// Start initializes the UI.
func (t *TableUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.config = newStartConfig(options)

	return nil
}

// Close finalizes the UI.
func (t *TableUI) Close(_ context.Context) {}

// DisplayResults renders a per-root count table in count mode, otherwise a
// table of paths.
func (t *TableUI) DisplayResults(ctx context.Context, results []m.RootResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var out string
	if t.config.mode == ModeCount {
		out = renderCountTable(results)
	} else {
		out = renderPathTable(results)
	}

	_, err := fmt.Fprint(t.cmd.OutOrStdout(), out)

	return err
}

func renderCountTable(results []m.RootResult) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Root", "Files"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})

	total := 0

	for _, result := range results {
		table.Append([]string{string(result.Root), fmt.Sprintf("%d", result.Count)})

		total += result.Count
	}

	table.SetFooter([]string{fmt.Sprintf("Total Roots %d", len(results)), fmt.Sprintf("%d", total)})
	table.Render()

	return tableBuffer.String()
}

func renderPathTable(results []m.RootResult) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Root", "Batch", "Path"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoMergeCells(true)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT})

	total := 0

	for _, result := range results {
		for batchIdx, batch := range resultBatches(result) {
			for _, p := range batch {
				rel := p
				if r, ok := p.Rel(result.Root); ok {
					rel = r
				}

				table.Append([]string{string(result.Root), fmt.Sprintf("%d", batchIdx+1), string(rel)})
			}
		}

		total += result.Count
	}

	table.SetFooter([]string{fmt.Sprintf("Total Roots %d", len(results)), "", fmt.Sprintf("%d files", total)})
	table.Render()

	return tableBuffer.String()
}

// resultBatches returns the result's batches, or its paths as one batch.
func resultBatches(result m.RootResult) [][]m.Path {
	if len(result.Batches) > 0 {
		return result.Batches
	}

	return [][]m.Path{result.Paths}
}
