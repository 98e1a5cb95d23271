package controller

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	m "nfind.dev/pkg/nfind/internal/model"
)

// SimpleUI implements UI using cobra Command's output, one path per line.
type SimpleUI struct {
	cmd    *cobra.Command
	config StartConfig
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.config = newStartConfig(options)

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(_ context.Context) {}

// DisplayResults prints paths, or counts in count mode. Batches are
// separated by a blank line.
func (s *SimpleUI) DisplayResults(ctx context.Context, results []m.RootResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for i, result := range results {
		if s.config.mode == ModeCount {
			if s.config.showRoots {
				s.printf("%s\t%d\n", result.Root, result.Count)
			} else {
				s.printf("%d\n", result.Count)
			}

			continue
		}

		if s.config.showRoots {
			if i > 0 {
				s.printf("\n")
			}

			s.printf("# %s\n", result.Root)
		}

		if len(result.Batches) == 0 {
			s.printPaths(result.Paths)
			continue
		}

		for j, batch := range result.Batches {
			if j > 0 {
				s.printf("\n")
			}

			s.printPaths(batch)
		}
	}

	return nil
}

func (s *SimpleUI) printPaths(paths []m.Path) {
	for _, p := range paths {
		s.printf("%s\n", p)
	}
}

func (s *SimpleUI) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
