package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"nfind.dev/pkg/nfind/internal/domain"
)

var scanPatternsFlag []string

// scanCmd represents the scan command.
var scanCmd = newScanCmd()

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [roots...]",
		Short: "Search roots recursively with patterns and filters",
		Long:  scanLongDescription,
		PreRun: func(cmd *cobra.Command, _ []string) {
			bindFlagToConfig(cmd.Flags().Lookup(patternFlagName), scanPatternsKey)
			bindQueryFlags(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := filterOptions()
			if err != nil {
				return err
			}

			explorer, err := domain.NewExplorer(append(opts,
				domain.WithPatterns(viper.GetStringSlice(scanPatternsKey)...),
			)...)
			if err != nil {
				return err
			}

			return runQuery(cmd, explorer, args)
		},
	}

	cmd.Flags().StringArrayVarP(&scanPatternsFlag, patternFlagName, "p", viper.GetStringSlice(scanPatternsKey), "recursive search pattern (can be repeated)")
	configureQueryFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
