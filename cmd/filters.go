package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"nfind.dev/pkg/nfind/internal/domain"
	"nfind.dev/pkg/nfind/internal/domain/filters"
)

var describeFlag bool

// filterRules is the YAML document printed by the filters command.
type filterRules struct {
	Logic string         `yaml:"logic"`
	Rules []filters.Spec `yaml:"rules"`
}

// filtersCmd represents the filters command.
var filtersCmd = newFiltersCmd()

func newFiltersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filters",
		Short: "Print the effective filter rules",
		Long: `Print the filter rules from the config file and the --filter flags as
YAML, after checking that every rule compiles.`,
		PreRun: func(cmd *cobra.Command, _ []string) {
			bindFilterFlags(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			logic, err := filters.ParseLogic(viper.GetString(filtersLogicKey))
			if err != nil {
				return err
			}

			specs, err := loadFilterSpecs()
			if err != nil {
				return err
			}

			built, err := filters.BuildAll(specs, fsAdapter)
			if err != nil {
				return err
			}

			if describeFlag {
				set, err := domain.NewFilterSet(logic, built...)
				if err != nil {
					return err
				}

				_, err = fmt.Fprintln(cmd.OutOrStdout(), set.String())

				return err
			}

			out, err := yaml.Marshal(filterRules{Logic: logic.String(), Rules: specs})
			if err != nil {
				return fmt.Errorf("encode filter rules: %w", err)
			}

			_, err = cmd.OutOrStdout().Write(out)

			return err
		},
	}

	configureFilterFlags(cmd)
	cmd.Flags().BoolVar(&describeFlag, "describe", false, "print the compiled filter expression instead of the rules")

	return cmd
}

func init() {
	rootCmd.AddCommand(filtersCmd)
}
