package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"nfind.dev/pkg/nfind/internal/controller"
	"nfind.dev/pkg/nfind/internal/domain"
	"nfind.dev/pkg/nfind/internal/domain/filters"
)

var (
	filterExprsFlag []string
	logicFlag       string
	sortFlag        bool
	uniqueFlag      bool
	limitFlag       int
	firstFlag       bool
	countFlag       bool
	batchSizeFlag   int
	formatFlag      string
	parallelFlag    int
)

// configureFilterFlags adds the flags that build the filter set.
func configureFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&filterExprsFlag, filterFlagName, "f", nil, "filter rule KIND=VALUE, ! to exclude (can be repeated)")
	cmd.Flags().StringVar(&logicFlag, logicFlagName, viper.GetString(filtersLogicKey), "combine filters with 'and' or 'or'")
}

// configureQueryFlags adds the filter flags plus the output and
// materialization flags shared by the search commands.
func configureQueryFlags(cmd *cobra.Command) {
	configureFilterFlags(cmd)

	cmd.Flags().BoolVar(&sortFlag, sortFlagName, viper.GetBool(outputSortKey), "sort results per root")
	cmd.Flags().BoolVar(&uniqueFlag, uniqueFlagName, viper.GetBool(outputUniqueKey), "drop repeated results")
	cmd.Flags().IntVar(&limitFlag, limitFlagName, 0, "stop after N results per root (0 = no limit)")
	cmd.Flags().BoolVar(&firstFlag, firstFlagName, false, "print only the first result per root")
	cmd.Flags().BoolVar(&countFlag, countFlagName, false, "print only the number of results per root")
	cmd.Flags().IntVar(&batchSizeFlag, batchSizeFlagName, 0, "group results into batches of N")
	cmd.Flags().StringVar(&formatFlag, formatFlagName, viper.GetString(outputFormatKey), "output format: text, table or yaml")
	cmd.Flags().IntVar(&parallelFlag, parallelFlagName, viper.GetInt(runParallelKey), "number of roots scanned concurrently")

	cmd.MarkFlagsMutuallyExclusive(firstFlagName, countFlagName)
}

// bindFilterFlags binds the running command's filter flags to their config keys.
func bindFilterFlags(cmd *cobra.Command) {
	bindFlagToConfig(cmd.Flags().Lookup(logicFlagName), filtersLogicKey)
}

// bindQueryFlags binds the running command's query flags to their config
// keys. Binding happens at run time because several commands declare the
// same flags.
func bindQueryFlags(cmd *cobra.Command) {
	bindFilterFlags(cmd)
	bindFlagToConfig(cmd.Flags().Lookup(sortFlagName), outputSortKey)
	bindFlagToConfig(cmd.Flags().Lookup(uniqueFlagName), outputUniqueKey)
	bindFlagToConfig(cmd.Flags().Lookup(formatFlagName), outputFormatKey)
	bindFlagToConfig(cmd.Flags().Lookup(parallelFlagName), runParallelKey)
}

// loadFilterSpecs returns the rules from config followed by the --filter rules.
func loadFilterSpecs() ([]filters.Spec, error) {
	var specs []filters.Spec
	if err := viper.UnmarshalKey(filtersRulesKey, &specs); err != nil {
		return nil, fmt.Errorf("read %s: %w", filtersRulesKey, err)
	}

	for _, expr := range filterExprsFlag {
		spec, err := filters.ParseSpec(expr)
		if err != nil {
			return nil, fmt.Errorf("--%s %q: %w", filterFlagName, expr, err)
		}

		specs = append(specs, spec)
	}

	return specs, nil
}

// filterOptions builds the explorer options for the configured filters.
func filterOptions() ([]domain.Option, error) {
	logic, err := filters.ParseLogic(viper.GetString(filtersLogicKey))
	if err != nil {
		return nil, err
	}

	specs, err := loadFilterSpecs()
	if err != nil {
		return nil, err
	}

	built, err := filters.BuildAll(specs, fsAdapter)
	if err != nil {
		return nil, err
	}

	return []domain.Option{
		domain.WithFilters(built...),
		domain.WithLogic(logic),
		domain.WithFS(fsAdapter),
	}, nil
}

// runQuery scans every root with scanner and displays the results.
func runQuery(cmd *cobra.Command, scanner domain.Scanner, args []string) error {
	ctx := cmd.Context()
	roots := parseRoots(args)

	format, err := controller.ParseFormat(viper.GetString(outputFormatKey))
	if err != nil {
		return err
	}

	ui, err := controller.NewUI(cmd, format)
	if err != nil {
		return err
	}

	var startOptions []controller.StartOption
	if countFlag {
		startOptions = append(startOptions, controller.WithCountMode())
	}

	if len(roots) > 1 {
		startOptions = append(startOptions, controller.WithRootHeaders())
	}

	if err := ui.Start(ctx, startOptions...); err != nil {
		return err
	}
	defer ui.Close(ctx)

	query := domain.Query{
		List: domain.ListOptions{
			Sort:   viper.GetBool(outputSortKey),
			Unique: viper.GetBool(outputUniqueKey),
			Limit:  limitFlag,
		},
		First:     firstFlag,
		CountOnly: countFlag,
		BatchSize: batchSizeFlag,
	}

	parallel := viper.GetInt(runParallelKey)
	slog.Info("scanning", "roots", roots, "parallel", parallel, "query", query)

	results, err := domain.NewFinder(scanner, parallel).Find(ctx, roots, query)
	if err != nil {
		return err
	}

	return ui.DisplayResults(ctx, results)
}
