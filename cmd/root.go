// Package cmd provides the root command and CLI setup for nfind.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"nfind.dev/pkg/nfind/internal/adapter"
	m "nfind.dev/pkg/nfind/internal/model"
)

var fsAdapter adapter.FSAdapter

// logFileFlag overrides log.filename for this run.
var logFileFlag string

// verboseFlag switches logging to debug level.
var verboseFlag bool

func init() {
	fsAdapter = adapter.NewLocalFSAdapter()

	configureRootFlags(rootCmd)
}

const patternsHelp = `Patterns use recursive glob syntax:
  - *.nii*              NIfTI files at any depth
  - sub-*/**/*T1w.nii*  T1w images anywhere below a subject directory
  - {anat,func}/*.nii*  alternatives`

const filtersHelp = `Filters (-f, repeatable) are written KIND=VALUE, prefixed with ! to exclude:
  - extension=.nii.gz
  - !dir-prefix=ses-
  - file-regex=sub-0[1-3]
  - exists=*seg*;in={self}../labels
  - exists={self};in=/labels{self};relative-to=/data`

const rootLongDescription = `nfind locates files in dataset trees that satisfy a composable set of
inclusion and exclusion filters. It is tuned for medical imaging datasets
(NIfTI) laid out flat, one directory per subject, or as several datasets
under one root.

` + patternsHelp

const scanLongDescription = `Search every root recursively with one or more patterns and print the
files that pass the filters (default root: current directory).

` + patternsHelp + `

` + filtersHelp

const subjectsLongDescription = `Select subject directories directly under each root with the stage-1
patterns, then search each of them recursively with the stage-2 patterns
(default root: current directory).

` + filtersHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nfind",
		Short: "Find dataset files with composable filters",
		Long:  rootLongDescription,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			configureLogger(logFileFlag, viper.GetBool(logVerboseKey))

			return configErr
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		SilenceUsage: true,
	}
}

func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, "", "log file path (default from log.filename)")

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		stop()
		os.Exit(1)
	}
}

// parseRoots converts arguments into scan roots. No arguments means the
// current directory.
func parseRoots(args []string) []m.Path {
	if len(args) == 0 {
		return []m.Path{"."}
	}

	roots := make([]m.Path, 0, len(args))
	for _, arg := range args {
		roots = append(roots, m.Path(arg))
	}

	return roots
}
