package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"nfind.dev/pkg/nfind/internal/controller"
	"nfind.dev/pkg/nfind/internal/domain"
)

var (
	stage1Flag   []string
	stage2Flag   []string
	progressFlag bool
)

// subjectsCmd represents the subjects command.
var subjectsCmd = newSubjectsCmd()

func newSubjectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subjects [roots...]",
		Short: "Search subject directories for NIfTI files",
		Long:  subjectsLongDescription,
		PreRun: func(cmd *cobra.Command, _ []string) {
			bindFlagToConfig(cmd.Flags().Lookup(stage1FlagName), subjectsStage1Key)
			bindFlagToConfig(cmd.Flags().Lookup(stage2FlagName), subjectsStage2Key)
			bindFlagToConfig(cmd.Flags().Lookup(progressFlagName), subjectsProgressKey)
			bindQueryFlags(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := filterOptions()
			if err != nil {
				return err
			}

			// Bars from concurrent roots would overwrite each other.
			showProgress := viper.GetBool(subjectsProgressKey) && viper.GetInt(runParallelKey) <= 1

			explorer, err := domain.NewNiftiExplorer(append(opts,
				domain.WithStage1Patterns(viper.GetStringSlice(subjectsStage1Key)...),
				domain.WithStage2Patterns(viper.GetStringSlice(subjectsStage2Key)...),
				domain.WithProgress(controller.NewProgress(cmd.ErrOrStderr(), showProgress)),
			)...)
			if err != nil {
				return err
			}

			return runQuery(cmd, explorer, args)
		},
	}

	cmd.Flags().StringArrayVar(&stage1Flag, stage1FlagName, viper.GetStringSlice(subjectsStage1Key), "pattern selecting subject directories under each root (can be repeated)")
	cmd.Flags().StringArrayVar(&stage2Flag, stage2FlagName, viper.GetStringSlice(subjectsStage2Key), "recursive pattern searched inside each subject (can be repeated)")
	cmd.Flags().BoolVar(&progressFlag, progressFlagName, viper.GetBool(subjectsProgressKey), "show progress over subject directories")
	configureQueryFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(subjectsCmd)
}
