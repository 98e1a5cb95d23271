package cmd

import (
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X nfind.dev/pkg/nfind/cmd.version=...".
var version = ""

func buildVersion() (string, string) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return version, ""
	}

	v := version
	if v == "" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		v = info.Main.Version
	}

	return v, info.GoVersion
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the version information",
		Long:  "Displays the build version and Go version used to build nfind.",
		Run: func(cmd *cobra.Command, _ []string) {
			v, goVersion := buildVersion()
			if v == "" {
				cmd.Println("version: unknown")
				return
			}

			cmd.Println("nfind version\t", v)

			if goVersion != "" {
				cmd.Println("go version\t", goVersion)
			}
		},
	}
}

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func init() {
	rootCmd.AddCommand(versionCmd)
}
