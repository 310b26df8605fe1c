package main

import (
	"runtime"

	"github.com/spf13/cobra"
)

// Set with -ldflags "-X main.version=..."
var version = "dev"

type versionInfo struct {
	Version   string `json:"version" yaml:"version"`
	GoVersion string `json:"goVersion" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

func newVersionCmd(output *string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of docctl",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := versionInfo{
				Version:   version,
				GoVersion: runtime.Version(),
				Platform:  runtime.GOOS + "/" + runtime.GOARCH,
			}
			if *output == "" || *output == "table" {
				cmd.Printf("docctl %s (%s, %s)\n", info.Version, info.GoVersion, info.Platform)
				return nil
			}
			return printValue(cmd, *output, info)
		},
	}
}
