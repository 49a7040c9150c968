package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"serex/pkg/contracts"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print detailed version information including Git commit and build time.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(contracts.GetFullVersionString())
		fmt.Printf("Git Commit: %s\n", contracts.GitCommit)
		fmt.Printf("Build Time: %s\n", contracts.BuildTime)
		fmt.Printf("Go Version: %s\n", runtime.Version())
		fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
