package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/scopebar/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the scopebar version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("scopebar %s\n", version.Get())
	},
}
