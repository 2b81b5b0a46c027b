package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "scopebar-demo",
	Short: "Live terminal rows for concurrent work scopes",
	Long: `scopebar-demo exercises the scopebar display with synthetic
workloads: flat worker pools, nested scope hierarchies, and more workers
than visible slots so the "...and N more not shown above." footer kicks in.

Display settings come from flags, the config file, or SCOPEBAR_*
environment variables, in that order of precedence.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.config/scopebar-demo/config.yaml)")
	rootCmd.PersistentFlags().Uint64("max-shown", 7, "maximum rows shown at once")
	rootCmd.PersistentFlags().Uint8("draw-hz", 20, "terminal redraws per second")
	rootCmd.PersistentFlags().Bool("footer", true, "show the waiting-rows footer")

	cobra.CheckErr(viper.BindPFlag("display.max_shown", rootCmd.PersistentFlags().Lookup("max-shown")))
	cobra.CheckErr(viper.BindPFlag("display.draw_hz", rootCmd.PersistentFlags().Lookup("draw-hz")))
	cobra.CheckErr(viper.BindPFlag("display.footer", rootCmd.PersistentFlags().Lookup("footer")))

	rootCmd.AddCommand(basicCmd)
	rootCmd.AddCommand(hierarchyCmd)
	rootCmd.AddCommand(multithreadCmd)
	rootCmd.AddCommand(scriptCmd)
	rootCmd.AddCommand(versionCmd)
}
