package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "shopchat",
	Short: "ShopChat is a multi-agent e-commerce shopping assistant",
	Long: `ShopChat answers product questions by routing each query through a team of
specialized agents: context lookup, query analysis, product search over Amazon
and Walmart, response formatting and conversation logging.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("env-file", ".env", "Environment file to load configuration from")
}
