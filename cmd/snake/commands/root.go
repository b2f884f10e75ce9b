package commands

import (
	"fmt"
	"os"

	"github.com/battlesnakeio/classic/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:     "snake",
	Short:   "snake plays the classic arcade game in the terminal",
	Version: version.Version,
	Run: func(c *cobra.Command, args []string) {
		playCmd.Run(c, args)
	},
}

var (
	apiAddr string
	gameID  string
)

// Execute runs the root command
func Execute() {
	rootCmd.PersistentFlags().StringVar(&apiAddr, "api-addr", "http://localhost:3005", "address of the api server")
	rootCmd.Flags().AddFlagSet(playCmd.Flags())

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(serveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
