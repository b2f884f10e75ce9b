package commands

import (
	"github.com/battlesnakeio/classic/api"
	"github.com/battlesnakeio/classic/config"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveListen string

func init() {
	serveCmd.Flags().StringVarP(&serveListen, "listen", "l", "", "api address to listen on, defaults to SNAKE_API_ADDR")
	serveCmd.Flags().BoolVar(&promEnable, "prometheus", true, "enable prometheus metrics")
	serveCmd.Flags().StringVar(&promListen, "prometheus-listen", promListen, "prometheus http endpoint")
}

var serveCmd = &cobra.Command{
	Use:    "serve",
	Short:  "serves recorded games to spectators",
	PreRun: func(c *cobra.Command, args []string) { prometheus() },
	Run: func(c *cobra.Command, args []string) {
		settings := config.Load()
		if serveListen == "" {
			serveListen = settings.APIAddr
		}

		s, closeStore, err := openStore(settings)
		if err != nil {
			log.WithError(err).Fatal("unable to start up backend store")
		}
		defer closeStore()

		api.New(serveListen, s).WaitForExit()
	},
}
