package main

import (
	"github.com/battlesnakeio/classic/cmd/snake/commands"
	"github.com/battlesnakeio/classic/config"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err == nil {
		log.Debug("loaded .env")
		config.Reload()
	}
	commands.Execute()
}
