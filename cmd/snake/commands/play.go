package commands

import (
	"context"
	"io/ioutil"
	"os"

	"github.com/battlesnakeio/classic/api"
	"github.com/battlesnakeio/classic/config"
	"github.com/battlesnakeio/classic/engine"
	"github.com/battlesnakeio/classic/rules"
	"github.com/battlesnakeio/classic/worker"
	termbox "github.com/nsf/termbox-go"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	playLogFile = ""
	playServe   = false
	playListen  = ""
	playSeed    int64
)

func init() {
	playCmd.Flags().StringVar(&playLogFile, "log-file", playLogFile, "write logs to this file, logs are discarded otherwise")
	playCmd.Flags().BoolVar(&playServe, "serve", playServe, "serve the spectator api while playing")
	playCmd.Flags().StringVarP(&playListen, "listen", "l", playListen, "api address to listen on, defaults to SNAKE_API_ADDR")
	playCmd.Flags().Int64Var(&playSeed, "seed", 0, "food placement seed, defaults to SNAKE_SEED")
	playCmd.Flags().BoolVar(&promEnable, "prometheus", promEnable, "enable prometheus metrics")
	playCmd.Flags().StringVar(&promListen, "prometheus-listen", promListen, "prometheus http endpoint")
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "plays a game in the terminal",
	Run: func(c *cobra.Command, args []string) {
		closeLog, err := setupLog(playLogFile)
		if err != nil {
			log.WithError(err).Fatal("unable to open log file")
		}
		defer closeLog()

		prometheus()
		if err := play(config.Load()); err != nil {
			log.WithError(err).Error("game failed")
			termbox.Close()
			os.Exit(1)
		}
	},
}

// setupLog moves logging off the terminal, which termbox owns while playing.
func setupLog(path string) (func(), error) {
	if path == "" {
		log.SetOutput(ioutil.Discard)
		return func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	log.SetOutput(f)
	log.SetFormatter(&log.JSONFormatter{})
	return func() { f.Close() }, nil
}

func play(settings config.Settings) error {
	s, closeStore, err := openStore(settings)
	if err != nil {
		return err
	}
	defer closeStore()

	if playServe {
		if playListen == "" {
			playListen = settings.APIAddr
		}
		go api.New(playListen, s).WaitForExit()
	}

	seed := settings.Seed
	if playSeed != 0 {
		seed = playSeed
	}

	if err := termbox.Init(); err != nil {
		return errors.Wrap(err, "unable to init terminal")
	}
	defer termbox.Close()

	kb := newKeyboard()
	go kb.listen(setupEventQueue())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-kb.quit
		cancel()
	}()

	screen := terminal{}
	runner := &worker.Runner{
		Engine:   engine.New(rules.NewRandomSpawner(seed)),
		Renderer: screen,
		Input:    kb,
		Store:    s,
		Started: func(id string) {
			log.WithField("game", id).Info("recording game")
		},
	}

	if err := screen.ShowStartScreen(); err != nil {
		return err
	}
	if !kb.waitStart(ctx) {
		return nil
	}
	if err := screen.HideStartScreen(); err != nil {
		return err
	}

	for {
		kb.drain()
		runner.Timer = worker.NewTicker()
		_, err := runner.Run(ctx)
		if errors.Cause(err) == context.Canceled {
			return nil
		}
		if err != nil {
			return err
		}
		if !kb.waitStart(ctx) {
			return nil
		}
	}
}
