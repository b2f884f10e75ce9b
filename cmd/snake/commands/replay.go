package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/battlesnakeio/classic/api"
	"github.com/battlesnakeio/classic/rules"
	"github.com/battlesnakeio/classic/store/filestore"
	"github.com/gorilla/websocket"
	termbox "github.com/nsf/termbox-go"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const replaySpeed = rules.TickInterval * 2

var replayDir string

func init() {
	replayCmd.Flags().StringVarP(&gameID, "game-id", "g", "", "the game id of the game to replay")
	replayCmd.Flags().StringVar(&replayDir, "dir", "", "replay from a local games directory instead of the api")
}

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "replays a recorded game",
	Args: func(c *cobra.Command, args []string) error {
		if len(gameID) == 0 {
			return errors.New("game id is required")
		}
		return nil
	},
	Run: func(*cobra.Command, []string) {
		replayGame()
	},
}

func moveFrameForwards(frameIndex int, frames *frameHolder) (int, *rules.Frame, bool) {
	frameIndex++
	if frameIndex >= frames.count() {
		return frameIndex, nil, true
	}
	return frameIndex, frames.get(frameIndex), false
}

func moveFrameBackwards(frameIndex int, frames *frameHolder) (int, *rules.Frame) {
	frameIndex--
	if frameIndex <= 0 {
		frameIndex = 0
	}
	return frameIndex, frames.get(frameIndex)
}

func loadArchive() (*frameHolder, error) {
	_, recorded, err := filestore.ReadGame(replayDir, gameID)
	if err != nil {
		return nil, err
	}
	frames := &frameHolder{}
	for _, f := range recorded {
		frames.append(f)
	}
	return frames, nil
}

func loadGame() (*frameHolder, error) {
	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	resp, err := client.Get(fmt.Sprintf("%s/games/%s", apiAddr, gameID))
	if err != nil {
		return nil, err
	}
	s := &api.StatusResponse{}
	err = json.NewDecoder(resp.Body).Decode(s)
	if cerr := resp.Body.Close(); cerr != nil {
		log.WithError(cerr).Warn("error while closing body")
	}
	if err != nil {
		return nil, err
	}
	log.WithField("status", s.Game.Status).Info("replaying game")

	frames := &frameHolder{}

	u := url.URL{Scheme: "ws", Host: strings.Replace(apiAddr, "http://", "", 1), Path: fmt.Sprintf("/socket/%s", gameID)}
	log.Infof("connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, err
	}

	go func() {
		defer func() {
			if err := c.Close(); err != nil {
				log.WithError(err).Warn("failure to close websocket connection")
			}
		}()

		for {
			mt, message, err := c.ReadMessage()
			if err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
					log.WithError(err).Warn("read")
				}
				return
			}

			switch mt {
			case websocket.TextMessage:
				frame := &rules.Frame{}
				err = json.Unmarshal(message, frame)
				if err != nil {
					log.WithError(err).Warn("unmarshal frame")
					return
				}

				frames.append(frame)
			default:
				log.WithField("type", mt).Warn("unhandled message type")
			}
		}
	}()

	return frames, nil
}

func replayGame() {
	var (
		frames *frameHolder
		err    error
	)
	if replayDir != "" {
		frames, err = loadArchive()
	} else {
		frames, err = loadGame()
	}
	if err != nil {
		log.WithError(err).WithField("game", gameID).Fatal("unable to load game")
	}

	currentFrame, err := getInitialFrame(frames)
	if err != nil {
		log.WithError(err).WithField("game", gameID).Fatal("unable to load game")
	}

	if err = termbox.Init(); err != nil {
		panic(err)
	}
	defer termbox.Close()

	eventQueue := setupEventQueue()

	cycle := time.NewTicker(replaySpeed)
	frameIndex := 0
	paused := false
	done := false

	for !done {
		select {
		case ev := <-eventQueue:
			if ev.Type == termbox.EventKey {
				switch ev.Key {
				case termbox.KeyEsc, termbox.KeyCtrlC:
					done = true
				case termbox.KeySpace:
					paused = !paused
				case termbox.KeyArrowLeft:
					paused = true
					frameIndex, currentFrame = moveFrameBackwards(frameIndex, frames)
					if err = render(currentFrame); err != nil {
						panic(err)
					}
				case termbox.KeyArrowRight:
					paused = true
					frameIndex, currentFrame, done = moveFrameForwards(frameIndex, frames)
					if !done {
						if err = render(currentFrame); err != nil {
							panic(err)
						}
					}
				}
			}
		case <-cycle.C:
			if paused {
				continue
			}
			if err = render(currentFrame); err != nil {
				panic(err)
			}
			frameIndex, currentFrame, done = moveFrameForwards(frameIndex, frames)
		}
	}
	cycle.Stop()

	if frameIndex >= frames.count() {
		tbprint(0, 0, defaultColor, defaultColor, "Press any key to exit...")
		if err = termbox.Flush(); err != nil {
			log.WithError(err).Fatal("error while flushing termbox")
		}
		termbox.PollEvent()
	}
}

func getInitialFrame(frames *frameHolder) (*rules.Frame, error) {
	select {
	case f := <-frames.initialFrame():
		return f, nil
	case <-time.After(time.Second):
		return nil, errors.New("unable to find initial frame for game")
	}
}
