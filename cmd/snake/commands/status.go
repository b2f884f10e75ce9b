package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/battlesnakeio/classic/api"
	"github.com/davecgh/go-spew/spew"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "gets the status of a recorded game from the api",
	Args: func(c *cobra.Command, args []string) error {
		if len(gameID) == 0 {
			return errors.New("game id is required")
		}
		return nil
	},
	Run: func(*cobra.Command, []string) {
		spew.Dump(getStatus(gameID))
	},
}

func init() {
	statusCmd.Flags().StringVarP(&gameID, "game-id", "g", "", "the game id of the game to get the status of")
}

func getStatus(id string) *api.StatusResponse {
	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	resp, err := client.Get(fmt.Sprintf("%s/games/%s", apiAddr, id))
	if err != nil {
		fmt.Println("error while getting status", err)
		return nil
	}
	defer resp.Body.Close()

	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		fmt.Println("unable to read response body", err)
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("status request failed (%d): %s", resp.StatusCode, data)
		return nil
	}

	sr := &api.StatusResponse{}
	err = json.Unmarshal(data, sr)
	if err != nil {
		log.WithFields(log.Fields{
			"resp": string(data),
			"id":   id,
		}).Info("unable to unmarshal status response")
		return nil
	}

	return sr
}
