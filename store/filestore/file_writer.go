package filestore

import (
	"encoding/json"
	"os"

	"github.com/battlesnakeio/classic/rules"
	"github.com/battlesnakeio/classic/store"
	"github.com/pkg/errors"
)

var openFileWriter = appendOnlyFileWriter

type writer interface {
	WriteString(s string) (int, error)
	Close() error
}

// record is one line of an archive. Exactly one field is set.
type record struct {
	Game   *store.Game      `json:"game,omitempty"`
	Frame  *rules.Frame     `json:"frame,omitempty"`
	Status rules.GameStatus `json:"status,omitempty"`
}

func requireSaveDir(directory string) error {
	return os.MkdirAll(directory, 0775)
}

func writeLine(w writer, data interface{}) error {
	j, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = w.WriteString(string(j) + "\n")
	return errors.Wrap(err, "unable to write archive line")
}

func writeFrame(w writer, f *rules.Frame) error {
	return writeLine(w, &record{Frame: f})
}

func writeGameInfo(w writer, game *store.Game) error {
	return writeLine(w, &record{Game: game})
}

func writeStatus(w writer, status rules.GameStatus) error {
	return writeLine(w, &record{Status: status})
}

func appendOnlyFileWriter(directory, id string, mustCreate bool) (writer, error) {
	if err := requireSaveDir(directory); err != nil {
		return nil, errors.Wrapf(err, "unable to create %s", directory)
	}

	path := getFilePath(directory, id)
	flags := os.O_APPEND | os.O_WRONLY | os.O_CREATE
	if mustCreate {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0644)
	if os.IsExist(err) {
		return nil, store.ErrExists
	}
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open %s", path)
	}
	return f, nil
}
