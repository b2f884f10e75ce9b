package filestore

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/battlesnakeio/classic/rules"
	"github.com/battlesnakeio/classic/store"
	"github.com/pkg/errors"
)

var openFileReader = func(directory, id string) (io.ReadCloser, error) {
	return os.Open(getFilePath(directory, id))
}

// readLine decodes the next record into out and reports whether more lines
// may follow. An unterminated last line that does not decode is a write cut
// short and is skipped.
func readLine(r *bufio.Reader, out interface{}) (bool, error) {
	line, err := r.ReadBytes('\n')
	eof := err == io.EOF

	if err != nil && !eof {
		return false, err
	}
	if len(bytes.TrimSpace(line)) == 0 {
		return !eof, nil
	}

	if err = json.Unmarshal(line, out); err != nil {
		if eof {
			return false, nil
		}
		return false, err
	}

	return !eof, nil
}

func readArchive(directory, id string) (gameArchive, error) {
	f, err := openFileReader(directory, id)
	if os.IsNotExist(err) {
		return gameArchive{}, store.ErrNotFound
	}
	if err != nil {
		return gameArchive{}, errors.Wrapf(err, "unable to open archive %s", id)
	}
	defer f.Close()

	reader := bufio.NewReader(f)

	header := record{}
	more, err := readLine(reader, &header)
	if err != nil {
		return gameArchive{}, errors.Wrapf(err, "unable to read archive header %s", id)
	}
	if header.Game == nil {
		return gameArchive{}, errors.Errorf("archive %s has no game header", id)
	}

	archive := gameArchive{
		game:   header.Game,
		frames: []*rules.Frame{},
	}
	for more {
		rec := record{}
		more, err = readLine(reader, &rec)
		if err != nil {
			return gameArchive{}, errors.Wrapf(err, "unable to read archive %s", id)
		}
		switch {
		case rec.Frame != nil:
			archive.frames = append(archive.frames, rec.Frame)
		case rec.Status != "":
			archive.game.Status = rec.Status
		}
	}

	return archive, nil
}

// ReadGame loads the game stored in a file with the given id.
func ReadGame(directory, id string) (*store.Game, []*rules.Frame, error) {
	archive, err := readArchive(directory, id)
	if err != nil {
		return nil, nil, err
	}
	return archive.game, archive.frames, nil
}
