// Package filestore keeps one append-only archive file per game. Running
// games are cached in memory, finished ones are read back from disk on
// demand.
package filestore

import (
	"context"
	"os/user"
	"path"
	"sync"

	"github.com/battlesnakeio/classic/rules"
	"github.com/battlesnakeio/classic/store"
	log "github.com/sirupsen/logrus"
)

func defaultDir() string {
	return path.Join(homeDir(), ".snake/games")
}

func homeDir() string {
	usr, err := user.Current()
	if err != nil {
		return "."
	}
	return usr.HomeDir
}

// NewFileStore returns a file based store implementation (1 file per game).
func NewFileStore(directory string) store.Store {
	if directory == "" {
		directory = defaultDir()
	}

	return &fileStore{
		games:     map[string]*store.Game{},
		frames:    map[string][]*rules.Frame{},
		writers:   map[string]writer{},
		directory: directory,
	}
}

type fileStore struct {
	games     map[string]*store.Game
	frames    map[string][]*rules.Frame
	writers   map[string]writer
	lock      sync.Mutex
	directory string
}

// closeGame removes the game from in-memory cache and closes the handle to its
// file. Should be called when game is complete.
func (fs *fileStore) closeGame(id string) {
	if w, ok := fs.writers[id]; ok {
		err := w.Close()
		if err != nil {
			log.WithError(err).WithField("game", id).Error("Error while closing file writer")
		}
	}
	delete(fs.games, id)
	delete(fs.frames, id)
	delete(fs.writers, id)
}

func (fs *fileStore) CreateGame(ctx context.Context, g *store.Game) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if _, ok := fs.games[g.ID]; ok {
		return store.ErrExists
	}

	handle, err := fs.requireHandle(g.ID, true)
	if err != nil {
		return err
	}
	if err := writeGameInfo(handle, g); err != nil {
		return err
	}

	clone := *g
	fs.games[g.ID] = &clone
	fs.frames[g.ID] = []*rules.Frame{}
	return nil
}

func (fs *fileStore) SetGameStatus(ctx context.Context, id string, status rules.GameStatus) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	game, err := fs.requireGame(id)
	if err != nil {
		return err
	}
	handle, err := fs.requireHandle(id, false)
	if err != nil {
		return err
	}
	if err := writeStatus(handle, status); err != nil {
		return err
	}

	game.Status = status
	if status != rules.GameStatusRunning {
		fs.closeGame(id)
	}
	return nil
}

func (fs *fileStore) PushGameFrame(ctx context.Context, id string, f *rules.Frame) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if _, err := fs.requireGame(id); err != nil {
		return err
	}
	handle, err := fs.requireHandle(id, false)
	if err != nil {
		return err
	}
	if err := writeFrame(handle, f); err != nil {
		return err
	}

	fs.frames[id] = append(fs.frames[id], f.Clone())
	return nil
}

func (fs *fileStore) ListGameFrames(ctx context.Context, id string, limit, offset int) ([]*rules.Frame, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if _, err := fs.requireGame(id); err != nil {
		return nil, err
	}
	frames := fs.frames[id]

	start, end, ok := store.Window(len(frames), limit, offset)
	if !ok {
		return nil, nil
	}
	out := make([]*rules.Frame, 0, end-start)
	for _, f := range frames[start:end] {
		out = append(out, f.Clone())
	}
	return out, nil
}

func (fs *fileStore) GetGame(ctx context.Context, id string) (*store.Game, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	g, err := fs.requireGame(id)
	if err != nil {
		return nil, err
	}

	// Clone the game, since this could be modified after this is returned
	// and upset internal state inside the store.
	clone := *g
	return &clone, nil
}

func (fs *fileStore) requireHandle(id string, mustBeNew bool) (writer, error) {
	if w, ok := fs.writers[id]; ok {
		return w, nil
	}

	handle, err := openFileWriter(fs.directory, id, mustBeNew)
	if err != nil {
		return nil, err
	}

	fs.writers[id] = handle
	return handle, nil
}

// requireGame loads the game and its frames from disk unless cached.
func (fs *fileStore) requireGame(id string) (*store.Game, error) {
	if g, ok := fs.games[id]; ok {
		return g, nil
	}

	archive, err := readArchive(fs.directory, id)
	if err != nil {
		return nil, err
	}

	fs.games[id] = archive.game
	fs.frames[id] = archive.frames
	return archive.game, nil
}

type gameArchive struct {
	game   *store.Game
	frames []*rules.Frame
}

func getFilePath(directory string, id string) string {
	return path.Join(directory, id) + ".snake"
}
