package filestore

import (
	"context"
	"errors"
	"io/ioutil"
	"os"
	"strings"
	"testing"

	"github.com/battlesnakeio/classic/rules"
	"github.com/battlesnakeio/classic/store"
	"github.com/battlesnakeio/classic/store/testsuite"
	"github.com/stretchr/testify/require"
)

type mockWriter struct {
	lines  []string
	closed bool
	err    error
}

func (w *mockWriter) WriteString(s string) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	w.lines = append(w.lines, s)
	return len(s), nil
}

func (w *mockWriter) Close() error {
	w.closed = true
	return nil
}

func tempDir(t *testing.T) string {
	dir, err := ioutil.TempDir("", "snake-filestore")
	require.NoError(t, err)
	return dir
}

func withWriter(t *testing.T, w writer) func() {
	previous := openFileWriter
	openFileWriter = func(directory, id string, mustCreate bool) (writer, error) {
		return w, nil
	}
	return func() { openFileWriter = previous }
}

func TestFileStoreSuite(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)

	testsuite.Suite(t, NewFileStore(dir), func() {})
}

func TestFileStoreReadsBackFromDisk(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)
	ctx := context.Background()

	fs := NewFileStore(dir)
	g := store.NewGame()
	require.NoError(t, fs.CreateGame(ctx, g))

	first := &rules.Frame{Turn: 1, Snake: rules.Snake{{X: 320, Y: 320}}, Alive: true}
	last := &rules.Frame{
		Turn:  2,
		Snake: rules.Snake{{X: 352, Y: 320}},
		Death: &rules.Death{Turn: 2, Cause: rules.DeathCauseWallCollision},
	}
	require.NoError(t, fs.PushGameFrame(ctx, g.ID, first))
	require.NoError(t, fs.PushGameFrame(ctx, g.ID, last))
	require.NoError(t, fs.SetGameStatus(ctx, g.ID, rules.GameStatusComplete))

	game, frames, err := ReadGame(dir, g.ID)
	require.NoError(t, err)
	require.Equal(t, g.ID, game.ID)
	require.Equal(t, rules.GameStatusComplete, game.Status)
	require.Equal(t, []*rules.Frame{first, last}, frames)

	// A second store over the same directory sees the same game.
	other := NewFileStore(dir)
	fetched, err := other.GetGame(ctx, g.ID)
	require.NoError(t, err)
	require.Equal(t, rules.GameStatusComplete, fetched.Status)
}

func TestCreateGameTwice(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)

	g := store.NewGame()
	require.NoError(t, NewFileStore(dir).CreateGame(context.Background(), g))
	require.Equal(t, store.ErrExists, NewFileStore(dir).CreateGame(context.Background(), g))
}

func TestCreateGameHandlesWriteError(t *testing.T) {
	w := &mockWriter{err: errors.New("fail")}
	defer withWriter(t, w)()

	err := NewFileStore("unused").CreateGame(context.Background(), store.NewGame())
	require.NotNil(t, err)
}

func TestCreateGameHandlesOpenFileError(t *testing.T) {
	previous := openFileWriter
	defer func() { openFileWriter = previous }()
	openFileWriter = func(directory, id string, mustCreate bool) (writer, error) {
		return nil, errors.New("fail")
	}

	err := NewFileStore("unused").CreateGame(context.Background(), store.NewGame())
	require.NotNil(t, err)
}

func TestSetGameStatusClosesWriter(t *testing.T) {
	w := &mockWriter{}
	defer withWriter(t, w)()
	ctx := context.Background()

	fs := NewFileStore("unused")
	g := store.NewGame()
	require.NoError(t, fs.CreateGame(ctx, g))
	require.NoError(t, fs.PushGameFrame(ctx, g.ID, &rules.Frame{Turn: 1, Alive: true}))
	require.NoError(t, fs.SetGameStatus(ctx, g.ID, rules.GameStatusComplete))

	require.True(t, w.closed)
	require.Len(t, w.lines, 3)
	require.True(t, strings.HasPrefix(w.lines[0], `{"game":`))
	require.True(t, strings.HasPrefix(w.lines[1], `{"frame":`))
	require.Equal(t, "{\"status\":\"complete\"}\n", w.lines[2])
}

func TestReadArchiveWithoutHeader(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)

	err := ioutil.WriteFile(getFilePath(dir, "broken"), []byte("{\"status\":\"running\"}\n"), 0644)
	require.NoError(t, err)

	_, _, err = ReadGame(dir, "broken")
	require.Error(t, err)
}

func TestReadArchiveMissing(t *testing.T) {
	_, _, err := ReadGame(tempDir(t), "missing")
	require.Equal(t, store.ErrNotFound, err)
}

func TestReadArchiveSkipsTruncatedLastLine(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)
	ctx := context.Background()

	fs := NewFileStore(dir)
	g := store.NewGame()
	require.NoError(t, fs.CreateGame(ctx, g))
	first := &rules.Frame{Turn: 1, Snake: rules.Snake{{X: 320, Y: 320}}, Alive: true}
	require.NoError(t, fs.PushGameFrame(ctx, g.ID, first))

	f, err := os.OpenFile(getFilePath(dir, g.ID), os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString(`{"frame":{"turn":2,"snake":[{"x":35`)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	game, frames, err := ReadGame(dir, g.ID)
	require.NoError(t, err)
	require.Equal(t, g.ID, game.ID)
	require.Equal(t, []*rules.Frame{first}, frames)
}

func TestReadArchiveCorruptMiddleLine(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)

	content := "{\"game\":{\"id\":\"corrupt\",\"status\":\"running\"}}\n" +
		"{\"frame\":{\"turn\n" +
		"{\"status\":\"complete\"}\n"
	require.NoError(t, ioutil.WriteFile(getFilePath(dir, "corrupt"), []byte(content), 0644))

	_, _, err := ReadGame(dir, "corrupt")
	require.Error(t, err)
}
