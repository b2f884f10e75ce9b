package redisstore

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/battlesnakeio/classic/rules"
	"github.com/battlesnakeio/classic/store"
	"github.com/battlesnakeio/classic/store/testsuite"
	"github.com/dlsteuer/miniredis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	rs     *Store
	server *miniredis.Miniredis
)

func TestMain(m *testing.M) {
	var err error
	server, err = miniredis.Run()
	if err != nil {
		fmt.Println("unable to start miniredis", err)
		os.Exit(1)
	}

	rs, err = NewStore(fmt.Sprintf("redis://%s", server.Addr()))
	if err != nil {
		fmt.Println("unable to connect to miniredis", err)
		os.Exit(1)
	}

	code := m.Run()
	rs.Close()
	server.Close()
	os.Exit(code)
}

func TestRedisStore(t *testing.T) {
	testsuite.Suite(t, rs, func() { server.FlushAll() })
}

func TestNewStoreBadURL(t *testing.T) {
	_, err := NewStore("not a url")
	assert.Error(t, err)
}

func TestCreateGameTwice(t *testing.T) {
	g := store.NewGame()
	require.NoError(t, rs.CreateGame(context.Background(), g))
	require.Equal(t, store.ErrExists, rs.CreateGame(context.Background(), g))
}

func TestFramesLayout(t *testing.T) {
	server.FlushAll()
	ctx := context.Background()
	g := store.NewGame()
	require.NoError(t, rs.CreateGame(ctx, g))
	require.NoError(t, rs.PushGameFrame(ctx, g.ID, &rules.Frame{Turn: 1, Alive: true}))

	require.True(t, server.Exists("game:"+g.ID))
	values, err := server.List("game:" + g.ID + ":frames")
	require.NoError(t, err)
	require.Len(t, values, 1)
}
