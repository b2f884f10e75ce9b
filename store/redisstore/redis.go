// Package redisstore keeps games in redis: one JSON value per game and one
// list of JSON frames per game.
package redisstore

import (
	"context"
	"encoding/json"

	"github.com/battlesnakeio/classic/rules"
	"github.com/battlesnakeio/classic/store"
	"github.com/go-redis/redis"
	"github.com/pkg/errors"
)

// Store is a redis backed store.Store.
type Store struct {
	client *redis.Client
}

// NewStore will create a new instance of an underlying redis client, so it should not be re-created across "threads"
// - connectURL see: github.com/go-redis/redis/options.go for URL specifics
// The underlying redis client will be immediately tested for connectivity, so don't call this until you know redis can connect.
// Returns a new instance OR an error if unable (meaning an issue connecting to your redis URL)
func NewStore(connectURL string) (*Store, error) {
	o, err := redis.ParseURL(connectURL)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse redis URL")
	}

	client := redis.NewClient(o)

	// Validate it's connected
	err = client.Ping().Err()
	if err != nil {
		return nil, errors.Wrap(err, "unable to connect")
	}

	return &Store{client: client}, nil
}

// Close releases the underlying client.
func (rs *Store) Close() error {
	return rs.client.Close()
}

func gameKey(id string) string   { return "game:" + id }
func framesKey(id string) string { return "game:" + id + ":frames" }

// CreateGame will insert a game without frames.
func (rs *Store) CreateGame(c context.Context, g *store.Game) error {
	data, err := json.Marshal(g)
	if err != nil {
		return errors.Wrap(err, "unable to marshal game")
	}
	ok, err := rs.client.SetNX(gameKey(g.ID), data, 0).Result()
	if err != nil {
		return errors.Wrap(err, "unable to create game")
	}
	if !ok {
		return store.ErrExists
	}
	return nil
}

// SetGameStatus is used to set a specific game status.
func (rs *Store) SetGameStatus(c context.Context, id string, status rules.GameStatus) error {
	g, err := rs.GetGame(c, id)
	if err != nil {
		return err
	}
	g.Status = status
	data, err := json.Marshal(g)
	if err != nil {
		return errors.Wrap(err, "unable to marshal game")
	}
	return errors.Wrap(rs.client.Set(gameKey(id), data, 0).Err(), "unable to set game status")
}

// PushGameFrame will push a game frame onto the list of frames.
func (rs *Store) PushGameFrame(c context.Context, id string, f *rules.Frame) error {
	if err := rs.requireGame(id); err != nil {
		return err
	}
	data, err := json.Marshal(f)
	if err != nil {
		return errors.Wrap(err, "unable to marshal frame")
	}
	return errors.Wrap(rs.client.RPush(framesKey(id), data).Err(), "unable to push frame")
}

// ListGameFrames will list frames by an offset and limit, it supports
// negative offset.
func (rs *Store) ListGameFrames(c context.Context, id string, limit, offset int) ([]*rules.Frame, error) {
	if err := rs.requireGame(id); err != nil {
		return nil, err
	}
	total, err := rs.client.LLen(framesKey(id)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "unable to count frames")
	}
	start, end, ok := store.Window(int(total), limit, offset)
	if !ok {
		return nil, nil
	}

	values, err := rs.client.LRange(framesKey(id), int64(start), int64(end-1)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "unable to list frames")
	}
	frames := make([]*rules.Frame, 0, len(values))
	for _, v := range values {
		f := &rules.Frame{}
		if err := json.Unmarshal([]byte(v), f); err != nil {
			return nil, errors.Wrap(err, "unable to unmarshal frame")
		}
		frames = append(frames, f)
	}
	return frames, nil
}

// GetGame will fetch the game.
func (rs *Store) GetGame(c context.Context, id string) (*store.Game, error) {
	data, err := rs.client.Get(gameKey(id)).Bytes()
	if err == redis.Nil {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "unable to get game")
	}
	g := &store.Game{}
	if err := json.Unmarshal(data, g); err != nil {
		return nil, errors.Wrap(err, "unable to unmarshal game")
	}
	return g, nil
}

func (rs *Store) requireGame(id string) error {
	n, err := rs.client.Exists(gameKey(id)).Result()
	if err != nil {
		return errors.Wrap(err, "unable to check game")
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
