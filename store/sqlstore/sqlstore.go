// Package sqlstore is a postgres backed store.Store.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/battlesnakeio/classic/config"
	"github.com/battlesnakeio/classic/rules"
	"github.com/battlesnakeio/classic/store"
	"github.com/lib/pq" // Registers the postgres driver.
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const migrations = `
CREATE TABLE IF NOT EXISTS games (
	id VARCHAR(255) PRIMARY KEY,
	value jsonb,
	created timestamp default now()
);
CREATE TABLE IF NOT EXISTS game_frames (
	id VARCHAR(255),
	seq BIGSERIAL,
	turn INTEGER,
	value jsonb,
	PRIMARY KEY (id, seq)
);
`

// uniqueViolation is the postgres error code for a duplicate key.
const uniqueViolation = "23505"

// NewSQLStore returns a new store using a postgres database.
func NewSQLStore(url string) (*Store, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, errors.Wrap(err, "unable to open database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	if err = db.PingContext(ctx); err != nil {
		return nil, errors.Wrap(err, "unable to reach database")
	}

	_, err = db.ExecContext(ctx, migrations)
	if err != nil {
		return nil, errors.Wrap(err, "unable to migrate database")
	}
	return &Store{db: db}, nil
}

// Store represents an SQL store.
type Store struct {
	db *sql.DB
}

// Close closes the database pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// transact is a transaction wrapper, helps avoid failed to close connections.
func (s *Store) transact(
	ctx context.Context, txFunc func(*sql.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return
	}
	defer func() {
		if p := recover(); p != nil {
			if rErr := tx.Rollback(); rErr != nil {
				log.WithError(rErr).Error("rollback failed")
			}
			panic(p) // re-throw panic after Rollback
		} else if err != nil {
			// err is non-nil; don't change it
			if rErr := tx.Rollback(); rErr != nil {
				log.WithError(rErr).Error("rollback failed")
			}
		} else {
			err = tx.Commit() // err is nil; if Commit returns error update err
		}
	}()
	err = txFunc(tx)
	return err
}

// SetGameStatus is used to set a specific game status. This operation
// is atomic.
func (s *Store) SetGameStatus(
	ctx context.Context, id string, status rules.GameStatus) error {
	return s.transact(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE games SET value = jsonb_set(value, '{status}', to_jsonb($2::text)) WHERE id = $1`,
			id, string(status),
		)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}

// CreateGame will insert a game without frames.
func (s *Store) CreateGame(ctx context.Context, g *store.Game) error {
	data, err := json.Marshal(g)
	if err != nil {
		return errors.Wrap(err, "unable to marshal game")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO games (id, value, created) VALUES ($1, $2, $3)`,
		g.ID, data, g.Created,
	)
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
		return store.ErrExists
	}
	return err
}

// PushGameFrame will push a game frame onto the list of frames.
func (s *Store) PushGameFrame(
	ctx context.Context, id string, f *rules.Frame) error {
	data, err := json.Marshal(f)
	if err != nil {
		return errors.Wrap(err, "unable to marshal frame")
	}
	return s.transact(ctx, func(tx *sql.Tx) error {
		if err := requireGame(ctx, tx, id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO game_frames (id, turn, value) VALUES ($1, $2, $3)`,
			id, f.Turn, data,
		)
		return err
	})
}

// ListGameFrames will list frames by an offset and limit, it supports
// negative offset.
func (s *Store) ListGameFrames(ctx context.Context, id string, limit, offset int) ([]*rules.Frame, error) {
	var frames []*rules.Frame
	err := s.transact(ctx, func(tx *sql.Tx) error {
		if err := requireGame(ctx, tx, id); err != nil {
			return err
		}

		var total int
		r := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM game_frames WHERE id=$1`, id)
		if err := r.Scan(&total); err != nil {
			return err
		}
		start, end, ok := store.Window(total, limit, offset)
		if !ok {
			return nil
		}

		rows, err := tx.QueryContext(ctx,
			`SELECT value FROM game_frames WHERE id=$1 ORDER BY seq ASC LIMIT $2 OFFSET $3`,
			id, end-start, start,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var data []byte
			if err := rows.Scan(&data); err != nil {
				return err
			}
			frame := &rules.Frame{}
			if err := json.Unmarshal(data, frame); err != nil {
				return err
			}
			frames = append(frames, frame)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return frames, nil
}

// GetGame will fetch the game.
func (s *Store) GetGame(c context.Context, id string) (*store.Game, error) {
	r := s.db.QueryRowContext(c, "SELECT value FROM games WHERE id=$1", id)

	var data []byte
	if err := r.Scan(&data); err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrNotFound
		}
		return nil, err
	}

	g := &store.Game{}
	if err := json.Unmarshal(data, g); err != nil {
		return nil, err
	}
	return g, nil
}

func requireGame(ctx context.Context, tx *sql.Tx, id string) error {
	var found string
	r := tx.QueryRowContext(ctx, "SELECT id FROM games WHERE id=$1", id)
	if err := r.Scan(&found); err != nil {
		if err == sql.ErrNoRows {
			return store.ErrNotFound
		}
		return err
	}
	return nil
}
