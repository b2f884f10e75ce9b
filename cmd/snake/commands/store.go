package commands

import (
	"io"

	"github.com/battlesnakeio/classic/config"
	"github.com/battlesnakeio/classic/store"
	"github.com/battlesnakeio/classic/store/filestore"
	"github.com/battlesnakeio/classic/store/redisstore"
	"github.com/battlesnakeio/classic/store/sqlstore"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// openStore builds the recording backend named by the settings. The returned
// func releases it and is never nil.
func openStore(settings config.Settings) (store.Store, func(), error) {
	var (
		s   store.Store
		err error
	)
	switch settings.Store {
	case config.StoreInMem:
		s = store.InMemStore()
	case config.StoreFile:
		s = filestore.NewFileStore(settings.GamesDir)
	case config.StoreRedis:
		s, err = redisstore.NewStore(settings.StoreURL)
	case config.StorePostgres:
		s, err = sqlstore.NewSQLStore(settings.StoreURL)
	default:
		err = errors.Errorf("invalid store %q", settings.Store)
	}
	if err != nil {
		return nil, func() {}, errors.Wrapf(err, "unable to open %s store", settings.Store)
	}

	closer := func() {}
	if c, ok := s.(io.Closer); ok {
		closer = func() {
			if err := c.Close(); err != nil {
				log.WithError(err).Error("unable to close store")
			}
		}
	}
	log.WithField("store", settings.Store).Info("store ready")
	return store.InstrumentStore(s), closer, nil
}
