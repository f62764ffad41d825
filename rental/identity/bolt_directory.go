package identity

import (
	"context"
	"errors"
	"time"

	"github.com/boltdb/bolt"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
)

const actorsBucket = "actors"

var ErrReadingActorFailed = errors.New("reading actor failed")

// BoltDirectory persists actors in a single boltdb file.
type BoltDirectory struct {
	db *bolt.DB
}

// OpenBoltDirectory opens or creates the database file at path and makes sure the actors bucket exists.
func OpenBoltDirectory(path string) (*BoltDirectory, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, createErr := tx.CreateBucketIfNotExists([]byte(actorsBucket))
		return createErr
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &BoltDirectory{db: db}, nil
}

func (d *BoltDirectory) Close() error {
	return d.db.Close()
}

// Put adds or replaces an actor.
func (d *BoltDirectory) Put(_ context.Context, actor core.Actor) error {
	if err := validate(actor); err != nil {
		return err
	}

	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(actor)
	if err != nil {
		return err
	}

	return d.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(actorsBucket)).Put([]byte(actor.ID), data)
	})
}

func (d *BoltDirectory) Actor(ctx context.Context, actorID string) (core.Actor, error) {
	if err := ctx.Err(); err != nil {
		return core.Actor{}, errors.Join(ErrReadingActorFailed, err)
	}

	var actor core.Actor

	err := d.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(actorsBucket)).Get([]byte(actorID))
		if data == nil {
			return nil
		}

		return jsoniter.ConfigFastest.Unmarshal(data, &actor)
	})
	if err != nil {
		return core.Actor{}, errors.Join(ErrReadingActorFailed, err)
	}

	return actor, nil
}
