package identity

import (
	"context"
	"errors"
	"sync"

	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
)

var ErrInvalidActor = errors.New("actor needs an id, a known role, and a known status")

// Directory is a thread-safe in-memory identity provider.
type Directory struct {
	mu     sync.RWMutex
	actors map[string]core.Actor
}

func NewDirectory(actors ...core.Actor) (*Directory, error) {
	d := &Directory{actors: make(map[string]core.Actor, len(actors))}

	for _, actor := range actors {
		if err := d.Put(context.Background(), actor); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// Put adds or replaces an actor.
func (d *Directory) Put(_ context.Context, actor core.Actor) error {
	if err := validate(actor); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.actors[actor.ID] = actor

	return nil
}

func (d *Directory) Actor(_ context.Context, actorID string) (core.Actor, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.actors[actorID], nil
}

func validate(actor core.Actor) error {
	if actor.ID == "" {
		return ErrInvalidActor
	}

	switch actor.Role {
	case core.RoleStudent, core.RoleGuard, core.RoleAdmin:
	default:
		return ErrInvalidActor
	}

	switch actor.Status {
	case core.ActorActive, core.ActorDisabled:
	default:
		return ErrInvalidActor
	}

	return nil
}
