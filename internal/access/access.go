// Package access is the authorization engine: a pure decision function
// mapping (actor, action, resource) to allow or deny. It performs no I/O;
// callers are responsible for distinguishing a denied verdict from a
// missing resource (403 vs 404).
package access

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/models"
	"github.com/google/uuid"
)

// Action is something an actor wants to do.
type Action int

const (
	// ActionRead covers all catalog, review and comment reads. Always allowed,
	// including for anonymous actors.
	ActionRead Action = iota
	// ActionWriteCatalog covers create/update/delete of categories, genres
	// and titles.
	ActionWriteCatalog
	// ActionWriteOwnContent covers creating a review or comment.
	ActionWriteOwnContent
	// ActionMutateContent covers update/delete of an existing review or
	// comment; requires the resource being mutated.
	ActionMutateContent
	// ActionManageUsers covers administration of other users' records.
	ActionManageUsers
)

// Owned is a resource with an owning user.
type Owned interface {
	OwnerID() uuid.UUID
}

// ErrDenied is the deny verdict.
var ErrDenied = errors.New("access denied")

// Authorize returns nil when actor may perform action, ErrDenied otherwise.
// A nil actor is anonymous. resource is consulted only for
// ActionMutateContent and may be nil for every other action.
func Authorize(actor *models.User, action Action, resource Owned) error {
	if action == ActionRead {
		return nil
	}
	if actor == nil {
		return ErrDenied
	}

	switch action {
	case ActionWriteOwnContent:
		return nil
	case ActionWriteCatalog, ActionManageUsers:
		if actor.IsAdmin() {
			return nil
		}
	case ActionMutateContent:
		if actor.IsAdmin() || actor.IsModerator() {
			return nil
		}
		if resource != nil && resource.OwnerID() == actor.ID {
			return nil
		}
	}
	return ErrDenied
}
