package service

import (
	"github.com/sakif/blog-api/internal/apperror"
	"github.com/sakif/blog-api/internal/model"
)

// Action enumerates what an acting user may attempt against a resource.
// There is no update action — the API has no edit endpoints.
type Action int

const (
	ActionCreate Action = iota
	ActionRead
	ActionDelete
)

// Ownable is a resource with a single owning user.
type Ownable interface {
	OwnerID() int64
	SetOwner(userID int64)
}

// Guard is the ownership decision point for posts and comments.
//
// RULES:
//   - create: always allowed for an authenticated user. The guard stamps
//     the resource's owner from the acting user — this is the ONLY place
//     ownership is ever assigned; it never comes from request input.
//   - read/list: always allowed; posts and comments are public to any
//     authenticated user.
//   - delete: allowed only for the owner. A denial is returned as the
//     resource's not-found error, byte-identical to a genuinely absent
//     id, so a caller can't probe which resources exist.
type Guard struct{}

// Authorize applies the rules above. resource names the entity kind
// ("post", "comment") so a denial produces the right not-found message.
func (Guard) Authorize(actor *model.User, res Ownable, action Action, resource string) error {
	switch action {
	case ActionCreate:
		res.SetOwner(actor.ID)
		return nil
	case ActionRead:
		return nil
	case ActionDelete:
		if res.OwnerID() != actor.ID {
			return apperror.NotFound(resource)
		}
		return nil
	}
	return apperror.NotFound(resource)
}
