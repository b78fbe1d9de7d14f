// Package drafts stores temporary site drafts and turns them into site
// configurations.
package drafts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-site-configurator/internal/domain"
)

var (
	ErrDraftRequired   = errors.New("drafts: draft is required")
	ErrDraftIDRequired = errors.New("drafts: draft id is required")
	ErrMutateRequired  = errors.New("drafts: update function is required")
)

// NotFoundError reports a missing or expired draft.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	resource := e.Resource
	if resource == "" {
		resource = "draft"
	}
	return fmt.Sprintf("%s %q not found", resource, e.Key)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// Store persists drafts. Reads never return expired drafts.
type Store interface {
	SaveDraft(ctx context.Context, draft *domain.Draft) error
	GetDraft(ctx context.Context, id string) (*domain.Draft, error)
	// UpdateDraft applies mutate to the stored draft; concurrent updates are
	// last write wins.
	UpdateDraft(ctx context.Context, id string, mutate func(*domain.Draft) error) (*domain.Draft, error)
	DeleteDraft(ctx context.Context, id string) (bool, error)
	GetAllDrafts(ctx context.Context) ([]*domain.Draft, error)
	CleanupExpiredDrafts(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
}

// StoreOptions are shared by the store implementations.
type StoreOptions struct {
	TTL          time.Duration
	ExtendOnRead bool
	Now          func() time.Time
}

func (o StoreOptions) now() time.Time {
	if o.Now != nil {
		return o.Now().UTC()
	}
	return time.Now().UTC()
}

// touch moves the expiry to now+TTL.
func (o StoreOptions) touch(draft *domain.Draft) {
	if o.TTL <= 0 {
		return
	}
	expires := o.now().Add(o.TTL)
	draft.ExpiresAt = &expires
}
