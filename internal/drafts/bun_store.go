package drafts

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-site-configurator/internal/domain"
)

// draftRecord is the site_drafts row. The full draft lives in payload; the
// scalar columns serve the expiry sweep and ad hoc queries.
type draftRecord struct {
	bun.BaseModel `bun:"table:site_drafts,alias:sd"`

	ID        uuid.UUID  `bun:"id,pk"`
	BrandName string     `bun:"brand_name,notnull"`
	Industry  string     `bun:"industry,notnull"`
	Payload   string     `bun:"payload,notnull"`
	ExpiresAt *time.Time `bun:"expires_at"`
	CreatedAt time.Time  `bun:"created_at,notnull"`
	UpdatedAt time.Time  `bun:"updated_at,notnull"`
}

// NewDraftRepository builds the go-repository-bun repository for site_drafts.
func NewDraftRepository(db *bun.DB) repository.Repository[*draftRecord] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*draftRecord]{
		NewRecord: func() *draftRecord { return &draftRecord{} },
		GetID: func(r *draftRecord) uuid.UUID {
			return r.ID
		},
		SetID: func(r *draftRecord, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(r *draftRecord) string {
			return r.ID.String()
		},
	})
}

// BunStore persists drafts in SQL through bun.
type BunStore struct {
	db   *bun.DB
	repo repository.Repository[*draftRecord]
	opts StoreOptions
}

var _ Store = (*BunStore)(nil)

// NewBunStore expects the site_drafts migration to have run.
func NewBunStore(db *bun.DB, opts StoreOptions) *BunStore {
	return &BunStore{db: db, repo: NewDraftRepository(db), opts: opts}
}

func (s *BunStore) SaveDraft(ctx context.Context, draft *domain.Draft) error {
	if draft == nil {
		return ErrDraftRequired
	}
	record, err := toRecord(draft)
	if err != nil {
		return err
	}

	_, err = s.repo.GetByID(ctx, record.ID.String())
	switch {
	case err == nil:
		_, err = s.repo.Update(ctx, record, repository.UpdateByID(record.ID.String()))
	case goerrors.IsCategory(err, repository.CategoryDatabaseNotFound):
		_, err = s.repo.Create(ctx, record)
	}
	if err != nil {
		return fmt.Errorf("drafts: save %s: %w", draft.ID, err)
	}
	return nil
}

// GetDraft removes expired rows on read. With ExtendOnRead only the
// expires_at column is rewritten.
func (s *BunStore) GetDraft(ctx context.Context, id string) (*domain.Draft, error) {
	draft, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.opts.ExtendOnRead && s.opts.TTL > 0 {
		s.opts.touch(draft)
		if _, err := s.db.NewUpdate().
			Model((*draftRecord)(nil)).
			Set("expires_at = ?", *draft.ExpiresAt).
			Where("id = ?", draftUUID(draft.ID)).
			Exec(ctx); err != nil {
			return nil, fmt.Errorf("drafts: extend %s: %w", id, err)
		}
	}
	return draft, nil
}

func (s *BunStore) UpdateDraft(ctx context.Context, id string, mutate func(*domain.Draft) error) (*domain.Draft, error) {
	if mutate == nil {
		return nil, ErrMutateRequired
	}
	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	working := current.Clone()
	if err := mutate(working); err != nil {
		return nil, err
	}
	working.ID = current.ID
	working.CreatedAt = current.CreatedAt
	working.UpdatedAt = s.opts.now()
	s.opts.touch(working)

	record, err := toRecord(working)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.Update(ctx, record, repository.UpdateByID(record.ID.String())); err != nil {
		return nil, mapRepositoryError(err, id)
	}
	return working, nil
}

func (s *BunStore) DeleteDraft(ctx context.Context, id string) (bool, error) {
	key, ok := parseDraftID(id)
	if !ok {
		return false, nil
	}
	res, err := s.db.NewDelete().
		Model((*draftRecord)(nil)).
		Where("id = ?", key).
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("drafts: delete %s: %w", id, err)
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

func (s *BunStore) GetAllDrafts(ctx context.Context) ([]*domain.Draft, error) {
	now := s.opts.now()
	records, _, err := s.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.expires_at IS NULL OR ?TableAlias.expires_at > ?", now).
			Order("created_at ASC")
	}))
	if err != nil {
		return nil, fmt.Errorf("drafts: list: %w", err)
	}
	out := make([]*domain.Draft, 0, len(records))
	for _, record := range records {
		draft, err := fromRecord(record)
		if err != nil {
			return nil, err
		}
		out = append(out, draft)
	}
	return out, nil
}

// CleanupExpiredDrafts deletes every row whose expiry has passed.
func (s *BunStore) CleanupExpiredDrafts(ctx context.Context) (int, error) {
	res, err := s.db.NewDelete().
		Model((*draftRecord)(nil)).
		Where("expires_at IS NOT NULL").
		Where("expires_at <= ?", s.opts.now()).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("drafts: cleanup: %w", err)
	}
	affected, _ := res.RowsAffected()
	return int(affected), nil
}

func (s *BunStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return err
	}
	_, err := s.db.NewSelect().Model((*draftRecord)(nil)).Limit(1).Count(ctx)
	return err
}

func (s *BunStore) load(ctx context.Context, id string) (*domain.Draft, error) {
	key, ok := parseDraftID(id)
	if !ok {
		return nil, &NotFoundError{Resource: "draft", Key: id}
	}
	record, err := s.repo.GetByID(ctx, key.String())
	if err != nil {
		return nil, mapRepositoryError(err, id)
	}
	draft, err := fromRecord(record)
	if err != nil {
		return nil, err
	}
	if draft.Expired(s.opts.now()) {
		if _, err := s.DeleteDraft(ctx, id); err != nil {
			return nil, err
		}
		return nil, &NotFoundError{Resource: "draft", Key: id}
	}
	return draft, nil
}

func toRecord(draft *domain.Draft) (*draftRecord, error) {
	key, ok := parseDraftID(draft.ID)
	if !ok {
		return nil, fmt.Errorf("drafts: invalid draft id %q", draft.ID)
	}
	payload, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("drafts: encode %s: %w", draft.ID, err)
	}
	record := &draftRecord{
		ID:        key,
		BrandName: draft.BrandName,
		Industry:  draft.Industry,
		Payload:   string(payload),
		CreatedAt: draft.CreatedAt.UTC(),
		UpdatedAt: draft.UpdatedAt.UTC(),
	}
	if draft.ExpiresAt != nil {
		expires := draft.ExpiresAt.UTC()
		record.ExpiresAt = &expires
	}
	return record, nil
}

func fromRecord(record *draftRecord) (*domain.Draft, error) {
	var draft domain.Draft
	if err := json.Unmarshal([]byte(record.Payload), &draft); err != nil {
		return nil, fmt.Errorf("drafts: decode %s: %w", record.ID, err)
	}
	draft.ID = record.ID.String()
	draft.ExpiresAt = record.ExpiresAt
	return &draft, nil
}

func parseDraftID(id string) (uuid.UUID, bool) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return uuid.Nil, false
	}
	return parsed, true
}

func draftUUID(id string) uuid.UUID {
	parsed, _ := parseDraftID(id)
	return parsed
}

func mapRepositoryError(err error, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: "draft", Key: key}
	}
	return fmt.Errorf("drafts: repository error: %w", err)
}
