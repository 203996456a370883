package applications

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/applytrack/pkg/query"
	"github.com/JaimeStill/applytrack/pkg/repository"
)

// Repository translates lifecycle operations into store statements. It
// never reports absence as an error: lookups return found=false when the
// identifier is malformed, unknown, or inactive.
type Repository interface {
	ListActiveByPhone(ctx context.Context, phone string) ([]Application, error)
	Create(ctx context.Context, f Fields) (*Application, error)
	FindActive(ctx context.Context, id string) (*Application, bool, error)
	Update(ctx context.Context, id string, f Fields) (*Application, bool, error)
	Deactivate(ctx context.Context, id string) (bool, error)
}

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewRepository creates a Repository backed by db.
func NewRepository(db *sql.DB, logger *slog.Logger) Repository {
	return &repo{
		db:     db,
		logger: logger.With("system", "applications"),
	}
}

func (r *repo) ListActiveByPhone(ctx context.Context, phone string) ([]Application, error) {
	q, args := query.
		NewBuilder(projection).
		Apply(byPhone(phone), activeOnly).
		Build()

	apps, err := repository.QueryMany(ctx, r.db, q, args, scanApplication)
	if err != nil {
		return nil, fmt.Errorf("query applications: %w", err)
	}
	return apps, nil
}

func (r *repo) Create(ctx context.Context, f Fields) (*Application, error) {
	set := append(f.assignments(),
		query.Set("Active", true),
		query.Set("Version", 0),
		query.Raw("CreatedAt", "now()"),
		query.Raw("UpdatedAt", "now()"),
	)

	q, args := query.NewBuilder(projection).BuildInsert(set)

	a, err := repository.QueryOne(ctx, r.db, q, args, scanApplication)
	if err != nil {
		return nil, fmt.Errorf("insert application: %w", repository.MapError(err, nil, nil, ErrInvalid))
	}

	r.logger.Info("application created", "id", a.ID)
	return &a, nil
}

func (r *repo) FindActive(ctx context.Context, id string) (*Application, bool, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, false, nil
	}

	q, args := query.
		NewBuilder(projection).
		Apply(byID(uid), activeOnly).
		BuildSingle()

	a, found, err := repository.QueryOptional(ctx, r.db, q, args, scanApplication)
	if err != nil {
		return nil, false, fmt.Errorf("find application: %w", err)
	}
	if !found {
		return nil, false, nil
	}
	return &a, true, nil
}

func (r *repo) Update(ctx context.Context, id string, f Fields) (*Application, bool, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, false, nil
	}

	set := f.assignments()
	if len(set) == 0 {
		return nil, false, nil
	}

	q, args := query.
		NewBuilder(projection).
		Apply(byID(uid), activeOnly).
		BuildUpdate(mutation(set...), true)

	a, found, err := repository.QueryOptional(ctx, r.db, q, args, scanApplication)
	if err != nil {
		return nil, false, fmt.Errorf("update application: %w", repository.MapError(err, nil, nil, ErrInvalid))
	}
	if !found {
		return nil, false, nil
	}

	r.logger.Info("application updated", "id", a.ID, "version", a.Version)
	return &a, true, nil
}

func (r *repo) Deactivate(ctx context.Context, id string) (bool, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return false, nil
	}

	q, args := query.
		NewBuilder(projection).
		Apply(byID(uid), activeOnly).
		BuildUpdate(mutation(query.Set("Active", false)), false)

	ok, err := repository.ExecAffected(ctx, r.db, q, args...)
	if err != nil {
		return false, fmt.Errorf("deactivate application: %w", err)
	}

	if ok {
		r.logger.Info("application deactivated", "id", uid)
	}
	return ok, nil
}
