package applications

import (
	"context"
	"fmt"
	"log/slog"
)

type service struct {
	repo          Repository
	logger        *slog.Logger
	defaultStatus string
}

// New creates the application System over repo. defaultStatus is assigned
// to applications created without a status.
func New(repo Repository, defaultStatus string, logger *slog.Logger) System {
	return &service{
		repo:          repo,
		logger:        logger.With("system", "applications"),
		defaultStatus: defaultStatus,
	}
}

func (s *service) Handler() *Handler {
	return NewHandler(s, s.logger)
}

func (s *service) ListByPhone(ctx context.Context, phone string) ([]View, error) {
	if phone == "" {
		return nil, &ValidationError{Field: "phone_number", Reason: "is required"}
	}

	apps, err := s.repo.ListActiveByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	return toViews(apps), nil
}

func (s *service) Find(ctx context.Context, id string) (*View, error) {
	a, found, err := s.repo.FindActive(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, notFound(id)
	}

	v := toView(*a)
	return &v, nil
}

func (s *service) Create(ctx context.Context, cmd CreateCommand) (*View, error) {
	if err := check(cmd); err != nil {
		return nil, err
	}

	a, err := s.repo.Create(ctx, cmd.fields(s.defaultStatus))
	if err != nil {
		return nil, err
	}

	v := toView(*a)
	return &v, nil
}

func (s *service) Update(ctx context.Context, id string, cmd UpdateCommand) (*View, error) {
	if err := check(cmd); err != nil {
		return nil, err
	}

	a, found, err := s.repo.Update(ctx, id, cmd.fields())
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, notFound(id)
	}

	v := toView(*a)
	return &v, nil
}

func (s *service) Deactivate(ctx context.Context, id string) error {
	ok, err := s.repo.Deactivate(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return notFound(id)
	}
	return nil
}

func notFound(id string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}
