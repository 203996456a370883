// Package extraction offloads job-posting extraction to a bounded worker
// pool so slow model calls never hold up unrelated requests.
package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/applytrack/pkg/storage"
	"github.com/JaimeStill/applytrack/pkg/workerpool"
)

// Result is an engine payload. ID is set when the payload was archived.
type Result struct {
	ID      string
	Payload json.RawMessage
}

// System defines the public contract for extraction operations.
type System interface {
	Handler() *Handler

	// Extract runs the engine for source on the worker pool and returns its
	// output unmodified. A caller cancelled while still queued withdraws;
	// once running the call completes regardless of the caller.
	Extract(ctx context.Context, source string) (*Result, error)

	// Archived returns a previously archived payload.
	Archived(ctx context.Context, id string) (json.RawMessage, error)
}

type bridge struct {
	engine Engine
	pool   *workerpool.Pool
	store  storage.System
	logger *slog.Logger
}

// New creates the extraction System. A nil engine makes every extraction
// fail with ErrUnavailable. A nil store disables archiving.
func New(engine Engine, pool *workerpool.Pool, store storage.System, logger *slog.Logger) System {
	return &bridge{
		engine: engine,
		pool:   pool,
		store:  store,
		logger: logger.With("system", "extraction"),
	}
}

func (b *bridge) Handler() *Handler {
	return NewHandler(b, b.logger)
}

func (b *bridge) Extract(ctx context.Context, source string) (*Result, error) {
	if strings.TrimSpace(source) == "" {
		return nil, ErrEmptySource
	}
	if b.engine == nil {
		return nil, ErrUnavailable
	}

	var (
		payload json.RawMessage
		started bool
	)

	err := b.pool.Do(ctx, func(ctx context.Context) error {
		started = true
		out, err := b.engine.Extract(ctx, Prompt, source)
		if err != nil {
			return err
		}
		payload = out
		return nil
	})

	switch {
	case err == nil:
	case errors.Is(err, workerpool.ErrClosed):
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	case !started:
		b.logger.Info("extraction withdrawn while queued", "error", err)
		return nil, err
	case errors.Is(err, ErrEmptySource):
		return nil, err
	default:
		b.logger.Warn("extraction failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}

	result := &Result{Payload: payload}
	if b.store != nil {
		result.ID = b.archive(context.WithoutCancel(ctx), payload)
	}
	return result, nil
}

// archive stores payload and returns its id, or "" when the upload fails.
func (b *bridge) archive(ctx context.Context, payload json.RawMessage) string {
	id := uuid.New()
	if err := b.store.Put(ctx, archiveKey(id), payload, "application/json"); err != nil {
		b.logger.Warn("extraction archive failed", "id", id, "error", err)
		return ""
	}
	return id.String()
}

func (b *bridge) Archived(ctx context.Context, id string) (json.RawMessage, error) {
	if b.store == nil {
		return nil, ErrArchiveDisabled
	}

	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	data, err := b.store.Get(ctx, archiveKey(uid))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}
	return data, nil
}

func archiveKey(id uuid.UUID) string {
	return id.String() + ".json"
}
