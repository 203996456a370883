package extraction_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/applytrack/internal/extraction"
	"github.com/JaimeStill/applytrack/pkg/lifecycle"
	"github.com/JaimeStill/applytrack/pkg/storage"
	"github.com/JaimeStill/applytrack/pkg/workerpool"
)

// engineFunc adapts a function to extraction.Engine.
type engineFunc func(ctx context.Context, prompt, source string) (json.RawMessage, error)

func (f engineFunc) Extract(ctx context.Context, prompt, source string) (json.RawMessage, error) {
	return f(ctx, prompt, source)
}

// memoryStore is an in-memory storage.System.
type memoryStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
	err   error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{blobs: make(map[string][]byte)}
}

func (s *memoryStore) Start(*lifecycle.Coordinator) error { return nil }

func (s *memoryStore) Put(_ context.Context, key string, data []byte, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.blobs[key] = append([]byte(nil), data...)
	return nil
}

func (s *memoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.blobs[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return data, nil
}

func newPool(t *testing.T, workers int) *workerpool.Pool {
	t.Helper()
	pool, err := workerpool.New("extraction-test", workers, nil, discard())
	require.NoError(t, err)
	pool.Run()
	t.Cleanup(pool.Close)
	return pool
}

func newBridge(t *testing.T, engine extraction.Engine, store storage.System) extraction.System {
	t.Helper()
	return extraction.New(engine, newPool(t, 2), store, discard())
}

func TestExtractReturnsEngineOutputUnchanged(t *testing.T) {
	payload := json.RawMessage(`{"company":"Acme","requirements":["Go"],"unexpected":{"kept":true}}`)

	var gotPrompt, gotSource string
	sys := newBridge(t, engineFunc(func(_ context.Context, prompt, source string) (json.RawMessage, error) {
		gotPrompt, gotSource = prompt, source
		return payload, nil
	}), nil)

	result, err := sys.Extract(context.Background(), "https://jobs.example.com/42")
	require.NoError(t, err)

	assert.Equal(t, string(payload), string(result.Payload))
	assert.Empty(t, result.ID)
	assert.Equal(t, extraction.Prompt, gotPrompt)
	assert.Equal(t, "https://jobs.example.com/42", gotSource)
}

func TestExtractErrors(t *testing.T) {
	var calls atomic.Int32
	failing := engineFunc(func(context.Context, string, string) (json.RawMessage, error) {
		calls.Add(1)
		return nil, errors.New("model offline")
	})

	tests := []struct {
		name   string
		sys    extraction.System
		source string
		target error
		status int
	}{
		{"empty source", newBridge(t, failing, nil), "  \n", extraction.ErrEmptySource, http.StatusBadRequest},
		{"engine failure", newBridge(t, failing, nil), "posting", extraction.ErrExtractionFailed, http.StatusBadGateway},
		{"no engine", extraction.New(nil, newPool(t, 1), nil, discard()), "posting", extraction.ErrUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.sys.Extract(context.Background(), tt.source)
			assert.ErrorIs(t, err, tt.target)
			assert.Equal(t, tt.status, extraction.MapHTTPStatus(err))
		})
	}

	assert.Equal(t, int32(1), calls.Load(), "only the engine failure case reaches the engine")
}

func TestExtractClosedPool(t *testing.T) {
	pool, err := workerpool.New("closed", 1, nil, discard())
	require.NoError(t, err)
	pool.Run()
	pool.Close()

	sys := extraction.New(engineFunc(func(context.Context, string, string) (json.RawMessage, error) {
		return json.RawMessage(`{}`), nil
	}), pool, nil, discard())

	_, err = sys.Extract(context.Background(), "posting")
	assert.ErrorIs(t, err, extraction.ErrUnavailable)
}

func TestExtractQueuesBeyondPoolSize(t *testing.T) {
	const workers = 2

	release := make(chan struct{})
	started := make(chan struct{}, 8)
	var running, peak atomic.Int32

	engine := engineFunc(func(context.Context, string, string) (json.RawMessage, error) {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		started <- struct{}{}
		<-release
		running.Add(-1)
		return json.RawMessage(`{}`), nil
	})

	sys := extraction.New(engine, newPool(t, workers), nil, discard())

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for range 5 {
		wg.Go(func() {
			_, err := sys.Extract(context.Background(), "posting")
			errs <- err
		})
	}

	for range workers {
		<-started
	}
	select {
	case <-started:
		t.Fatal("more extractions running than workers")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(workers), peak.Load())
}

func TestExtractWithdrawnWhileQueued(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var calls atomic.Int32

	engine := engineFunc(func(context.Context, string, string) (json.RawMessage, error) {
		if calls.Add(1) == 1 {
			close(started)
			<-release
		}
		return json.RawMessage(`{}`), nil
	})

	sys := extraction.New(engine, newPool(t, 1), nil, discard())

	done := make(chan error, 1)
	go func() {
		_, err := sys.Extract(context.Background(), "first")
		done <- err
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := sys.Extract(ctx, "second")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, extraction.ErrExtractionFailed)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), calls.Load(), "withdrawn extraction never reaches the engine")
}

func TestExtractInFlightSurvivesCallerCancel(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var engineCtxErr atomic.Value

	engine := engineFunc(func(ctx context.Context, _, _ string) (json.RawMessage, error) {
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			engineCtxErr.Store(err)
		}
		return json.RawMessage(`{"ok":true}`), nil
	})

	sys := extraction.New(engine, newPool(t, 1), nil, discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan *extraction.Result, 1)
	go func() {
		result, err := sys.Extract(ctx, "posting")
		assert.NoError(t, err)
		done <- result
	}()

	<-started
	cancel()
	close(release)

	result := <-done
	require.NotNil(t, result)
	assert.JSONEq(t, `{"ok":true}`, string(result.Payload))
	assert.Nil(t, engineCtxErr.Load())
}

func TestExtractArchive(t *testing.T) {
	payload := json.RawMessage(`{"company":"Acme"}`)
	engine := engineFunc(func(context.Context, string, string) (json.RawMessage, error) {
		return payload, nil
	})

	t.Run("stored and retrievable", func(t *testing.T) {
		store := newMemoryStore()
		sys := newBridge(t, engine, store)

		result, err := sys.Extract(context.Background(), "posting")
		require.NoError(t, err)
		require.NotEmpty(t, result.ID)
		assert.Contains(t, store.blobs, result.ID+".json")

		got, err := sys.Archived(context.Background(), result.ID)
		require.NoError(t, err)
		assert.JSONEq(t, string(payload), string(got))
	})

	t.Run("upload failure keeps the result", func(t *testing.T) {
		store := newMemoryStore()
		store.err = errors.New("container offline")
		sys := newBridge(t, engine, store)

		result, err := sys.Extract(context.Background(), "posting")
		require.NoError(t, err)
		assert.Empty(t, result.ID)
		assert.JSONEq(t, string(payload), string(result.Payload))
	})

	t.Run("lookups", func(t *testing.T) {
		tests := []struct {
			name   string
			store  storage.System
			id     string
			target error
		}{
			{"disabled", nil, uuid.NewString(), extraction.ErrArchiveDisabled},
			{"malformed id", newMemoryStore(), "not-a-uuid", extraction.ErrNotFound},
			{"unknown id", newMemoryStore(), uuid.NewString(), extraction.ErrNotFound},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				sys := newBridge(t, engine, tt.store)
				_, err := sys.Archived(context.Background(), tt.id)
				assert.ErrorIs(t, err, tt.target)
			})
		}
	})
}
