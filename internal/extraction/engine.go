package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/JaimeStill/applytrack/pkg/formatting"
)

const defaultMaxSize = 2 << 20

var tracer = otel.Tracer("github.com/JaimeStill/applytrack/internal/extraction")

// Engine turns a prompt and a source locator into a JSON document. Extract
// blocks for the whole fetch and model round trip.
type Engine interface {
	Extract(ctx context.Context, prompt, source string) (json.RawMessage, error)
}

// EngineOptions configures source loading for an LLM engine.
type EngineOptions struct {
	Client    *http.Client
	MaxSize   int64
	UserAgent string
}

type llmEngine struct {
	model  llms.Model
	loader *loader
	logger *slog.Logger
}

// NewEngine creates an Engine that loads the source, prompts model in JSON
// mode, and returns the first JSON object found in the reply.
func NewEngine(model llms.Model, opts EngineOptions, logger *slog.Logger) Engine {
	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}
	if opts.MaxSize <= 0 {
		opts.MaxSize = defaultMaxSize
	}

	return &llmEngine{
		model: model,
		loader: &loader{
			client:    client,
			maxSize:   opts.MaxSize,
			userAgent: opts.UserAgent,
		},
		logger: logger.With("system", "extraction-engine"),
	}
}

func (e *llmEngine) Extract(ctx context.Context, prompt, source string) (json.RawMessage, error) {
	ctx, span := tracer.Start(ctx, "extraction.engine")
	defer span.End()

	_, isRemote := remote(strings.TrimSpace(source))
	span.SetAttributes(attribute.Bool("extraction.source.remote", isRemote))

	start := time.Now()
	content, err := e.loader.load(ctx, source)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load source")
		return nil, fmt.Errorf("load source: %w", err)
	}
	span.SetAttributes(attribute.Int("extraction.source.chars", len(content)))

	reply, err := llms.GenerateFromSinglePrompt(
		ctx, e.model,
		BuildPrompt(prompt, content),
		llms.WithJSONMode(),
		llms.WithTemperature(0),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generate")
		return nil, fmt.Errorf("generate: %w", err)
	}

	out, err := formatting.ParseObject(reply)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "parse reply")
		return nil, err
	}

	e.logger.Info("extraction complete",
		"remote", isRemote,
		"source_chars", len(content),
		"duration", time.Since(start),
	)
	return out, nil
}
