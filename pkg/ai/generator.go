package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	generationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "contest",
		Subsystem: "ai",
		Name:      "generation_duration_seconds",
		Help:      "Duration of image generation requests",
	}, []string{"model"})

	generationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "contest",
		Subsystem: "ai",
		Name:      "generation_failures_total",
		Help:      "Number of failed image generation requests",
	}, []string{"model"})
)

// GeneratorConfig defines configuration options for the OpenAI image generator.
type GeneratorConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Size    string
	Logger  zerolog.Logger
}

// OpenAIGenerator implements Generator against the OpenAI image API.
type OpenAIGenerator struct {
	client *openai.Client
	cfg    GeneratorConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIGenerator builds a new generator using the provided configuration.
func NewOpenAIGenerator(cfg GeneratorConfig) (*OpenAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = openai.CreateImageModelDallE3
	}

	if cfg.Size == "" {
		cfg.Size = openai.CreateImageSize1024x1024
	}

	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	return &OpenAIGenerator{
		client: openai.NewClientWithConfig(config),
		cfg:    cfg,
		tracer: otel.Tracer("github.com/zukunftsstadt/contest-api/pkg/ai/generator"),
		logger: logger.With().Str("component", "image_generator").Logger(),
	}, nil
}

// Generate requests a single illustration for the prompt and returns its URL.
func (g *OpenAIGenerator) Generate(parent context.Context, prompt string) (ImageRef, error) {
	ctx, span := g.tracer.Start(parent, "openai.generate_image", trace.WithAttributes(
		attribute.String("model", g.cfg.Model),
		attribute.String("size", g.cfg.Size),
	))
	defer span.End()

	start := time.Now()
	resp, err := g.client.CreateImage(ctx, openai.ImageRequest{
		Model:          g.cfg.Model,
		Prompt:         prompt,
		N:              1,
		Size:           g.cfg.Size,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	})
	generationDuration.WithLabelValues(g.cfg.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		generationFailures.WithLabelValues(g.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return ImageRef{}, &GenerationError{Err: err}
	}

	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		err := fmt.Errorf("no image returned from openai")
		generationFailures.WithLabelValues(g.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return ImageRef{}, &GenerationError{Err: err}
	}

	g.logger.Debug().Str("model", g.cfg.Model).Msg("image generated")

	return ImageRef{URL: resp.Data[0].URL}, nil
}
