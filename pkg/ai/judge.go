package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	judgeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "contest",
		Subsystem: "ai",
		Name:      "evaluation_duration_seconds",
		Help:      "Duration of image evaluation requests",
	}, []string{"model"})

	judgeFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "contest",
		Subsystem: "ai",
		Name:      "evaluation_failures_total",
		Help:      "Number of failed image evaluation requests",
	}, []string{"model"})
)

const (
	scoreMin = 1
	scoreMax = 10
)

// judgeSystemPrompt is the fixed rubric shown to the vision model. The judge
// answers in the language of this prompt, so it stays in German for the
// "Stadt der Zukunft" contest.
const judgeSystemPrompt = `Du bist ein freundlicher Kunst-Juror für den Wettbewerb "Stadt der Zukunft".
Bewerte das eingereichte Bild kritisch nach diesen drei Kriterien:
1. Kreativität (1-10): Wie originell und kreativ setzt das Bild das Thema "Stadt der Zukunft" um?
2. Themenpassung (1-10): Wie gut passt das Bild zum Thema "Stadt der Zukunft"?
3. Zukunftsvision (1-10): Wie überzeugend und durchdacht ist die Vision für die Stadt der Zukunft?

Gib deine Bewertung als JSON zurück und füge ein kurzes Feedback an, das die Werte für die 3 Kriterien erklärt.
Sei streng in den Bewertungszahlen, aber gib freundliches Feedback, das für Erwachsene und Kinder geeignet ist.

Antworte in diesem JSON-Format:
{
    "creativity": Zahl (1-10),
    "theme_relevance": Zahl (1-10),
    "vision_quality": Zahl (1-10),
    "total_score": Zahl (Summe der obigen),
    "feedback": "kurzes, erklärendes Feedback"
}`

const judgeUserPrompt = "Evaluiere das folgende Bild auf Basis der 3 Kriterien:."

var evaluationSchema = jsonschema.MustCompileString("evaluation.json", `{
	"type": "object",
	"required": ["creativity", "theme_relevance", "vision_quality", "feedback"],
	"properties": {
		"creativity": {"type": "number"},
		"theme_relevance": {"type": "number"},
		"vision_quality": {"type": "number"},
		"total_score": {"type": "number"},
		"feedback": {"type": "string"}
	}
}`)

// JudgeConfig defines configuration options for the OpenAI vision judge.
type JudgeConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	Logger    zerolog.Logger
}

// OpenAIJudge implements Judge against the OpenAI chat completion API using
// an inline base64 image part and a JSON response format.
type OpenAIJudge struct {
	client *openai.Client
	cfg    JudgeConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIJudge builds a new judge using the provided configuration.
func NewOpenAIJudge(cfg JudgeConfig) (*OpenAIJudge, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = openai.GPT4o
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1000
	}

	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	return &OpenAIJudge{
		client: openai.NewClientWithConfig(config),
		cfg:    cfg,
		tracer: otel.Tracer("github.com/zukunftsstadt/contest-api/pkg/ai/judge"),
		logger: logger.With().Str("component", "image_judge").Logger(),
	}, nil
}

// Evaluate scores the base64-encoded image against the rubric. Sub-scores are
// clamped into the rubric range and the total is recomputed from the clamped
// values; any total supplied by the model is discarded.
func (j *OpenAIJudge) Evaluate(parent context.Context, imageBase64, mimeType, prompt string) (Evaluation, error) {
	ctx, span := j.tracer.Start(parent, "openai.evaluate_image", trace.WithAttributes(
		attribute.String("model", j.cfg.Model),
	))
	defer span.End()

	if mimeType == "" {
		mimeType = "image/png"
	}

	request := openai.ChatCompletionRequest{
		Model:     j.cfg.Model,
		MaxTokens: j.cfg.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: judgeSystemPrompt,
			},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: judgeUserPrompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: fmt.Sprintf("data:%s;base64,%s", mimeType, imageBase64),
						},
					},
				},
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	}

	start := time.Now()
	resp, err := j.client.CreateChatCompletion(ctx, request)
	judgeDuration.WithLabelValues(j.cfg.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		judgeFailures.WithLabelValues(j.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Evaluation{}, &JudgeError{Err: err}
	}

	if len(resp.Choices) == 0 {
		err := fmt.Errorf("no choices returned from openai")
		judgeFailures.WithLabelValues(j.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Evaluation{}, &JudgeError{Err: err}
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	evaluation, err := parseEvaluation(content)
	if err != nil {
		judgeFailures.WithLabelValues(j.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Evaluation{}, &JudgeError{Err: err}
	}

	j.logger.Debug().Int("total_score", evaluation.TotalScore).Msg("image evaluated")

	return evaluation, nil
}

func parseEvaluation(content string) (Evaluation, error) {
	var doc interface{}
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return Evaluation{}, fmt.Errorf("parse evaluation json: %w", err)
	}

	if err := evaluationSchema.Validate(doc); err != nil {
		return Evaluation{}, fmt.Errorf("invalid evaluation payload: %w", err)
	}

	type payload struct {
		Creativity     float64 `json:"creativity"`
		ThemeRelevance float64 `json:"theme_relevance"`
		VisionQuality  float64 `json:"vision_quality"`
		Feedback       string  `json:"feedback"`
	}

	var data payload
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		return Evaluation{}, fmt.Errorf("parse evaluation json: %w", err)
	}

	evaluation := Evaluation{
		Creativity:     clampScore(data.Creativity),
		ThemeRelevance: clampScore(data.ThemeRelevance),
		VisionQuality:  clampScore(data.VisionQuality),
		Feedback:       data.Feedback,
	}
	evaluation.TotalScore = evaluation.Creativity + evaluation.ThemeRelevance + evaluation.VisionQuality

	return evaluation, nil
}

// clampScore pulls out-of-range values to the nearest rubric bound and
// coerces fractional scores to integers.
func clampScore(value float64) int {
	if value < scoreMin {
		return scoreMin
	}
	if value > scoreMax {
		return scoreMax
	}
	return int(math.Round(value))
}
