package ai

import "context"

// ImageRef points at a freshly generated illustration hosted by the provider.
// The URL is short-lived and must be downloaded before it expires.
type ImageRef struct {
	URL string
}

// Evaluation is the judge's verdict for one contest image. Sub-scores are
// already clamped to the rubric range and TotalScore is their sum.
type Evaluation struct {
	Creativity     int    `json:"creativity"`
	ThemeRelevance int    `json:"theme_relevance"`
	VisionQuality  int    `json:"vision_quality"`
	TotalScore     int    `json:"total_score"`
	Feedback       string `json:"feedback"`
}

// Generator produces an illustration from a participant's text description.
type Generator interface {
	Generate(ctx context.Context, prompt string) (ImageRef, error)
}

// Judge scores an illustration against the contest rubric.
type Judge interface {
	Evaluate(ctx context.Context, imageBase64, mimeType, prompt string) (Evaluation, error)
}
