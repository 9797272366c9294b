package dto

// GenerateRequest carries the entry form fields for an image generation.
type GenerateRequest struct {
	Name   string `json:"name" validate:"required,max=70"`
	Prompt string `json:"prompt"`
}

// EvaluationResponse mirrors the judge verdict for an already persisted entry.
type EvaluationResponse struct {
	Creativity     int    `json:"creativity"`
	ThemeRelevance int    `json:"theme_relevance"`
	VisionQuality  int    `json:"vision_quality"`
	TotalScore     int    `json:"total_score"`
	Feedback       string `json:"feedback"`
}

// SessionResponse is a snapshot of one participant's workflow session.
// Evaluation is only present after the entry has been submitted; there is no
// pre-submission score preview.
type SessionResponse struct {
	SessionID   string              `json:"session_id"`
	State       string              `json:"state"`
	Name        string              `json:"name"`
	Prompt      string              `json:"prompt"`
	ImageURL    string              `json:"image_url,omitempty"`
	ImageBase64 string              `json:"image_base64,omitempty"`
	ImageMIME   string              `json:"image_mime,omitempty"`
	Submitted   bool                `json:"submitted"`
	Evaluation  *EvaluationResponse `json:"evaluation,omitempty"`
}

// SubmitResponse reports the persisted entry after a successful submission.
type SubmitResponse struct {
	SessionID  string             `json:"session_id"`
	Timestamp  string             `json:"timestamp"`
	Name       string             `json:"name"`
	Prompt     string             `json:"prompt"`
	Evaluation EvaluationResponse `json:"evaluation"`
}
