package ai

import "fmt"

// GenerationError wraps a failure reported by the text-to-image service. The
// remote message is preserved so it can be surfaced to the participant.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("image generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// JudgeError wraps a failure from the multimodal scoring service, including
// malformed or schema-violating responses.
type JudgeError struct {
	Err error
}

func (e *JudgeError) Error() string {
	return fmt.Sprintf("image evaluation failed: %v", e.Err)
}

func (e *JudgeError) Unwrap() error {
	return e.Err
}
