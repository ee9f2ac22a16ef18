package dto

// ChatRequest represents a single advisor chat message. Context is an
// optional free-text hint the frontend can attach to steer the reply.
type ChatRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
	Context string `json:"context,omitempty" validate:"omitempty,max=4000"`
	Stream  bool   `json:"stream,omitempty"`
}

// ChatResponse is a non-streamed advisor reply
type ChatResponse struct {
	Response string `json:"response"`
}
