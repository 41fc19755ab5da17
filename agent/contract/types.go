package contract

type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type CompletionRequest struct {
	Model       string    `json:"model,omitempty"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

// SystemPrompt returns the content of the first system message, if any.
func (r CompletionRequest) SystemPrompt() string {
	for _, m := range r.Messages {
		if m.Role == RoleSystem {
			return m.Content
		}
	}
	return ""
}

// UserPrompt returns the content of the last user message, if any.
func (r CompletionRequest) UserPrompt() string {
	for i := len(r.Messages) - 1; i >= 0; i-- {
		if r.Messages[i].Role == RoleUser {
			return r.Messages[i].Content
		}
	}
	return ""
}

type FailureKind string

const (
	FailureNone      FailureKind = ""
	FailureTimeout   FailureKind = "timeout"
	FailureTransport FailureKind = "transport"
	FailureMalformed FailureKind = "malformed_response"
)
