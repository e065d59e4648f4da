// File: internal/llmclient/chat_payload.go
package llmclient

// Wire structures shared by the OpenAI-compatible chat-completion providers
// (OpenAI and Azure OpenAI speak the same request/response shape).

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequestPayload struct {
	Model       string        `json:"model,omitempty"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponsePayload struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}
