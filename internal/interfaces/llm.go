package interfaces

import "context"

// Message is one turn of an LLM conversation.
type Message struct {
	Role    string `json:"role"` // system|user|assistant
	Content string `json:"content"`
}

// LLMService abstracts the external text-generation provider used for
// toponym extraction, country-gate verdicts and alert summaries. Every call
// carries a bounded timeout; callers degrade to the next fallback on error
// rather than aborting their run.
type LLMService interface {
	Chat(ctx context.Context, messages []Message) (string, error)
	Close() error
}
