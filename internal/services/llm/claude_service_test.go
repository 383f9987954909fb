package llm

import (
	"testing"

	"github.com/ternarybob/vigia/internal/common"
	"github.com/ternarybob/vigia/internal/interfaces"
)

func testClaudeConfig() *common.ClaudeConfig {
	return &common.ClaudeConfig{
		APIKey:    "test-api-key",
		Model:     "claude-haiku-3-5-20241022",
		MaxTokens: 1024,
		Timeout:   "30s",
		RateLimit: "1s",
	}
}

func TestNewClaudeService(t *testing.T) {
	logger := common.GetLogger()

	t.Run("Valid config succeeds", func(t *testing.T) {
		service, err := NewClaudeService(testClaudeConfig(), logger)
		if err != nil {
			t.Fatalf("NewClaudeService failed: %v", err)
		}
		if service == nil {
			t.Fatal("Expected service instance")
		}
		defer service.Close()
	})

	t.Run("Missing API key fails", func(t *testing.T) {
		config := testClaudeConfig()
		config.APIKey = "   "
		if _, err := NewClaudeService(config, logger); err == nil {
			t.Error("Expected error for missing API key")
		}
	})

	t.Run("Invalid timeout fails", func(t *testing.T) {
		config := testClaudeConfig()
		config.Timeout = "pronto"
		if _, err := NewClaudeService(config, logger); err == nil {
			t.Error("Expected error for invalid timeout")
		}
	})

	t.Run("Invalid rate limit fails", func(t *testing.T) {
		config := testClaudeConfig()
		config.RateLimit = "cada rato"
		if _, err := NewClaudeService(config, logger); err == nil {
			t.Error("Expected error for invalid rate limit")
		}
	})

	t.Run("Empty model falls back to default", func(t *testing.T) {
		config := testClaudeConfig()
		config.Model = ""
		service, err := NewClaudeService(config, logger)
		if err != nil {
			t.Fatalf("NewClaudeService failed: %v", err)
		}
		defer service.Close()
		if config.Model == "" {
			t.Error("Expected default model to be applied")
		}
	})
}

func TestConvertMessagesToClaude(t *testing.T) {
	t.Run("Empty messages fail", func(t *testing.T) {
		if _, _, err := convertMessagesToClaude(nil); err == nil {
			t.Error("Expected error for empty messages")
		}
	})

	t.Run("Requires a user message", func(t *testing.T) {
		messages := []interfaces.Message{{Role: "system", Content: "instrucciones"}}
		if _, _, err := convertMessagesToClaude(messages); err == nil {
			t.Error("Expected error without user message")
		}
	})

	t.Run("System message is extracted", func(t *testing.T) {
		messages := []interfaces.Message{
			{Role: "system", Content: "instrucciones"},
			{Role: "user", Content: "hola"},
			{Role: "assistant", Content: "respuesta"},
		}
		converted, system, err := convertMessagesToClaude(messages)
		if err != nil {
			t.Fatalf("convertMessagesToClaude failed: %v", err)
		}
		if system != "instrucciones" {
			t.Errorf("Expected system text, got %q", system)
		}
		if len(converted) != 2 {
			t.Errorf("Expected 2 conversation messages, got %d", len(converted))
		}
	})

	t.Run("First system message wins", func(t *testing.T) {
		messages := []interfaces.Message{
			{Role: "system", Content: "primera"},
			{Role: "system", Content: "segunda"},
			{Role: "user", Content: "hola"},
		}
		_, system, err := convertMessagesToClaude(messages)
		if err != nil {
			t.Fatalf("convertMessagesToClaude failed: %v", err)
		}
		if system != "primera" {
			t.Errorf("Expected first system message, got %q", system)
		}
	})
}
