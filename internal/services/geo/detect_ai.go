package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vigia/internal/interfaces"
)

const aiDetectPrompt = `Eres un sistema de NER especializado en detectar topónimos (lugares) en español chileno.

Analiza el siguiente texto y extrae TODOS los topónimos (nombres de lugares) que encuentres.
Incluye: regiones, comunas, ciudades, localidades, barrios, calles principales.

TÍTULO: %s

CONTENIDO: %s

Devuelve SOLO un JSON con este formato:
{
  "toponyms": [
    {"toponym": "nombre del lugar", "position": posición_aproximada_en_caracteres}
  ]
}

Responde SOLO con el JSON, sin explicaciones.`

// maxContentChars caps how much body text is sent to the extraction service.
const maxContentChars = 3000

var jsonBlockPattern = regexp.MustCompile(`(?s)\{.*\}`)

// AIDetector extracts toponyms with an external text-extraction service.
// The highest-confidence method in the detection chain.
type AIDetector struct {
	llm    interfaces.LLMService
	logger arbor.ILogger
}

// NewAIDetector wraps an LLM service as a toponym detector.
func NewAIDetector(llm interfaces.LLMService, logger arbor.ILogger) *AIDetector {
	return &AIDetector{llm: llm, logger: logger}
}

func (d *AIDetector) Name() string {
	return MethodAINER
}

// Detect asks the service for a structured list of place names. Malformed
// responses are an error so the chain can fall through, never a panic.
func (d *AIDetector) Detect(ctx context.Context, title, content string) ([]ToponymDetection, error) {
	if d.llm == nil {
		return nil, fmt.Errorf("llm service not configured")
	}

	truncated := content
	if len(truncated) > maxContentChars {
		truncated = truncated[:maxContentChars]
	}

	response, err := d.llm.Chat(ctx, []interfaces.Message{
		{Role: "user", Content: fmt.Sprintf(aiDetectPrompt, title, truncated)},
	})
	if err != nil {
		return nil, fmt.Errorf("toponym extraction call failed: %w", err)
	}

	raw := jsonBlockPattern.FindString(response)
	if raw == "" {
		return nil, fmt.Errorf("no JSON object in extraction response")
	}

	var parsed struct {
		Toponyms []struct {
			Toponym  string `json:"toponym"`
			Position int    `json:"position"`
		} `json:"toponyms"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse extraction response: %w", err)
	}

	fullText := title + "\n\n" + content
	detections := make([]ToponymDetection, 0, len(parsed.Toponyms))
	for _, item := range parsed.Toponyms {
		if item.Toponym == "" {
			continue
		}
		detections = append(detections, newDetection(title, fullText, item.Toponym, item.Position, MethodAINER, confidenceAINER))
	}

	d.logger.Debug().
		Int("detections", len(detections)).
		Msg("AI toponym detection completed")

	return detections, nil
}
