package geo

import (
	"context"
	"strings"

	"github.com/ternarybob/vigia/internal/common"
)

// Detection method tags and their fixed confidence priors.
const (
	MethodAINER          = "ai_ner"
	MethodStatisticalNER = "statistical_ner"
	MethodRegexGazetteer = "regex_gazetteer"

	confidenceAINER          = 0.95
	confidenceStatisticalNER = 0.75
	confidenceRegexGazetteer = 0.60

	// contextWindow bounds the explainability snippet around a toponym.
	contextWindow = 50
)

// ToponymDetection is one place-name mention found in a text.
type ToponymDetection struct {
	Toponym       string
	PositionStart int
	PositionEnd   int
	Context       string
	InTitle       bool
	Method        string
	Confidence    float64
}

// ToponymDetector finds place-name mentions in a text. Detectors are tried
// in priority order; the first one that returns detections wins, and any
// error falls through to the next method in the chain.
type ToponymDetector interface {
	Name() string
	Detect(ctx context.Context, title, content string) ([]ToponymDetection, error)
}

// newDetection builds a detection with its true offset recomputed by
// searching the text rather than trusting a reported position, plus the
// title flag and bounded context window.
func newDetection(title, fullText, toponym string, approxPosition int, method string, confidence float64) ToponymDetection {
	position := strings.Index(strings.ToLower(fullText), strings.ToLower(toponym))
	if position < 0 {
		position = approxPosition
	}

	return ToponymDetection{
		Toponym:       toponym,
		PositionStart: position,
		PositionEnd:   position + len(toponym),
		Context:       common.ExtractContext(fullText, position, contextWindow),
		InTitle:       strings.Contains(strings.ToLower(title), strings.ToLower(toponym)),
		Method:        method,
		Confidence:    confidence,
	}
}
