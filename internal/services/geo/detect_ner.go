package geo

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/jdkato/prose/v2"
	"github.com/ternarybob/arbor"
)

// maxNERChars caps how much text the statistical model processes per item.
const maxNERChars = 10000

// NERDetector finds toponyms with a local statistical NER model restricted
// to geopolitical entity labels. The mid-tier of the detection chain: no
// network dependency, lower precision than the extraction service.
type NERDetector struct {
	logger arbor.ILogger
}

// NewNERDetector creates the statistical NER detector.
func NewNERDetector(logger arbor.ILogger) *NERDetector {
	return &NERDetector{logger: logger}
}

func (d *NERDetector) Name() string {
	return MethodStatisticalNER
}

func (d *NERDetector) Detect(ctx context.Context, title, content string) ([]ToponymDetection, error) {
	fullText := title + "\n\n" + content

	limited := fullText
	if len(limited) > maxNERChars {
		limited = limited[:maxNERChars]
		for len(limited) > 0 && !utf8.ValidString(limited) {
			limited = limited[:len(limited)-1]
		}
	}

	doc, err := prose.NewDocument(limited, prose.WithSegmentation(false))
	if err != nil {
		return nil, fmt.Errorf("NER model failed: %w", err)
	}

	var detections []ToponymDetection
	for _, ent := range doc.Entities() {
		if ent.Label != "GPE" {
			continue
		}
		detections = append(detections, newDetection(title, fullText, ent.Text, 0, MethodStatisticalNER, confidenceStatisticalNER))
	}

	d.logger.Debug().
		Int("detections", len(detections)).
		Msg("statistical NER detection completed")

	return detections, nil
}
