package geo

import (
	"context"
	"regexp"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vigia/internal/common"
)

// RegexDetector scans the text against every known gazetteer name and alias
// with word-boundary matching. Last resort in the detection chain: works
// offline and never misses a catalog name, but cannot find places outside
// the catalog.
type RegexDetector struct {
	gazetteer *Gazetteer
	patterns  map[string]*regexp.Regexp
	logger    arbor.ILogger
}

// NewRegexDetector precompiles a word-boundary pattern per indexed name.
func NewRegexDetector(gazetteer *Gazetteer, logger arbor.ILogger) *RegexDetector {
	patterns := make(map[string]*regexp.Regexp, gazetteer.Size())
	for _, key := range gazetteer.Keys() {
		patterns[key] = regexp.MustCompile(`\b` + regexp.QuoteMeta(key) + `\b`)
	}
	return &RegexDetector{gazetteer: gazetteer, patterns: patterns, logger: logger}
}

func (d *RegexDetector) Name() string {
	return MethodRegexGazetteer
}

func (d *RegexDetector) Detect(ctx context.Context, title, content string) ([]ToponymDetection, error) {
	fullText := title + "\n\n" + content
	normalized := common.NormalizeText(fullText)

	var detections []ToponymDetection
	for _, key := range d.gazetteer.Keys() {
		loc := d.patterns[key].FindStringIndex(normalized)
		if loc == nil {
			continue
		}

		// Report the catalog spelling; the true offset is recomputed
		// against the original text.
		toponym := d.gazetteer.Lookup(key)[0].MatchedVia
		detections = append(detections, newDetection(title, fullText, toponym, loc[0], MethodRegexGazetteer, confidenceRegexGazetteer))
	}

	d.logger.Debug().
		Int("detections", len(detections)).
		Msg("regex gazetteer detection completed")

	return detections, nil
}
