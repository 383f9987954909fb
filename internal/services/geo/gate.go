package geo

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vigia/internal/common"
	"github.com/ternarybob/vigia/internal/interfaces"
)

// baseDomesticCues are country-level phrases that mark a text as in-scope
// even when no catalog territory is named. The gate extends this list with
// every gazetteer name and alias.
var baseDomesticCues = []string{
	"chile", "chileno", "chilena", "chilenos", "chilenas",
	"carabineros", "seremi", "sernageomin", "conaf", "onemi", "senapred",
	"la moneda", "fiscalia nacional",
}

// foreignCues are country names and capital cities that mark a text as
// out-of-scope. Spanish-homonym territory names abroad are the main false
// positive this list exists to catch.
var foreignCues = []string{
	"argentina", "argentino", "peru", "peruano", "bolivia", "boliviano",
	"brasil", "colombia", "venezuela", "ecuador", "uruguay", "paraguay",
	"mexico", "espana", "estados unidos", "china", "rusia", "francia",
	"alemania", "italia", "reino unido", "japon",
	"buenos aires", "lima", "la paz", "brasilia", "bogota", "caracas",
	"quito", "montevideo", "asuncion", "ciudad de mexico", "madrid",
	"washington", "pekin", "moscu", "paris", "berlin", "roma", "londres",
	"tokio",
}

const gateVerdictPrompt = `¿Esta noticia se refiere a Chile o a hechos ocurridos en Chile?

TÍTULO: %s

CONTENIDO: %s

Responde únicamente SI o NO, sin explicaciones.`

// cueLexicon matches a fixed phrase list against text with word-boundary
// semantics. Phrases are compiled space-padded into one automaton so a scan
// is a single pass regardless of lexicon size.
type cueLexicon struct {
	matcher *ahocorasick.Matcher
	cues    []string
}

func newCueLexicon(cues []string) *cueLexicon {
	seen := make(map[string]bool, len(cues))
	unique := make([]string, 0, len(cues))
	padded := make([]string, 0, len(cues))
	for _, cue := range cues {
		normalized := common.NormalizeText(cue)
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true
		unique = append(unique, normalized)
		padded = append(padded, " "+normalized+" ")
	}
	return &cueLexicon{
		matcher: ahocorasick.NewStringMatcher(padded),
		cues:    unique,
	}
}

// count returns the total number of cue occurrences in the text and the
// distinct cues found.
func (l *cueLexicon) count(text string) (int, []string) {
	padded := padWords(text)

	total := 0
	var found []string
	for _, idx := range l.matcher.Match([]byte(padded)) {
		if idx >= len(l.cues) {
			continue
		}
		cue := l.cues[idx]
		total += countPadded(padded, cue)
		found = append(found, cue)
	}
	return total, found
}

// padWords normalizes text and collapses non-alphanumeric runs into single
// spaces, with a leading and trailing space so padded cue patterns match at
// the edges.
func padWords(text string) string {
	normalized := common.NormalizeText(text)
	var b strings.Builder
	b.Grow(len(normalized) + 2)
	b.WriteByte(' ')
	lastSpace := true
	for _, r := range normalized {
		if ('a' <= r && r <= 'z') || ('0' <= r && r <= '9') {
			b.WriteRune(r)
			lastSpace = false
		} else if !lastSpace {
			b.WriteByte(' ')
			lastSpace = true
		}
	}
	if !lastSpace {
		b.WriteByte(' ')
	}
	return b.String()
}

// countPadded counts occurrences of a cue in padded text, allowing adjacent
// hits to share their boundary space.
func countPadded(padded, cue string) int {
	needle := " " + cue + " "
	count := 0
	for idx := 0; ; {
		i := strings.Index(padded[idx:], needle)
		if i < 0 {
			return count
		}
		count++
		idx += i + len(needle) - 1
	}
}

// CountryGate decides whether a signal is in-scope for the monitored country
// before any territory is assigned. The heuristic is conservative: ambiguous
// items are rejected, and an optional external verdict can only rescue a
// rejection, never overturn an acceptance.
type CountryGate struct {
	countryName string
	countryTLD  string
	domestic    *cueLexicon
	foreign     *cueLexicon
	llm         interfaces.LLMService
	logger      arbor.ILogger
}

// NewCountryGate builds the gate for one country. Every gazetteer name
// counts as a domestic cue, so any catalog territory in a title marks the
// item domestic. llm may be nil; the heuristic then stands alone.
func NewCountryGate(countryName, countryTLD string, gazetteer *Gazetteer, llm interfaces.LLMService, logger arbor.ILogger) *CountryGate {
	domestic := make([]string, 0, len(baseDomesticCues)+gazetteer.Size())
	domestic = append(domestic, baseDomesticCues...)
	domestic = append(domestic, gazetteer.Keys()...)

	return &CountryGate{
		countryName: common.NormalizeText(countryName),
		countryTLD:  strings.ToLower(countryTLD),
		domestic:    newCueLexicon(domestic),
		foreign:     newCueLexicon(foreignCues),
		llm:         llm,
		logger:      logger,
	}
}

// Accept evaluates the gate policy for one item. The returned reason names
// the rule that decided, for trace logging only.
func (g *CountryGate) Accept(ctx context.Context, title, content, itemURL string) (bool, string) {
	titleDomestic, _ := g.domestic.count(title)
	titleForeign, _ := g.foreign.count(title)
	bodyDomestic, _ := g.domestic.count(content)
	bodyForeign, _ := g.foreign.count(content)

	accepted, reason := g.decide(title, itemURL, titleDomestic, titleForeign, bodyDomestic, bodyForeign)

	if !accepted && g.llm != nil {
		if verdict, err := g.askVerdict(ctx, title, content); err != nil {
			g.logger.Warn().Err(err).Msg("Country gate verdict call failed, keeping heuristic rejection")
		} else if verdict {
			accepted, reason = true, "external_verdict"
		}
	}

	g.logger.Debug().
		Bool("accepted", accepted).
		Str("reason", reason).
		Int("title_domestic", titleDomestic).
		Int("title_foreign", titleForeign).
		Int("body_domestic", bodyDomestic).
		Int("body_foreign", bodyForeign).
		Msg("Country gate evaluated")

	return accepted, reason
}

func (g *CountryGate) decide(title, itemURL string, titleDomestic, titleForeign, bodyDomestic, bodyForeign int) (bool, string) {
	// a. Domestic source domain with a clean title.
	if g.hasCountryTLD(itemURL) && titleForeign == 0 {
		return true, "domestic_domain"
	}

	// b. Domestic cue in the title with no foreign cue next to it.
	if titleDomestic > 0 && titleForeign == 0 {
		return true, "domestic_title_cue"
	}

	// c. Foreign cue in the title: reject unless the country itself is
	// named in the title.
	if titleForeign > 0 {
		if g.countryInTitle(title) {
			return true, "country_named_in_title"
		}
		return false, "foreign_title_cue"
	}

	// d. Cues of both kinds only in the body: domestic must dominate.
	if bodyDomestic > 0 && bodyForeign > 0 {
		if bodyDomestic >= 2*bodyForeign {
			return true, "domestic_body_majority"
		}
		return false, "mixed_body_cues"
	}

	// e. Only one kind of cue anywhere.
	if bodyDomestic > 0 {
		return true, "domestic_body_cue"
	}
	if bodyForeign > 0 {
		return false, "foreign_body_cue"
	}
	return false, "no_cues"
}

func (g *CountryGate) hasCountryTLD(itemURL string) bool {
	if itemURL == "" || g.countryTLD == "" {
		return false
	}
	parsed, err := url.Parse(itemURL)
	if err != nil || parsed.Hostname() == "" {
		return false
	}
	return strings.HasSuffix(strings.ToLower(parsed.Hostname()), g.countryTLD)
}

func (g *CountryGate) countryInTitle(title string) bool {
	return countPadded(padWords(title), g.countryName) > 0
}

// askVerdict asks the external service a strict binary question. Anything
// other than an affirmative first token keeps the rejection.
func (g *CountryGate) askVerdict(ctx context.Context, title, content string) (bool, error) {
	truncated := content
	if len(truncated) > maxContentChars {
		truncated = truncated[:maxContentChars]
	}

	response, err := g.llm.Chat(ctx, []interfaces.Message{
		{Role: "user", Content: fmt.Sprintf(gateVerdictPrompt, title, truncated)},
	})
	if err != nil {
		return false, err
	}

	answer := strings.ToUpper(strings.TrimSpace(response))
	return strings.HasPrefix(answer, "SI") || strings.HasPrefix(answer, "SÍ"), nil
}
