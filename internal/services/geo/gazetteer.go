// Package geo resolves which geographic territory a text item concerns.
// Resolution runs as a per-signal pipeline: country gate, toponym detection
// over a fallback chain of methods, gazetteer matching, multi-signal scoring
// and disambiguation, then capped selection. Every accepted match carries a
// full trace of how it was produced.
package geo

import (
	"sort"

	"github.com/agnivade/levenshtein"
	"github.com/ternarybob/vigia/internal/common"
	"github.com/ternarybob/vigia/internal/models"
)

// Candidate is one territory a toponym may resolve to. MatchedVia records
// which name or alias produced the index entry.
type Candidate struct {
	Name       string
	Level      models.TerritoryLevel
	Latitude   *float64
	Longitude  *float64
	Region     string
	MatchedVia string
}

// Gazetteer is an inverted index from normalized territory names and aliases
// to candidate records. It is built once from the enabled catalog entries and
// never mutated afterwards, so it is safe to share across goroutines.
type Gazetteer struct {
	index map[string][]Candidate
	keys  []string
}

// BuildGazetteer indexes the enabled territory catalog. Each territory is
// indexed under its official name and every alias; comunas and localidades
// inherit their owning region's name for source-region agreement checks.
func BuildGazetteer(territories []models.Territory) *Gazetteer {
	byID := make(map[string]models.Territory, len(territories))
	for _, t := range territories {
		byID[t.ID] = t
	}

	g := &Gazetteer{index: make(map[string][]Candidate)}

	for _, t := range territories {
		if !t.Enabled {
			continue
		}
		region := regionOf(t, byID)
		for _, name := range append([]string{t.Name}, t.Aliases...) {
			normalized := common.NormalizeText(name)
			if normalized == "" {
				continue
			}
			g.index[normalized] = append(g.index[normalized], Candidate{
				Name:       t.Name,
				Level:      t.Level,
				Latitude:   t.Latitude,
				Longitude:  t.Longitude,
				Region:     region,
				MatchedVia: name,
			})
		}
	}

	g.keys = make([]string, 0, len(g.index))
	for k := range g.index {
		g.keys = append(g.keys, k)
	}
	sort.Strings(g.keys)

	return g
}

// regionOf walks the parent chain to the owning top-level region.
func regionOf(t models.Territory, byID map[string]models.Territory) string {
	cur := t
	for i := 0; i < 10; i++ {
		if cur.Level == models.LevelRegion || cur.ParentID == "" {
			if cur.Level == models.LevelRegion {
				return cur.Name
			}
			return ""
		}
		parent, ok := byID[cur.ParentID]
		if !ok {
			return ""
		}
		cur = parent
	}
	return ""
}

// Lookup returns the candidates indexed under a normalized name, or nil.
func (g *Gazetteer) Lookup(normalized string) []Candidate {
	return g.index[normalized]
}

// FuzzySearch returns every candidate whose indexed name is within the
// similarity threshold of the toponym. Similarity is 1 − dist/maxLen over
// normalized strings.
func (g *Gazetteer) FuzzySearch(toponym string, threshold float64) []Candidate {
	normalized := common.NormalizeText(toponym)
	if normalized == "" {
		return nil
	}

	var out []Candidate
	for _, key := range g.keys {
		if similarity(normalized, key) >= threshold {
			out = append(out, g.index[key]...)
		}
	}
	return out
}

// Keys returns the sorted normalized index keys. The regex detection
// fallback scans text against these.
func (g *Gazetteer) Keys() []string {
	return g.keys
}

// Size returns the number of distinct indexed names.
func (g *Gazetteer) Size() int {
	return len(g.index)
}

func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}
