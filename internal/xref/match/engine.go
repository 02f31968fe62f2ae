package match

import "xref-service/internal/xref/model"

// Match is the winning candidate and its score.
type Match struct {
	Component model.Component `json:"component"`
	Score     float64         `json:"score"`
}

// FindBestMatch scans candidates of the competitor's kind in catalog order.
// The first candidate reaching the maximum score wins. ok is false when
// there is no same-kind candidate; that is an outcome, not an error.
func FindBestMatch(competitor model.Component, catalog []model.Component) (best Match, ok bool) {
	kind := competitor.Kind()
	if kind == model.KindUnknown {
		return Match{}, false
	}
	for _, cand := range catalog {
		if cand.Kind() != kind {
			continue
		}
		s, _ := CalculateMatchScore(competitor, cand)
		if !ok || s > best.Score {
			best, ok = Match{Component: cand, Score: s}, true
		}
	}
	return best, ok
}

// Index groups the catalog by kind once so each search only walks its own
// candidates. Order inside a kind is catalog build order.
type Index struct {
	byKind map[model.Kind][]model.Component
	size   int
}

func NewIndex(catalog []model.Component) *Index {
	idx := &Index{byKind: make(map[model.Kind][]model.Component), size: len(catalog)}
	for _, c := range catalog {
		k := c.Kind()
		if k == model.KindUnknown {
			continue
		}
		idx.byKind[k] = append(idx.byKind[k], c)
	}
	return idx
}

// Candidates returns the same-kind slice; callers must not modify it.
func (idx *Index) Candidates(k model.Kind) []model.Component { return idx.byKind[k] }

func (idx *Index) Len() int { return idx.size }

// Counts returns the number of catalog components per kind.
func (idx *Index) Counts() map[model.Kind]int {
	out := make(map[model.Kind]int, len(idx.byKind))
	for k, v := range idx.byKind {
		out[k] = len(v)
	}
	return out
}

// Find is FindBestMatch over the indexed candidates; results are identical.
func (idx *Index) Find(competitor model.Component) (Match, bool) {
	return FindBestMatch(competitor, idx.Candidates(competitor.Kind()))
}
