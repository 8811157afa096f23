package keyword

import (
	"sort"
	"strings"
	"sync"
)

// Suggestion is a dictionary term close to a query term.
type Suggestion struct {
	Term      string
	Distance  int
	Frequency int
	Score     float64
}

// SpellCheckResult contains the result of spell checking a query.
type SpellCheckResult struct {
	OriginalQuery   string
	CorrectedQuery  string
	Suggestions     []Suggestion
	HasCorrections  bool
	MisspelledTerms []string
}

// SpellChecker suggests corrections for query terms that do not occur in any verse.
type SpellChecker struct {
	dictionary     TermDictionary
	maxDistance    int
	minFreq        int
	maxSuggestions int

	mu      sync.RWMutex
	terms   []string
	termSet map[string]struct{}
	loaded  bool
}

// SpellCheckerOption is a functional option for configuring SpellChecker.
type SpellCheckerOption func(*SpellChecker)

// WithMaxDistance sets the maximum edit distance for suggestions.
func WithMaxDistance(d int) SpellCheckerOption {
	return func(s *SpellChecker) {
		if d > 0 {
			s.maxDistance = d
		}
	}
}

// WithMinFrequency ignores dictionary terms rarer than f.
func WithMinFrequency(f int) SpellCheckerOption {
	return func(s *SpellChecker) {
		if f >= 0 {
			s.minFreq = f
		}
	}
}

// WithMaxSuggestions caps suggestions per term.
func WithMaxSuggestions(n int) SpellCheckerOption {
	return func(s *SpellChecker) {
		if n > 0 {
			s.maxSuggestions = n
		}
	}
}

// NewSpellChecker creates a SpellChecker over dict.
func NewSpellChecker(dict TermDictionary, opts ...SpellCheckerOption) *SpellChecker {
	s := &SpellChecker{
		dictionary:     dict,
		maxDistance:    2,
		minFreq:        1,
		maxSuggestions: 5,
		termSet:        make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RefreshCache reloads the term list from the dictionary. Call it after re-indexing.
func (s *SpellChecker) RefreshCache() error {
	terms, err := s.dictionary.GetAllTerms()
	if err != nil {
		return err
	}
	set := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		set[strings.ToLower(t)] = struct{}{}
	}

	s.mu.Lock()
	s.terms = terms
	s.termSet = set
	s.loaded = true
	s.mu.Unlock()
	return nil
}

func (s *SpellChecker) ensureLoaded() error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return nil
	}
	return s.RefreshCache()
}

// Check replaces each unknown query term by its best suggestion.
func (s *SpellChecker) Check(query string) (*SpellCheckResult, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}

	result := &SpellCheckResult{OriginalQuery: query}
	terms := tokenizeQuery(query)
	corrected := make([]string, 0, len(terms))
	for _, term := range terms {
		if !s.IsMisspelled(term) {
			corrected = append(corrected, term)
			continue
		}
		suggestions := s.Suggest(term)
		if len(suggestions) == 0 {
			corrected = append(corrected, term)
			continue
		}
		result.HasCorrections = true
		result.MisspelledTerms = append(result.MisspelledTerms, term)
		result.Suggestions = append(result.Suggestions, suggestions...)
		corrected = append(corrected, suggestions[0].Term)
	}
	result.CorrectedQuery = strings.Join(corrected, " ")
	return result, nil
}

// Suggest returns dictionary terms within the maximum edit distance of term, best first.
// Closer terms rank higher; frequency breaks ties within the same distance.
func (s *SpellChecker) Suggest(term string) []Suggestion {
	if err := s.ensureLoaded(); err != nil {
		return nil
	}
	term = strings.ToLower(term)

	s.mu.RLock()
	terms := s.terms
	s.mu.RUnlock()

	termLen := len([]rune(term))
	var out []Suggestion
	for _, candidate := range terms {
		lower := strings.ToLower(candidate)
		if lower == term {
			continue
		}
		if abs(len([]rune(lower))-termLen) > s.maxDistance {
			continue
		}
		d := LevenshteinDistance(term, lower)
		if d > s.maxDistance {
			continue
		}
		freq, err := s.dictionary.GetTermFrequency(candidate)
		if err != nil || freq < s.minFreq {
			continue
		}
		out = append(out, Suggestion{
			Term:      candidate,
			Distance:  d,
			Frequency: freq,
			Score:     float64(freq) / float64(d+1),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Term < out[j].Term
	})
	if len(out) > s.maxSuggestions {
		out = out[:s.maxSuggestions]
	}
	return out
}

// IsMisspelled reports whether term is absent from the dictionary.
func (s *SpellChecker) IsMisspelled(term string) bool {
	if err := s.ensureLoaded(); err != nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.termSet[strings.ToLower(term)]
	return !ok
}

// GetTopSuggestions returns up to n corrected queries.
func (s *SpellChecker) GetTopSuggestions(query string, n int) []string {
	result, err := s.Check(query)
	if err != nil || !result.HasCorrections || n <= 0 {
		return nil
	}
	out := []string{result.CorrectedQuery}
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
