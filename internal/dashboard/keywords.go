package dashboard

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/cloudflare/ahocorasick"
	"gopkg.in/yaml.v3"
)

// Alert types, in matching priority order.
const (
	AlertHate           = "Discours de haine"
	AlertMisinformation = "Désinformation"
	AlertSensitive      = "Contenu sensible"
)

// AlertTypes lists every alert type in priority order.
var AlertTypes = []string{AlertHate, AlertMisinformation, AlertSensitive}

// KeywordLists holds the three fallback vocabularies.
type KeywordLists struct {
	Hate           []string `yaml:"hate"`
	Misinformation []string `yaml:"misinformation"`
	Toxicity       []string `yaml:"toxicity"`
}

// DefaultKeywords is used when no keyword file is configured.
func DefaultKeywords() KeywordLists {
	return KeywordLists{
		Hate: []string{
			"haine", "ethnie", "tribalisme", "massacre", "tuer", "violence",
			"extermin", "génocide", "xénophobe", "racisme", "vengeance",
		},
		Misinformation: []string{
			"fake news", "rumeur", "intox", "infox", "fausse information",
			"manipulation", "complot", "non vérifié", "démenti",
		},
		Toxicity: []string{
			"insulte", "idiot", "imbécile", "honte", "menace", "mépris",
			"stupide", "traître",
		},
	}
}

var errNoKeywords = errors.New("keyword file defines no keywords")

// LoadKeywords reads keyword lists from a YAML file. An empty path returns
// the defaults; lists missing from the file keep their defaults.
func LoadKeywords(path string) (KeywordLists, error) {
	lists := DefaultKeywords()
	if path == "" {
		return lists, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return KeywordLists{}, fmt.Errorf("failed to read keyword file: %w", err)
	}
	var file KeywordLists
	if err = yaml.Unmarshal(data, &file); err != nil {
		return KeywordLists{}, fmt.Errorf("failed to parse keyword file: %w", err)
	}
	if len(file.Hate)+len(file.Misinformation)+len(file.Toxicity) == 0 {
		return KeywordLists{}, errNoKeywords
	}
	if len(file.Hate) > 0 {
		lists.Hate = file.Hate
	}
	if len(file.Misinformation) > 0 {
		lists.Misinformation = file.Misinformation
	}
	if len(file.Toxicity) > 0 {
		lists.Toxicity = file.Toxicity
	}
	return lists, nil
}

// KeywordMatcher classifies text against the keyword lists in one pass.
// Matching is substring based on folded text.
type KeywordMatcher struct {
	// The automaton keeps per-match state, so Match calls are serialised.
	mu       sync.Mutex
	matcher  *ahocorasick.Matcher
	priority []int
}

// NewKeywordMatcher builds the automaton for lists.
func NewKeywordMatcher(lists KeywordLists) *KeywordMatcher {
	var (
		keywords []string
		priority []int
	)
	add := func(words []string, rank int) {
		for _, w := range words {
			w = FoldText(strings.TrimSpace(w))
			if w == "" {
				continue
			}
			keywords = append(keywords, w)
			priority = append(priority, rank)
		}
	}
	add(lists.Hate, 0)
	add(lists.Misinformation, 1)
	add(lists.Toxicity, 2)

	m := &KeywordMatcher{priority: priority}
	if len(keywords) > 0 {
		m.matcher = ahocorasick.NewStringMatcher(keywords)
	}
	return m
}

// Classify returns the highest priority alert type found in the title and
// body, or false when nothing matches.
func (m *KeywordMatcher) Classify(title, body string) (string, bool) {
	if m == nil || m.matcher == nil {
		return "", false
	}
	text := FoldText(StripHTML(title + " " + body))

	m.mu.Lock()
	hits := m.matcher.Match([]byte(text))
	m.mu.Unlock()

	best := len(AlertTypes)
	for _, idx := range hits {
		best = min(best, m.priority[idx])
	}
	if best == len(AlertTypes) {
		return "", false
	}
	return AlertTypes[best], true
}
