// Package sentiment labels comment text as positive or negative using a
// linear model over TF-IDF features. The model is loaded once from a JSON
// artifact exported from the training pipeline and is read-only afterwards,
// so a single *Model can be shared by every request goroutine.
package sentiment

import (
	"errors"
	"fmt"
	"math"
	"os"
	"regexp"
	"slices"
	"strings"

	"github.com/goccy/go-json"
)

type Label string

const (
	Positive Label = "positive"
	Negative Label = "negative"
)

var ErrEmptyText = errors.New("sentiment: empty text")

//go:generate mockgen -source=model.go -destination=mocks/mock_classifier.go -package=mocks

// Classifier is the contract the comment read path depends on.
type Classifier interface {
	Classify(text string) (Label, error)
}

// artifact mirrors the exported vectorizer + logistic regression pair.
type artifact struct {
	Version    string         `json:"version"`
	Lowercase  *bool          `json:"lowercase"`
	NGramMax   int            `json:"ngram_max"`
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
	Coef       []float64      `json:"coef"`
	Intercept  float64        `json:"intercept"`
}

type Model struct {
	version    string
	lowercase  bool
	ngramMax   int
	vocabulary map[string]int
	idf        []float64
	coef       []float64
	intercept  float64
}

// Runs of two or more Unicode letters, digits or underscores.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

func Load(path string) (*Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sentiment: read model %s: %w", path, err)
	}

	var a artifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("sentiment: decode model %s: %w", path, err)
	}

	m, err := newModel(a)
	if err != nil {
		return nil, fmt.Errorf("sentiment: model %s: %w", path, err)
	}
	return m, nil
}

func newModel(a artifact) (*Model, error) {
	if len(a.Vocabulary) == 0 {
		return nil, errors.New("empty vocabulary")
	}
	if len(a.IDF) != len(a.Coef) {
		return nil, fmt.Errorf("idf has %d weights, coef has %d", len(a.IDF), len(a.Coef))
	}
	for term, col := range a.Vocabulary {
		if col < 0 || col >= len(a.Coef) {
			return nil, fmt.Errorf("term %q maps to column %d outside [0,%d)", term, col, len(a.Coef))
		}
	}

	lowercase := true
	if a.Lowercase != nil {
		lowercase = *a.Lowercase
	}
	ngramMax := a.NGramMax
	if ngramMax < 1 {
		ngramMax = 1
	}

	return &Model{
		version:    a.Version,
		lowercase:  lowercase,
		ngramMax:   ngramMax,
		vocabulary: a.Vocabulary,
		idf:        a.IDF,
		coef:       a.Coef,
		intercept:  a.Intercept,
	}, nil
}

func (m *Model) Version() string {
	return m.version
}

func (m *Model) Classify(text string) (Label, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyText
	}
	if m.Score(text) > 0 {
		return Positive, nil
	}
	return Negative, nil
}

// Score returns the decision function value; positive scores mean Positive.
func (m *Model) Score(text string) float64 {
	counts := make(map[int]float64)
	for _, term := range m.terms(text) {
		if col, ok := m.vocabulary[term]; ok {
			counts[col]++
		}
	}

	cols := make([]int, 0, len(counts))
	for col := range counts {
		cols = append(cols, col)
	}
	// fixed summation order keeps the float result identical across calls
	slices.Sort(cols)

	var norm float64
	for _, col := range cols {
		w := counts[col] * m.idf[col]
		counts[col] = w
		norm += w * w
	}
	if norm == 0 {
		return m.intercept
	}
	norm = math.Sqrt(norm)

	score := m.intercept
	for _, col := range cols {
		score += m.coef[col] * (counts[col] / norm)
	}
	return score
}

func (m *Model) terms(text string) []string {
	if m.lowercase {
		text = strings.ToLower(text)
	}
	tokens := tokenPattern.FindAllString(text, -1)

	terms := make([]string, 0, len(tokens)*m.ngramMax)
	for n := 1; n <= m.ngramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			terms = append(terms, strings.Join(tokens[i:i+n], " "))
		}
	}
	return terms
}
