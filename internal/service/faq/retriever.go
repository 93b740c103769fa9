package faq

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/cloudwego/eino/components/retriever"
	"github.com/cloudwego/eino/schema"

	faqmodel "github.com/zhouzirui/wave-chatbot/backend/internal/model/faq"
)

// DefaultThreshold is the maximum distance score an entry may have to count as a match.
const DefaultThreshold = 0.4

const (
	// 不足该长度的词只接受完全相同
	minFuzzyRunes   = 5
	maxTypoDistance = 1.0 / 3
	stopWordWeight  = 0.2
)

// 常见虚词，只参与排序不决定是否命中
var stopWords = map[string]bool{
	"a": true, "about": true, "all": true, "also": true, "am": true, "an": true, "and": true, "any": true, "are": true,
	"as": true, "at": true, "be": true, "been": true, "but": true, "by": true, "can": true, "could": true,
	"did": true, "do": true, "does": true, "for": true, "from": true, "had": true, "has": true,
	"have": true, "how": true, "i": true, "if": true, "in": true, "into": true, "is": true,
	"it": true, "its": true, "just": true, "me": true, "my": true, "no": true, "not": true, "of": true,
	"on": true, "or": true, "our": true, "so": true, "than": true, "that": true, "the": true,
	"their": true, "them": true, "then": true, "there": true, "these": true, "they": true,
	"this": true, "those": true, "to": true, "too": true, "up": true, "us": true, "was": true,
	"we": true, "were": true, "what": true, "when": true, "where": true, "which": true,
	"who": true, "whom": true, "why": true, "will": true, "with": true, "would": true,
	"you": true, "your": true,
}

// Metadata keys set on retrieved documents.
const (
	MetaQuestion = "question"
	MetaAnswer   = "answer"
	MetaIndex    = "index"
	MetaField    = "field"
)

type indexedEntry struct {
	entry  faqmodel.Entry
	fields [2]indexedField
}

type indexedField struct {
	name   string
	joined string
	tokens []string
}

// Retriever ranks corpus entries against a query by approximate string similarity.
// Scores are distances in [0, 1]: 0 is a perfect match, 1 shares nothing with the query.
// It implements eino's retriever.Retriever so it can be swapped for any other ranker.
type Retriever struct {
	entries   []indexedEntry
	threshold float64
}

var _ retriever.Retriever = (*Retriever)(nil)

// NewRetriever indexes the store's question and answer fields.
func NewRetriever(store faqmodel.Store, threshold float64) (*Retriever, error) {
	if store == nil || store.Len() == 0 {
		return nil, faqmodel.ErrEmptyCorpus
	}
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("match threshold must be within [0, 1], got %v", threshold)
	}

	items := store.List()
	entries := make([]indexedEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, indexedEntry{
			entry: item,
			fields: [2]indexedField{
				newIndexedField(MetaQuestion, item.Question),
				newIndexedField(MetaAnswer, item.Answer),
			},
		})
	}

	return &Retriever{entries: entries, threshold: threshold}, nil
}

func newIndexedField(name, text string) indexedField {
	tokens := tokenize(text)
	return indexedField{name: name, tokens: tokens, joined: " " + strings.Join(tokens, " ") + " "}
}

// Threshold returns the configured inclusion threshold.
func (r *Retriever) Threshold() float64 {
	return r.threshold
}

// Retrieve returns the entries scoring within the threshold, best first. Ties keep
// corpus order. retriever.WithScoreThreshold overrides the threshold and
// retriever.WithTopK limits the result size.
func (r *Retriever) Retrieve(ctx context.Context, query string, opts ...retriever.Option) ([]*schema.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	threshold := r.threshold
	options := retriever.GetCommonOptions(&retriever.Options{ScoreThreshold: &threshold}, opts...)
	if options.ScoreThreshold != nil {
		threshold = *options.ScoreThreshold
	}

	queryTokens := tokenize(query)
	if len(queryTokens) == 0 {
		return nil, nil
	}
	queryJoined := " " + strings.Join(queryTokens, " ") + " "

	docs := make([]*schema.Document, 0, len(r.entries))
	for i, item := range r.entries {
		best, field := 1.0, MetaQuestion
		for _, f := range item.fields {
			if s := scoreField(queryTokens, queryJoined, f); s < best {
				best, field = s, f.name
			}
		}
		if best > threshold {
			continue
		}

		doc := &schema.Document{
			ID:      strconv.Itoa(i),
			Content: item.entry.Answer,
			MetaData: map[string]any{
				MetaQuestion: item.entry.Question,
				MetaAnswer:   item.entry.Answer,
				MetaIndex:    i,
				MetaField:    field,
			},
		}
		docs = append(docs, doc.WithScore(best))
	}

	sort.SliceStable(docs, func(a, b int) bool {
		return docs[a].Score() < docs[b].Score()
	})

	if options.TopK != nil && *options.TopK > 0 && len(docs) > *options.TopK {
		docs = docs[:*options.TopK]
	}
	return docs, nil
}

// scoreField is 0 when the field contains the query as a whole-word phrase. Otherwise
// it is the weighted mean over query tokens of the best token penalty against the
// field, with stop words weighted down so they only break ties. A query made of stop
// words alone matches nothing but a phrase.
func scoreField(queryTokens []string, queryJoined string, field indexedField) float64 {
	if len(field.tokens) == 0 {
		return 1
	}
	if strings.Contains(field.joined, queryJoined) {
		return 0
	}

	total, weights, content := 0.0, 0.0, 0
	for _, qt := range queryTokens {
		weight := 1.0
		if stopWords[qt] {
			weight = stopWordWeight
		} else {
			content++
		}

		best := 1.0
		for _, ft := range field.tokens {
			if p := tokenPenalty(qt, ft); p < best {
				best = p
				if best == 0 {
					break
				}
			}
		}
		total += weight * best
		weights += weight
	}
	if content == 0 {
		return 1
	}
	return total / weights
}

// tokenPenalty is the normalized edit distance when it is small enough to be a typo,
// 1 otherwise. Short tokens must match exactly.
func tokenPenalty(a, b string) float64 {
	d := tokenDistance(a, b)
	if d == 0 {
		return 0
	}
	if d > maxTypoDistance || utf8.RuneCountInString(a) < minFuzzyRunes || utf8.RuneCountInString(b) < minFuzzyRunes {
		return 1
	}
	return d
}

func tokenDistance(a, b string) float64 {
	if a == b {
		return 0
	}
	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	return float64(levenshtein.ComputeDistance(a, b)) / float64(longest)
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
