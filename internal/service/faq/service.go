package faq

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/retriever"

	"github.com/zhouzirui/wave-chatbot/backend/internal/metrics"
)

// FallbackAnswer is returned when no corpus entry matches the query.
const FallbackAnswer = "Sorry, I couldn't find information on that for you."

var (
	ErrEmptyQuery        = errors.New("query is required")
	ErrSearchUnavailable = errors.New("search engine unavailable")
)

// Result is the outcome of resolving one query.
type Result struct {
	Answer   string  `json:"answer"`
	Matched  bool    `json:"-"`
	Question string  `json:"-"`
	Score    float64 `json:"-"`
}

// Service resolves free-text queries to corpus answers. It holds no per-request state.
type Service struct {
	retriever retriever.Retriever
	metrics   *metrics.Resolver
}

// NewService wraps a ranker. A nil ranker is allowed and makes every Resolve fail with
// ErrSearchUnavailable, mirroring a search engine that could not be initialized.
func NewService(r retriever.Retriever, m *metrics.Resolver) *Service {
	return &Service{retriever: r, metrics: m}
}

// Ready reports whether a ranker is configured.
func (s *Service) Ready() bool {
	return s.retriever != nil
}

// Resolve returns the best-matching answer or FallbackAnswer. A missing match is not an error.
func (s *Service) Resolve(ctx context.Context, query string) (Result, error) {
	start := time.Now()

	query = strings.TrimSpace(query)
	if query == "" {
		s.metrics.Observe(metrics.OutcomeInvalid, time.Since(start))
		return Result{}, ErrEmptyQuery
	}

	if s.retriever == nil {
		s.metrics.Observe(metrics.OutcomeError, time.Since(start))
		return Result{}, ErrSearchUnavailable
	}

	docs, err := s.retriever.Retrieve(ctx, query, retriever.WithTopK(1))
	if err != nil {
		s.metrics.Observe(metrics.OutcomeError, time.Since(start))
		return Result{}, fmt.Errorf("%w: %v", ErrSearchUnavailable, err)
	}

	if len(docs) == 0 {
		s.metrics.Observe(metrics.OutcomeFallback, time.Since(start))
		log.Printf("[faq] no match for query length=%d", len(query))
		return Result{Answer: FallbackAnswer}, nil
	}

	best := docs[0]
	result := Result{
		Answer:  best.Content,
		Matched: true,
		Score:   best.Score(),
	}
	if question, ok := best.MetaData[MetaQuestion].(string); ok {
		result.Question = question
	}

	s.metrics.Observe(metrics.OutcomeMatched, time.Since(start))
	log.Printf("[faq] matched question=%q score=%.3f", result.Question, result.Score)
	return result, nil
}
