// Package personalize rewrites the visible copy of a document for a visitor
// profile through a language model.
package personalize

import (
	"context"
	"strings"
	"sync"

	"quiz-builder/internal/domain"
	"quiz-builder/internal/metrics"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Request describes one element to rewrite.
type Request struct {
	ElementID   string
	ElementType domain.ElementType
	Content     string
	Profile     map[string]string
	Tone        string
}

// Provider returns replacement text for a single element.
type Provider interface {
	Rewrite(ctx context.Context, req Request) (string, error)
}

// Personalizer implements app.ContentPersonalizer.
type Personalizer struct {
	provider    Provider
	log         *zap.Logger
	concurrency int
	tone        string
}

type Option func(*Personalizer)

func WithLogger(log *zap.Logger) Option {
	return func(p *Personalizer) {
		if log != nil {
			p.log = log
		}
	}
}

// WithConcurrency caps in-flight provider calls.
func WithConcurrency(n int) Option {
	return func(p *Personalizer) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

func WithTone(tone string) Option {
	return func(p *Personalizer) { p.tone = tone }
}

func New(provider Provider, opts ...Option) *Personalizer {
	p := &Personalizer{provider: provider, log: zap.NewNop(), concurrency: 4}
	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.Named("personalize")
	return p
}

// Replacements asks the provider for new copy for every text, button and link
// element in doc. Elements whose call fails or returns nothing are left out,
// so their content stays as it is. Only cancellation of ctx is an error.
func (p *Personalizer) Replacements(ctx context.Context, doc domain.Quiz, profile map[string]string) (map[string]string, error) {
	var reqs []Request
	doc.Walk(func(loc domain.Location) bool {
		el := loc.Element()
		if personalizable(el) {
			reqs = append(reqs, Request{
				ElementID:   el.ID,
				ElementType: el.Type,
				Content:     el.Content,
				Profile:     profile,
				Tone:        p.tone,
			})
		}
		return true
	})

	var (
		mu  sync.Mutex
		out = make(map[string]string, len(reqs))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for _, req := range reqs {
		g.Go(func() error {
			text, err := p.provider.Rewrite(gctx, req)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				metrics.PersonalizedElementsTotal.WithLabelValues("failed").Inc()
				p.log.Warn("rewrite element", zap.String("element", req.ElementID), zap.Error(err))
				return nil
			}
			text = clean(text)
			if text == "" {
				metrics.PersonalizedElementsTotal.WithLabelValues("empty").Inc()
				return nil
			}
			metrics.PersonalizedElementsTotal.WithLabelValues("ok").Inc()
			mu.Lock()
			out[req.ElementID] = text
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	p.log.Info("personalized document",
		zap.String("document", doc.ID),
		zap.Int("elements", len(reqs)),
		zap.Int("replaced", len(out)))
	return out, nil
}

func personalizable(el *domain.Element) bool {
	switch el.Type {
	case domain.ElementText, domain.ElementButton, domain.ElementLink:
		return strings.TrimSpace(el.Content) != ""
	}
	return false
}

// clean strips whitespace and one pair of wrapping quotes models like to add.
func clean(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			s = strings.TrimSpace(s[1 : len(s)-1])
		}
	}
	return s
}
