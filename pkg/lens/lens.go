// Package lens wires the analytical engine together: one Session owns a
// dataset provider, the conversational agent and the visualization
// recommender, and routes replies back into filter state.
package lens

import (
	"context"

	"github.com/cognicore/lens/pkg/lens/agent"
	"github.com/cognicore/lens/pkg/lens/config"
	"github.com/cognicore/lens/pkg/lens/fallback"
	"github.com/cognicore/lens/pkg/lens/provider"
	"github.com/cognicore/lens/pkg/lens/recommend"
	"github.com/cognicore/lens/pkg/lens/snapshot"
)

// Options configures a Session. Every field is optional: a nil Fetcher
// keeps the session offline on cached or bundled data, a nil Cache
// disables the offline cache, a nil Config uses the defaults.
type Options struct {
	Config  *config.Config
	Fetcher provider.Fetcher
	Cache   snapshot.Store
}

// Session is the engine facade used by frontends. It is safe for
// concurrent use; all mutable state lives in the provider.
type Session struct {
	cfg         *config.Config
	provider    *provider.Provider
	agent       *agent.Agent
	recommender *recommend.Recommender
}

// New creates a Session around the given backend and cache.
func New(opts Options) *Session {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	p := provider.New(provider.Options{
		Config:   cfg,
		Fetcher:  opts.Fetcher,
		Cache:    opts.Cache,
		Fallback: fallback.Bundle(),
	})
	return &Session{
		cfg:         cfg,
		provider:    p,
		agent:       agent.New(cfg),
		recommender: recommend.New(),
	}
}

// LoadRun switches the session to a run.
func (s *Session) LoadRun(ctx context.Context, runID string) error {
	return s.provider.LoadRun(ctx, runID)
}

// Ask classifies one utterance against the current snapshot. The reply is
// not applied; call Apply to commit its filter mutations.
func (s *Session) Ask(question string) agent.Reply {
	return s.agent.Ask(question, s.provider.Snapshot())
}

// Apply commits a reply's filter mutations to the provider and reports
// whether anything changed.
func (s *Session) Apply(reply agent.Reply) bool {
	changed := false
	for dim, values := range reply.FiltersToSet {
		s.provider.SetFilter(dim, values)
		changed = true
	}
	for _, dim := range reply.FiltersToClear {
		if s.provider.ClearFilter(dim) {
			changed = true
		}
	}
	return changed
}

// Suggest recommends a visualization for the question over the current
// intelligence bundle.
func (s *Session) Suggest(question string) recommend.Suggestion {
	return s.recommender.SuggestVisualization(question, s.provider.Snapshot().Intelligence)
}

// Provider exposes the underlying dataset provider for direct reads.
func (s *Session) Provider() *provider.Provider {
	return s.provider
}
