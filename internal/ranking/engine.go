// Package ranking produces the relevance-ordered recommendation list: a
// remote provider permutation when available, a deterministic local overlap
// ordering otherwise.
package ranking

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/voluntree/voluntree/internal/ai"
	"github.com/voluntree/voluntree/internal/catalog"
)

// TopN bounds a successful remote ranking to the most relevant entries.
const TopN = 3

// Source tells the caller how the result was ordered.
type Source string

const (
	// SourceCatalog means the catalog was returned unranked: either there
	// was nothing to rank on, or the provider said nothing is relevant.
	SourceCatalog Source = "catalog"
	// SourceRemote means the provider's permutation was applied.
	SourceRemote Source = "remote"
	// SourceLocal means the deterministic overlap fallback was applied.
	SourceLocal Source = "local"
)

// Result is a recommendation outcome. Items is always usable; the engine
// never surfaces an error to its caller.
type Result struct {
	Items  []catalog.Opportunity
	Source Source

	generation uint64
}

// Engine coordinates remote ranking with the local fallback and suppresses
// results of superseded requests.
type Engine struct {
	ranker ai.Ranker
	logger *zap.Logger

	mu      sync.Mutex
	issued  uint64
	current Result
}

// New creates an engine. A nil ranker disables the remote path entirely; the
// engine then always orders locally.
func New(ranker ai.Ranker, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{ranker: ranker, logger: logger}
}

// Recommend ranks the catalog for the given interests. When the result of
// this call has been superseded by a newer one issued meanwhile, the newer
// visible result is returned instead (last writer by issuance order wins).
func (e *Engine) Recommend(ctx context.Context, interests []string, items []catalog.Opportunity) Result {
	generation := e.issue()

	result := e.rank(ctx, interests, items)
	result.generation = generation

	return e.commit(result)
}

// Current returns the most recently committed result.
func (e *Engine) Current() Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

func (e *Engine) issue() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.issued++
	return e.issued
}

// commit installs the result unless a newer request was issued meanwhile.
// Stale results are discarded and the visible result is returned instead.
func (e *Engine) commit(result Result) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	if result.generation < e.issued {
		e.logger.Debug("discarding stale ranking result",
			zap.Uint64("generation", result.generation),
			zap.Uint64("latest_generation", e.issued),
		)
		return e.current
	}

	e.current = result
	return result
}

func (e *Engine) rank(ctx context.Context, interests []string, items []catalog.Opportunity) Result {
	// Nothing to rank on: hand back the catalog untouched.
	if len(interests) == 0 {
		return Result{Items: items, Source: SourceCatalog}
	}

	if e.ranker == nil {
		return Result{Items: scoreLocally(interests, items), Source: SourceLocal}
	}

	indices, err := e.ranker.RankIndices(ctx, interests, catalog.Summarize(items))
	if err != nil {
		e.logger.Warn("remote ranking failed, using local ordering",
			zap.String("provider", e.ranker.Provider()),
			zap.Error(err),
		)
		return Result{Items: scoreLocally(interests, items), Source: SourceLocal}
	}

	picked := applyPermutation(indices, items)
	if len(picked) == 0 {
		// The provider answered but found nothing relevant. That is an
		// empty result, not a failure: show the full catalog unranked.
		e.logger.Info("remote ranking returned no usable entries",
			zap.String("provider", e.ranker.Provider()),
		)
		return Result{Items: items, Source: SourceCatalog}
	}

	return Result{Items: picked, Source: SourceRemote}
}

// applyPermutation reorders the items by the provider's 1-based indices,
// dropping out-of-range and repeated positions, bounded to TopN.
func applyPermutation(indices []int, items []catalog.Opportunity) []catalog.Opportunity {
	picked := make([]catalog.Opportunity, 0, TopN)
	used := make(map[int]struct{}, len(indices))

	for _, index := range indices {
		if index < 1 || index > len(items) {
			continue
		}
		if _, ok := used[index]; ok {
			continue
		}
		used[index] = struct{}{}

		picked = append(picked, items[index-1])
		if len(picked) == TopN {
			break
		}
	}

	return picked
}
