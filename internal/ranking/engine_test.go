package ranking

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/voluntree/voluntree/internal/catalog"
)

type stubRanker struct {
	indices []int
	err     error
}

func (s *stubRanker) RankIndices(_ context.Context, _ []string, _ string) ([]int, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.indices, nil
}

func (s *stubRanker) Provider() string { return "stub" }

func testItems() []catalog.Opportunity {
	return []catalog.Opportunity{
		{ID: 1, Title: "Garden", Interests: []string{"Environment", "Community"}},
		{ID: 2, Title: "Tutoring", Interests: []string{"Education"}},
		{ID: 3, Title: "Food Bank", Interests: []string{"Community"}},
		{ID: 4, Title: "Tree Planting", Interests: []string{"Environment"}},
		{ID: 5, Title: "Dog Walking", Interests: []string{"Animals"}},
	}
}

func ids(items []catalog.Opportunity) []int {
	result := make([]int, len(items))
	for i, item := range items {
		result[i] = item.ID
	}
	return result
}

func TestRecommendEmptyInterestsPassthrough(t *testing.T) {
	engine := New(&stubRanker{indices: []int{5, 4}}, zap.NewNop())
	items := testItems()

	result := engine.Recommend(context.Background(), nil, items)

	assert.Equal(t, SourceCatalog, result.Source)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, ids(result.Items))
}

func TestRecommendRemotePermutationTruncated(t *testing.T) {
	engine := New(&stubRanker{indices: []int{4, 1, 3, 2, 5}}, zap.NewNop())

	result := engine.Recommend(context.Background(), []string{"environment"}, testItems())

	assert.Equal(t, SourceRemote, result.Source)
	assert.Equal(t, []int{4, 1, 3}, ids(result.Items))
}

func TestRecommendDropsInvalidAndRepeatedIndices(t *testing.T) {
	engine := New(&stubRanker{indices: []int{0, 9, 2, 2, -1, 5}}, zap.NewNop())

	result := engine.Recommend(context.Background(), []string{"environment"}, testItems())

	assert.Equal(t, SourceRemote, result.Source)
	assert.Equal(t, []int{2, 5}, ids(result.Items))
}

func TestRecommendSmallCatalogYieldsMinN(t *testing.T) {
	items := testItems()[:2]
	engine := New(&stubRanker{indices: []int{2, 1}}, zap.NewNop())

	result := engine.Recommend(context.Background(), []string{"education"}, items)

	assert.Equal(t, []int{2, 1}, ids(result.Items))
}

func TestRecommendEmptyRemoteResultReturnsFullCatalog(t *testing.T) {
	engine := New(&stubRanker{indices: []int{}}, zap.NewNop())
	items := testItems()

	result := engine.Recommend(context.Background(), []string{"environment"}, items)

	// An empty success means "nothing relevant", not "service down": the
	// full unranked catalog comes back, not the local-scored ordering.
	assert.Equal(t, SourceCatalog, result.Source)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, ids(result.Items))
}

func TestRecommendFallsBackOnError(t *testing.T) {
	engine := New(&stubRanker{err: errors.New("connection refused")}, zap.NewNop())

	result := engine.Recommend(context.Background(), []string{"environment"}, testItems())

	assert.Equal(t, SourceLocal, result.Source)
	// Overlap 1 for items 1 and 4, zero for the rest; ties keep catalog order.
	assert.Equal(t, []int{1, 4, 2, 3, 5}, ids(result.Items))
	assert.Len(t, result.Items, 5)
}

func TestRecommendNilRankerUsesLocalOrdering(t *testing.T) {
	engine := New(nil, zap.NewNop())

	result := engine.Recommend(context.Background(), []string{"community", "animals"}, testItems())

	assert.Equal(t, SourceLocal, result.Source)
	// Items 1 and 3 overlap "community", item 5 overlaps "animals".
	assert.Equal(t, []int{1, 3, 5, 2, 4}, ids(result.Items))
}

func TestLocalScoringIsCaseInsensitive(t *testing.T) {
	engine := New(nil, zap.NewNop())

	upper := engine.Recommend(context.Background(), []string{"ENVIRONMENT"}, testItems())
	lower := engine.Recommend(context.Background(), []string{"environment"}, testItems())

	assert.Equal(t, ids(lower.Items), ids(upper.Items))
}

// sequenceRanker blocks its first call until released and answers later
// calls immediately, so a test can finish request two before request one.
type sequenceRanker struct {
	mu      sync.Mutex
	calls   int
	started chan struct{}
	release chan struct{}
}

func (r *sequenceRanker) RankIndices(_ context.Context, _ []string, _ string) ([]int, error) {
	r.mu.Lock()
	r.calls++
	call := r.calls
	r.mu.Unlock()

	if call == 1 {
		close(r.started)
		<-r.release
		return []int{5, 4, 3}, nil
	}
	return []int{1, 2, 3}, nil
}

func (r *sequenceRanker) Provider() string { return "sequence" }

func TestStaleResponseSuppressed(t *testing.T) {
	ranker := &sequenceRanker{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	engine := New(ranker, zap.NewNop())
	items := testItems()

	firstDone := make(chan Result, 1)
	go func() {
		firstDone <- engine.Recommend(context.Background(), []string{"environment"}, items)
	}()
	<-ranker.started

	second := engine.Recommend(context.Background(), []string{"education"}, items)
	require.Equal(t, []int{1, 2, 3}, ids(second.Items))

	// Release the first request; its result resolves after the second and
	// must not replace it in the visible state.
	close(ranker.release)
	first := <-firstDone

	assert.Equal(t, []int{1, 2, 3}, ids(first.Items))
	assert.Equal(t, []int{1, 2, 3}, ids(engine.Current().Items))
}
