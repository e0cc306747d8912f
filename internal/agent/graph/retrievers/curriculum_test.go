package retrievers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurriculumRetrieverRanksByOverlap(t *testing.T) {
	r := NewCurriculumRetriever()

	docs, err := r.Retrieve(context.Background(), "derivatives and the chain rule")
	require.NoError(t, err)
	require.NotEmpty(t, docs)

	// the rules snippet mentions both derivatives and the chain rule, so it
	// must outrank the definition snippet
	assert.Equal(t, "calc-derivative-rules", docs[0].ID)
	for _, d := range docs {
		assert.NotEmpty(t, d.Content)
		assert.Contains(t, d.MetaData, "grade_level")
	}
}

func TestCurriculumRetrieverNoMatch(t *testing.T) {
	r := NewCurriculumRetriever()

	docs, err := r.Retrieve(context.Background(), "photosynthesis chlorophyll")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestCurriculumRetrieverEmptyQuery(t *testing.T) {
	r := NewCurriculumRetriever()

	docs, err := r.Retrieve(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestCurriculumRetrieverIgnoresShortTerms(t *testing.T) {
	r := NewCurriculumRetriever()

	// every term under three characters is skipped, so nothing can score
	docs, err := r.Retrieve(context.Background(), "a of to is")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestCurriculumRetrieverCancelledContext(t *testing.T) {
	r := NewCurriculumRetriever()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Retrieve(ctx, "fractions")
	require.ErrorIs(t, err, context.Canceled)
}
