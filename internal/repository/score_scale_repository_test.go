package repository

import (
	"context"
	"testing"

	"github.com/lshigami/examprep/internal/model"
	"github.com/lshigami/examprep/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreScaleReplaceAndLookup(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewScoreScaleRepository(db)
	ctx := context.Background()
	section := uint(7)

	require.NoError(t, repo.Replace(ctx, 1, &section, []model.ScoreScale{{RawScore: 10, ScaledScore: 20}, {RawScore: 11, ScaledScore: 21}}))
	require.NoError(t, repo.Replace(ctx, 1, nil, []model.ScoreScale{{RawScore: 10, ScaledScore: 99}}))

	got, err := repo.Lookup(ctx, 1, &section, 11)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 21, *got)

	got, err = repo.Lookup(ctx, 1, nil, 10)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 99, *got, "composite rows are kept apart from section rows")

	got, err = repo.Lookup(ctx, 1, &section, 12)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, repo.Replace(ctx, 1, &section, []model.ScoreScale{{RawScore: 12, ScaledScore: 22}}))
	got, err = repo.Lookup(ctx, 1, &section, 10)
	require.NoError(t, err)
	assert.Nil(t, got, "replace drops the previous rows")

	rows, err := repo.FindByTest(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
