package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/testing/suite"
)

func TestScoreRepository_Get(t *testing.T) {
	t.Run("Empty storage reads as zero", func(t *testing.T) {
		ctx, st := suite.New(t)

		scoreRepo := NewScoreRepository(st.Storage)

		// When: reading scores before any game
		score, err := scoreRepo.Get(ctx)

		// Then: every tally is zero
		require.NoError(t, err)
		assert.Equal(t, &entity.Score{}, score)
	})

	t.Run("Counts every increment", func(t *testing.T) {
		ctx, st := suite.New(t)

		scoreRepo := NewScoreRepository(st.Storage)

		// Given: two player wins, one computer win and three draws
		require.NoError(t, scoreRepo.IncrementPlayerWins(ctx))
		require.NoError(t, scoreRepo.IncrementPlayerWins(ctx))
		require.NoError(t, scoreRepo.IncrementAIWins(ctx))
		for range 3 {
			require.NoError(t, scoreRepo.IncrementDraws(ctx))
		}

		// When: reading scores
		score, err := scoreRepo.Get(ctx)

		// Then: the tallies add up
		require.NoError(t, err)
		assert.Equal(t, &entity.Score{PlayerWins: 2, AIWins: 1, Draws: 3}, score)

		// When: the storage is emptied under the repository
		st.Flush(ctx)

		// Then: the tallies read as zero again
		score, err = scoreRepo.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, &entity.Score{}, score)
	})

	t.Run("Reports corrupted values", func(t *testing.T) {
		ctx, st := suite.New(t)

		scoreRepo := NewScoreRepository(st.Storage)

		// Given: a tally overwritten with garbage
		require.NoError(t, st.Storage.HSet(ctx, scoreKey, fieldDraws, "many").Err())

		// When: reading scores
		_, err := scoreRepo.Get(ctx)

		// Then: a parse error is returned
		require.Error(t, err)
		assert.Contains(t, err.Error(), fieldDraws)
	})
}

func TestScoreRepository_Reset(t *testing.T) {
	ctx, st := suite.New(t)

	scoreRepo := NewScoreRepository(st.Storage)

	// Given: some recorded results
	require.NoError(t, scoreRepo.IncrementAIWins(ctx))
	require.NoError(t, scoreRepo.IncrementDraws(ctx))

	// When: resetting the scores
	err := scoreRepo.Reset(ctx)

	// Then: every tally is back to zero
	require.NoError(t, err)

	score, err := scoreRepo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, &entity.Score{}, score)
}
