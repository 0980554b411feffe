package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const (
	scoreKey = "scores"

	fieldPlayerWins = "playerWins"
	fieldAIWins     = "aiWins"
	fieldDraws      = "draws"
)

type ScoreRepository interface {
	Get(ctx context.Context) (*entity.Score, error)
	IncrementPlayerWins(ctx context.Context) error
	IncrementAIWins(ctx context.Context) error
	IncrementDraws(ctx context.Context) error
	Reset(ctx context.Context) error
}

type dbScore struct {
	client *redis.Client
}

// NewScoreRepository - tallies live in a single redis hash.
func NewScoreRepository(client *redis.Client) ScoreRepository {
	return &dbScore{
		client: client,
	}
}

func (that *dbScore) Get(ctx context.Context) (*entity.Score, error) {
	values, err := that.client.HGetAll(ctx, scoreKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get scores: %w", err)
	}

	// missing fields read as zero
	var score entity.Score
	for field, target := range map[string]*int64{
		fieldPlayerWins: &score.PlayerWins,
		fieldAIWins:     &score.AIWins,
		fieldDraws:      &score.Draws,
	} {
		raw, ok := values[field]
		if !ok {
			continue
		}

		if *target, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", field, err)
		}
	}

	return &score, nil
}

func (that *dbScore) IncrementPlayerWins(ctx context.Context) error {
	return that.increment(ctx, fieldPlayerWins)
}

func (that *dbScore) IncrementAIWins(ctx context.Context) error {
	return that.increment(ctx, fieldAIWins)
}

func (that *dbScore) IncrementDraws(ctx context.Context) error {
	return that.increment(ctx, fieldDraws)
}

func (that *dbScore) Reset(ctx context.Context) error {
	if err := that.client.Del(ctx, scoreKey).Err(); err != nil {
		return fmt.Errorf("failed to reset scores: %w", err)
	}

	return nil
}

func (that *dbScore) increment(ctx context.Context, field string) error {
	if err := that.client.HIncrBy(ctx, scoreKey, field, 1).Err(); err != nil {
		return fmt.Errorf("failed to increment %s: %w", field, err)
	}

	return nil
}
