package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
)

var ErrMoveNotFound = errors.New("move not found")

const moveKeyPrefix = "bestmove:"

// MoveRepository caches solved positions. Entries are derived from the board
// alone, so losing them only costs a new search.
type MoveRepository interface {
	Save(ctx context.Context, board entity.Board, move entity.Move) error
	GetByBoard(ctx context.Context, board entity.Board) (entity.Move, error)
}

type dbMove struct {
	client *redis.Client
	ttl    time.Duration
}

// NewMoveRepository - redis backed cache. A zero ttl keeps entries forever.
func NewMoveRepository(client *redis.Client, ttl time.Duration) MoveRepository {
	return &dbMove{
		client: client,
		ttl:    ttl,
	}
}

func (that *dbMove) Save(ctx context.Context, board entity.Board, move entity.Move) error {
	moveJSON, err := json.Marshal(move)
	if err != nil {
		return fmt.Errorf("could not marshal move: %w", err)
	}

	err = that.client.Set(ctx, moveKey(board), moveJSON, that.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set move: %w", err)
	}

	return nil
}

func (that *dbMove) GetByBoard(ctx context.Context, board entity.Board) (entity.Move, error) {
	response, err := that.client.Get(ctx, moveKey(board)).Result()

	if errors.Is(err, redis.Nil) {
		return entity.Move{}, ErrMoveNotFound
	}

	if err != nil {
		return entity.Move{}, fmt.Errorf("%w by board", err)
	}

	var move entity.Move
	if err = json.Unmarshal([]byte(response), &move); err != nil {
		return entity.Move{}, fmt.Errorf("failed to unmarshal move: %w", err)
	}

	return move, nil
}

func moveKey(board entity.Board) string {
	return moveKeyPrefix + board.String()
}
