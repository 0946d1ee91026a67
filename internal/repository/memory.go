package repository

import (
	"context"
	"sync"

	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
)

type memMove struct {
	mu    sync.RWMutex
	moves map[entity.Board]entity.Move
}

// NewMemoryMoveRepository - process-local cache, used when no redis is configured.
func NewMemoryMoveRepository() MoveRepository {
	return &memMove{
		moves: make(map[entity.Board]entity.Move),
	}
}

func (that *memMove) Save(_ context.Context, board entity.Board, move entity.Move) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.moves[board] = move
	return nil
}

func (that *memMove) GetByBoard(_ context.Context, board entity.Board) (entity.Move, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	move, ok := that.moves[board]
	if !ok {
		return entity.Move{}, ErrMoveNotFound
	}
	return move, nil
}
