package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-solver/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solver/internal/repository"
)

var errRedisDown = errors.New("redis down")

type mockMoveRepo struct {
	mock.Mock
}

func (m *mockMoveRepo) Save(ctx context.Context, board entity.Board, move entity.Move) error {
	args := m.Called(ctx, board, move)
	return args.Error(0)
}

func (m *mockMoveRepo) GetByBoard(ctx context.Context, board entity.Board) (entity.Move, error) {
	args := m.Called(ctx, board)
	return args.Get(0).(entity.Move), args.Error(1)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustParse(t *testing.T, s string) entity.Board {
	t.Helper()

	board, err := entity.ParseBoard(s)
	require.NoError(t, err)
	return board
}

func TestBotService_Suggest(t *testing.T) {
	ctx := context.Background()

	t.Run("Returns cached move without searching", func(t *testing.T) {
		// Given: a cache that already knows the board
		repo := &mockMoveRepo{}
		board := mustParse(t, "X........")
		cached := entity.Move{Row: 1, Col: 1}
		repo.On("GetByBoard", mock.Anything, board).Return(cached, nil).Once()

		bot := NewBotService(newTestLogger(), repo)

		// When: a move is requested
		move, err := bot.Suggest(ctx, board)

		// Then: the cached move is returned and nothing is written
		require.NoError(t, err)
		assert.Equal(t, cached, move)
		repo.AssertExpectations(t)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Searches and stores on cache miss", func(t *testing.T) {
		// Given: X threatens the top row and O is to move
		repo := &mockMoveRepo{}
		board := mustParse(t, "XX./.O./...")
		block := entity.Move{Row: 0, Col: 2}
		repo.On("GetByBoard", mock.Anything, board).Return(entity.Move{}, repository.ErrMoveNotFound).Once()
		repo.On("Save", mock.Anything, board, block).Return(nil).Once()

		bot := NewBotService(newTestLogger(), repo)

		// When: a move is requested
		move, err := bot.Suggest(ctx, board)

		// Then: O blocks and the result is cached
		require.NoError(t, err)
		assert.Equal(t, block, move)
		repo.AssertExpectations(t)
	})

	t.Run("Stale cached move is replaced by a search", func(t *testing.T) {
		// Given: a cache entry pointing at a cell that is already taken
		repo := &mockMoveRepo{}
		board := mustParse(t, "XX./OO./...")
		win := entity.Move{Row: 0, Col: 2}
		repo.On("GetByBoard", mock.Anything, board).Return(entity.Move{Row: 0, Col: 0}, nil).Once()
		repo.On("Save", mock.Anything, board, win).Return(nil).Once()

		bot := NewBotService(newTestLogger(), repo)

		// When: the bot plays
		next, move, err := bot.MakeTurn(ctx, board)

		// Then: the searched move is played and written back to the cache
		require.NoError(t, err)
		assert.Equal(t, win, move)
		assert.Equal(t, "XXXOO....", next.String())
		repo.AssertExpectations(t)
	})

	t.Run("Cached move off the board is ignored", func(t *testing.T) {
		repo := &mockMoveRepo{}
		board := mustParse(t, "XX./OO./...")
		repo.On("GetByBoard", mock.Anything, board).Return(entity.Move{Row: 5, Col: 5}, nil).Once()
		repo.On("Save", mock.Anything, board, entity.Move{Row: 0, Col: 2}).Return(nil).Once()

		move, err := NewBotService(newTestLogger(), repo).Suggest(ctx, board)

		require.NoError(t, err)
		assert.Equal(t, entity.Move{Row: 0, Col: 2}, move)
		repo.AssertExpectations(t)
	})

	t.Run("Broken cache does not fail the request", func(t *testing.T) {
		repo := &mockMoveRepo{}
		board := mustParse(t, "XX./OO./...")
		repo.On("GetByBoard", mock.Anything, board).Return(entity.Move{}, errRedisDown).Once()
		repo.On("Save", mock.Anything, board, mock.Anything).Return(errRedisDown).Once()

		bot := NewBotService(newTestLogger(), repo)

		move, err := bot.Suggest(ctx, board)

		require.NoError(t, err)
		assert.Equal(t, entity.Move{Row: 0, Col: 2}, move)
	})

	t.Run("Finished game", func(t *testing.T) {
		repo := &mockMoveRepo{}
		bot := NewBotService(newTestLogger(), repo)

		_, err := bot.Suggest(ctx, mustParse(t, "XXX/OO./..."))

		require.ErrorIs(t, err, apperror.ErrGameFinished)
		repo.AssertNotCalled(t, "GetByBoard", mock.Anything, mock.Anything)
	})

	t.Run("Malformed board", func(t *testing.T) {
		bot := NewBotService(newTestLogger(), &mockMoveRepo{})

		_, err := bot.Suggest(ctx, entity.Board{{entity.MarkO}})

		require.ErrorIs(t, err, apperror.ErrMalformedBoard)
	})
}

func TestBotService_MakeTurn(t *testing.T) {
	// Given: a bot backed by an in-memory cache
	bot := NewBotService(newTestLogger(), repository.NewMemoryMoveRepository())
	board := mustParse(t, "XX./OO./...")

	// When: the bot plays
	next, move, err := bot.MakeTurn(context.Background(), board)

	// Then: X completes the top row
	require.NoError(t, err)
	assert.Equal(t, entity.Move{Row: 0, Col: 2}, move)
	assert.Equal(t, "XXXOO....", next.String())
	assert.Equal(t, "XX.OO....", board.String())
}

func TestBotService_Analyze(t *testing.T) {
	bot := NewBotService(newTestLogger(), repository.NewMemoryMoveRepository())

	results, err := bot.Analyze(context.Background(), mustParse(t, "XX./OO./..."))

	require.NoError(t, err)
	require.Len(t, results, 5)
	assert.Equal(t, entity.Move{Row: 0, Col: 2}, results[0].Move)
	assert.Equal(t, 1, results[0].Value)
}
