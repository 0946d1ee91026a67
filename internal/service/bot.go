package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-solver/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solver/internal/repository"
	"github.com/rocketscienceinc/tictactoe-solver/internal/solver"
	"github.com/rocketscienceinc/tictactoe-solver/internal/tictactoe"
)

var ErrNoAvailableMoves = errors.New("no available moves")

type BotService interface {
	// Suggest - returns the optimal move for the side to move.
	Suggest(ctx context.Context, board entity.Board) (entity.Move, error)
	// MakeTurn - plays the optimal move and returns the resulting board.
	MakeTurn(ctx context.Context, board entity.Board) (entity.Board, entity.Move, error)
	// Analyze - values every legal move on the board.
	Analyze(ctx context.Context, board entity.Board) ([]solver.MoveValue, error)
}

type moveRepo interface {
	Save(ctx context.Context, board entity.Board, move entity.Move) error
	GetByBoard(ctx context.Context, board entity.Board) (entity.Move, error)
}

type botService struct {
	logger   *slog.Logger
	moveRepo moveRepo
}

func NewBotService(logger *slog.Logger, moveRepo moveRepo) BotService {
	return &botService{
		logger:   logger.With("component", "bot"),
		moveRepo: moveRepo,
	}
}

func (that *botService) Suggest(ctx context.Context, board entity.Board) (entity.Move, error) {
	if err := validateBoard(board); err != nil {
		return entity.Move{}, err
	}

	move, err := that.moveRepo.GetByBoard(ctx, board)
	switch {
	case err == nil && move.InBounds() && board.At(move) == entity.Empty:
		return move, nil
	case err == nil:
		that.logger.Warn("ignoring stale cached move", "board", board.String(), "move", move.String())
	case !errors.Is(err, repository.ErrMoveNotFound):
		// the cache is optional, a broken one only costs a search
		that.logger.Warn("could not read move cache", "board", board.String(), "error", err)
	}

	move, ok, err := solver.New(solver.Config{Logger: that.logger}).BestMove(board)
	if err != nil {
		return entity.Move{}, fmt.Errorf("search failed: %w", err)
	}

	if !ok {
		return entity.Move{}, ErrNoAvailableMoves
	}

	if err = that.moveRepo.Save(ctx, board, move); err != nil {
		that.logger.Warn("could not write move cache", "board", board.String(), "error", err)
	}

	return move, nil
}

func (that *botService) MakeTurn(ctx context.Context, board entity.Board) (entity.Board, entity.Move, error) {
	move, err := that.Suggest(ctx, board)
	if err != nil {
		return board, entity.Move{}, err
	}

	next, err := tictactoe.Apply(board, move)
	if err != nil {
		return board, entity.Move{}, fmt.Errorf("bot failed to make turn: %w", err)
	}

	return next, move, nil
}

func (that *botService) Analyze(ctx context.Context, board entity.Board) ([]solver.MoveValue, error) {
	if err := validateBoard(board); err != nil {
		return nil, err
	}

	results, err := solver.New(solver.Config{Logger: that.logger}).Analyze(ctx, board)
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}

	return results, nil
}

func validateBoard(board entity.Board) error {
	if !board.IsWellFormed() {
		return fmt.Errorf("%w: X=%d O=%d", apperror.ErrMalformedBoard, board.Count(entity.MarkX), board.Count(entity.MarkO))
	}

	if tictactoe.IsTerminal(board) {
		return apperror.ErrGameFinished
	}

	return nil
}
