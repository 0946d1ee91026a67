package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-solver/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solver/internal/tictactoe"
)

// Ply is a single move of a match and the board it produced.
type Ply struct {
	Number int          `json:"number"`
	Player entity.Mark  `json:"player"`
	Move   entity.Move  `json:"move"`
	Board  entity.Board `json:"board"`
}

type Match struct {
	ID      string         `json:"id"`
	Start   entity.Board   `json:"start"`
	Plies   []Ply          `json:"plies"`
	Board   entity.Board   `json:"board"`
	Outcome entity.Outcome `json:"outcome"`
}

type botService interface {
	MakeTurn(ctx context.Context, board entity.Board) (entity.Board, entity.Move, error)
}

type MatchManager struct {
	logger     *slog.Logger
	botService botService
}

func NewMatchManager(logger *slog.Logger, botService botService) *MatchManager {
	return &MatchManager{
		logger:     logger.With("component", "match"),
		botService: botService,
	}
}

// SelfPlay - lets the bot play both sides from the start board until the game
// ends. From the initial board this always ends in a draw.
func (that *MatchManager) SelfPlay(ctx context.Context, start entity.Board) (*Match, error) {
	if !start.IsWellFormed() {
		return nil, apperror.ErrMalformedBoard
	}

	if tictactoe.IsTerminal(start) {
		return nil, apperror.ErrGameFinished
	}

	match := &Match{
		ID:    uuid.NewString(),
		Start: start,
		Plies: make([]Ply, 0, start.Count(entity.Empty)),
		Board: start,
	}
	log := that.logger.With("match", match.ID)

	for !tictactoe.IsTerminal(match.Board) {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("match %s interrupted: %w", match.ID, err)
		}

		player := tictactoe.NextPlayer(match.Board)
		next, move, err := that.botService.MakeTurn(ctx, match.Board)
		if err != nil {
			return nil, fmt.Errorf("failed to make turn: %w", err)
		}

		match.Board = next
		match.Plies = append(match.Plies, Ply{
			Number: len(match.Plies) + 1,
			Player: player,
			Move:   move,
			Board:  next,
		})

		log.Debug("ply played", "player", player.String(), "move", move.String(), "board", next.String())
	}

	match.Outcome = tictactoe.Outcome(match.Board)
	log.Info("match finished", "outcome", match.Outcome.String(), "plies", len(match.Plies))

	return match, nil
}
