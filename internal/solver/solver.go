// Package solver implements a full-depth minimax search with alpha-beta
// pruning over tic-tac-toe positions. X is the maximizing side.
package solver

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/tictactoe-solver/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solver/internal/tictactoe"
)

// Infinity bounds the search window; terminal scores are always in [-1, 1].
const Infinity = 1 << 30

var noMove = entity.Move{Row: -1, Col: -1}

type Stats struct {
	Visited  uint64 `json:"visited"`
	Terminal uint64 `json:"terminal"`
	Cutoffs  uint64 `json:"cutoffs"`
}

func (that *Stats) add(other Stats) {
	that.Visited += other.Visited
	that.Terminal += other.Terminal
	that.Cutoffs += other.Cutoffs
}

// MoveValue is the game-theoretic value of playing Move.
type MoveValue struct {
	Move  entity.Move `json:"move"`
	Value int         `json:"value"`
}

type Config struct {
	Logger *slog.Logger

	// NoPrune disables alpha-beta cutoffs. The chosen moves and values are
	// identical, only more nodes are visited.
	NoPrune bool
}

// Solver is not safe for concurrent use; Analyze fans out internally.
type Solver struct {
	logger  *slog.Logger
	noPrune bool
	stats   Stats
}

func New(cfg Config) *Solver {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Solver{
		logger:  logger.With("component", "solver"),
		noPrune: cfg.NoPrune,
	}
}

// BestMove - returns the optimal move for the side to move, using a
// default solver.
func BestMove(board entity.Board) (entity.Move, bool, error) {
	return New(Config{}).BestMove(board)
}

// Minimax - plain minimax without pruning. Returns the board's value and,
// unless the board is terminal, the move achieving it.
func Minimax(board entity.Board) (int, entity.Move, error) {
	sv := New(Config{NoPrune: true})
	if tictactoe.IsTerminal(board) {
		return tictactoe.Score(board), noMove, nil
	}
	return sv.search(board)
}

// Stats - counters accumulated over every search run by this solver.
func (that *Solver) Stats() Stats {
	return that.stats
}

// BestMove - returns the move leading to the best outcome for the side to
// move under perfect play from both sides. ok is false on a terminal board.
// Among equally valued moves the first in row-major order wins.
func (that *Solver) BestMove(board entity.Board) (entity.Move, bool, error) {
	if tictactoe.IsTerminal(board) {
		return noMove, false, nil
	}

	value, move, err := that.search(board)
	if err != nil {
		return noMove, false, err
	}

	that.logger.Debug("best move found",
		"board", board.String(),
		"move", move.String(),
		"value", value,
		"visited", that.stats.Visited,
	)

	return move, true, nil
}

// Evaluate - the game-theoretic value of the board: +1 X wins, -1 O wins,
// 0 draw.
func (that *Solver) Evaluate(board entity.Board) (int, error) {
	if tictactoe.IsTerminal(board) {
		that.stats.Visited++
		that.stats.Terminal++
		return tictactoe.Score(board), nil
	}

	value, _, err := that.search(board)
	return value, err
}

func (that *Solver) search(board entity.Board) (int, entity.Move, error) {
	switch player := tictactoe.NextPlayer(board); player {
	case entity.MarkX:
		return that.maximize(board, -Infinity, Infinity)
	case entity.MarkO:
		return that.minimize(board, -Infinity, Infinity)
	default:
		return 0, noMove, fmt.Errorf("%w: next player is %s", apperror.ErrInternalConsistency, player)
	}
}

func (that *Solver) maximize(board entity.Board, alpha, beta int) (int, entity.Move, error) {
	that.stats.Visited++
	if tictactoe.IsTerminal(board) {
		that.stats.Terminal++
		return tictactoe.Score(board), noMove, nil
	}

	best, bestMove := -Infinity, noMove
	for _, move := range tictactoe.LegalMoves(board) {
		child, err := tictactoe.Apply(board, move)
		if err != nil {
			return 0, noMove, err
		}

		value, _, err := that.minimize(child, alpha, beta)
		if err != nil {
			return 0, noMove, err
		}

		if value > best {
			best, bestMove = value, move
		}

		alpha = max(alpha, best)
		if !that.noPrune && beta <= alpha {
			that.stats.Cutoffs++
			break
		}
	}

	return best, bestMove, nil
}

func (that *Solver) minimize(board entity.Board, alpha, beta int) (int, entity.Move, error) {
	that.stats.Visited++
	if tictactoe.IsTerminal(board) {
		that.stats.Terminal++
		return tictactoe.Score(board), noMove, nil
	}

	best, bestMove := Infinity, noMove
	for _, move := range tictactoe.LegalMoves(board) {
		child, err := tictactoe.Apply(board, move)
		if err != nil {
			return 0, noMove, err
		}

		value, _, err := that.maximize(child, alpha, beta)
		if err != nil {
			return 0, noMove, err
		}

		if value < best {
			best, bestMove = value, move
		}

		beta = min(beta, best)
		if !that.noPrune && beta <= alpha {
			that.stats.Cutoffs++
			break
		}
	}

	return best, bestMove, nil
}

// Analyze - values every legal move on the board. Each root move is searched
// in its own goroutine with a private solver; results are in row-major move
// order. Returns an empty slice on a terminal board.
func (that *Solver) Analyze(ctx context.Context, board entity.Board) ([]MoveValue, error) {
	if tictactoe.IsTerminal(board) {
		return []MoveValue{}, nil
	}

	moves := tictactoe.LegalMoves(board)
	results := make([]MoveValue, len(moves))
	stats := make([]Stats, len(moves))

	grp, ctx := errgroup.WithContext(ctx)
	for i, move := range moves {
		grp.Go(func() error {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("analysis of %s canceled: %w", move, err)
			}

			child, err := tictactoe.Apply(board, move)
			if err != nil {
				return fmt.Errorf("failed to apply root move: %w", err)
			}

			sub := &Solver{logger: that.logger, noPrune: that.noPrune}
			value, err := sub.Evaluate(child)
			if err != nil {
				return fmt.Errorf("failed to evaluate %s: %w", move, err)
			}

			results[i] = MoveValue{Move: move, Value: value}
			stats[i] = sub.stats
			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		return nil, err
	}

	for _, st := range stats {
		that.stats.add(st)
	}

	that.logger.Debug("analysis finished", "board", board.String(), "moves", len(results))

	return results, nil
}
