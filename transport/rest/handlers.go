package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-solver/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solver/internal/solver"
	"github.com/rocketscienceinc/tictactoe-solver/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-solver/internal/usecase"
)

const maxBodyBytes = 1 << 10

type Handlers interface {
	BestMove(w http.ResponseWriter, r *http.Request)
	Analyze(w http.ResponseWriter, r *http.Request)
	SelfPlay(w http.ResponseWriter, r *http.Request)
}

type botService interface {
	MakeTurn(ctx context.Context, board entity.Board) (entity.Board, entity.Move, error)
	Analyze(ctx context.Context, board entity.Board) ([]solver.MoveValue, error)
}

type matchManager interface {
	SelfPlay(ctx context.Context, start entity.Board) (*usecase.Match, error)
}

type boardRequest struct {
	Board *entity.Board `json:"board"`
}

type bestMoveResponse struct {
	Move    entity.Move    `json:"move"`
	Player  entity.Mark    `json:"player"`
	Board   entity.Board   `json:"board"`
	Outcome entity.Outcome `json:"outcome"`
}

type analyzeResponse struct {
	Board  entity.Board       `json:"board"`
	Player entity.Mark        `json:"player"`
	Moves  []solver.MoveValue `json:"moves"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type handlers struct {
	logger       *slog.Logger
	botService   botService
	matchManager matchManager
}

func NewHandlers(logger *slog.Logger, botService botService, matchManager matchManager) Handlers {
	return &handlers{
		logger:       logger.With("component", "rest"),
		botService:   botService,
		matchManager: matchManager,
	}
}

func (that *handlers) BestMove(w http.ResponseWriter, r *http.Request) {
	board, ok := that.decodeBoard(w, r, false)
	if !ok {
		return
	}

	next, move, err := that.botService.MakeTurn(r.Context(), board)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, bestMoveResponse{
		Move:    move,
		Player:  tictactoe.NextPlayer(board),
		Board:   next,
		Outcome: tictactoe.Outcome(next),
	})
}

func (that *handlers) Analyze(w http.ResponseWriter, r *http.Request) {
	board, ok := that.decodeBoard(w, r, false)
	if !ok {
		return
	}

	moves, err := that.botService.Analyze(r.Context(), board)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, analyzeResponse{
		Board:  board,
		Player: tictactoe.NextPlayer(board),
		Moves:  moves,
	})
}

func (that *handlers) SelfPlay(w http.ResponseWriter, r *http.Request) {
	board, ok := that.decodeBoard(w, r, true)
	if !ok {
		return
	}

	match, err := that.matchManager.SelfPlay(r.Context(), board)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, match)
}

// decodeBoard - reads {"board": "..."} from the body. With optional set an
// empty body or missing board means the initial board.
func (that *handlers) decodeBoard(w http.ResponseWriter, r *http.Request, optional bool) (entity.Board, bool) {
	var req boardRequest

	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req)
	if err != nil && !(optional && errors.Is(err, io.EOF)) {
		that.writeError(w, err)
		return entity.Board{}, false
	}

	if req.Board == nil {
		if !optional {
			that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "board is required"})
			return entity.Board{}, false
		}
		return tictactoe.InitialBoard(), true
	}

	return *req.Board, true
}

func (that *handlers) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var sizeErr *http.MaxBytesError
	switch {
	case errors.As(err, &sizeErr):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, apperror.ErrMalformedBoard),
		errors.Is(err, apperror.ErrInvalidMove),
		errors.As(err, &syntaxErr),
		errors.As(err, &typeErr),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF):
		status = http.StatusBadRequest
	case errors.Is(err, apperror.ErrGameFinished):
		status = http.StatusConflict
	default:
		that.logger.Error("request failed", "error", err)
	}

	that.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("could not write response", "error", err)
	}
}
