// Package inspect is a small read-only JSON surface over a running
// engine.Game, useful for operators watching a hand play out. It is not
// part of the command surface spec.md 6 defines — every mutation still
// goes through engine.Game.Dispatch — so this package only ever reads.
//
// Grounded on the teacher's internal/api: Routes/middleware/response
// helpers are carried over near verbatim, trimmed from the teacher's full
// player-action REST surface (ready/fold/check/call/bet/raise/peers) down
// to the handful of GET-only endpoints a read-only inspector needs.
package inspect

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/RedPaladin7/onchainholdem/internal/deck"
	"github.com/RedPaladin7/onchainholdem/internal/engine"
)

// Handler serves read-only JSON views of a single Game.
type Handler struct {
	Game *engine.Game
}

// NewHandler wraps game for inspection.
func NewHandler(game *engine.Game) *Handler {
	return &Handler{Game: game}
}

// Routes builds the inspection router: health, table state, the player
// list, and the opened board, each GET-only.
func (h *Handler) Routes() http.Handler {
	r := mux.NewRouter()
	r.Use(loggingMiddleware)
	r.Use(recoveryMiddleware)

	r.HandleFunc("/inspect/health", h.handleHealth).Methods("GET")
	r.HandleFunc("/inspect/table", h.handleTable).Methods("GET")
	r.HandleFunc("/inspect/players", h.handlePlayers).Methods("GET")
	r.HandleFunc("/inspect/board", h.handleBoard).Methods("GET")

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// tableView is a flattened, JSON-friendly snapshot of GameConfig+GameState.
type tableView struct {
	GameNumber     uint32 `json:"gameNumber"`
	Phase          string `json:"phase"`
	CurrentTurn    uint8  `json:"currentTurn"`
	Pot            uint64 `json:"pot"`
	CurrentCall    uint64 `json:"currentCallAmount"`
	CurrentPlayers uint8  `json:"currentPlayers"`
	DealerIndex    uint8  `json:"dealerIndex"`
}

func (h *Handler) handleTable(w http.ResponseWriter, r *http.Request) {
	g := h.Game
	view := tableView{
		GameNumber:     g.Config.GameNumber,
		Phase:          g.State.Phase.String(),
		CurrentTurn:    g.State.CurrentTurn,
		Pot:            g.State.Pot,
		CurrentCall:    g.State.CurrentCallAmount,
		CurrentPlayers: g.Config.CurrentPlayers,
		DealerIndex:    g.Config.DealerIndex,
	}
	writeJSON(w, http.StatusOK, view)
}

// playerView is a flattened, JSON-friendly snapshot of one PlayerState,
// deliberately omitting hole-card points: chip counts and bets are public
// by design (spec.md 1's Non-goals), but the core's own EC points aren't
// meaningful to a JSON client.
type playerView struct {
	SeatIndex  uint8  `json:"seatIndex"`
	Chips      uint64 `json:"chips"`
	CurrentBet uint64 `json:"currentBet"`
	IsFolded   bool   `json:"isFolded"`
	IsAllIn    bool   `json:"isAllIn"`
}

func (h *Handler) handlePlayers(w http.ResponseWriter, r *http.Request) {
	views := make([]playerView, 0, len(h.Game.Players))
	for _, p := range h.Game.Players {
		views = append(views, playerView{
			SeatIndex:  p.SeatIndex,
			Chips:      p.Chips,
			CurrentBet: p.CurrentBet,
			IsFolded:   p.IsFolded,
			IsAllIn:    p.IsAllIn,
		})
	}
	writeJSON(w, http.StatusOK, views)
}

// boardView exposes only the community cards already opened (spec.md 4.7:
// a card's index is only fixed once every lock inverse has been applied),
// named for display via internal/deck rather than as a bare index.
type boardView struct {
	Opened uint8    `json:"opened"`
	Cards  []string `json:"cards"`
}

func (h *Handler) handleBoard(w http.ResponseWriter, r *http.Request) {
	board := h.Game.Board
	view := boardView{Opened: board.Opened, Cards: make([]string, 0, board.Opened)}
	for i := uint8(0); i < board.Opened; i++ {
		view.Cards = append(view.Cards, deck.Short(board.Indices[i]))
	}
	writeJSON(w, http.StatusOK, view)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logrus.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start),
		}).Info("inspect request")
	})
}

func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logrus.WithField("error", err).Error("panic recovered in inspect handler")
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
