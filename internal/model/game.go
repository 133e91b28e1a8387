package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/gofiber/websocket/v2"

	"github.com/benbeisheim/chess-backend/internal/ws"
)

// The connections watching a specific game
type GameConnections struct {
	connections map[string]*websocket.Conn // connID -> connection
	mu          sync.Mutex
}

// Game owns one GameState and the sockets observing it. Every engine call
// goes through mu, so the engine itself never sees concurrent access.
type Game struct {
	ID          string
	mu          sync.Mutex
	state       *GameState
	bottom      Color
	layout      Layout
	lastActive  time.Time
	connections *GameConnections
}

// Snapshot is the JSON view of a game sent to front ends.
type Snapshot struct {
	ID               string                   `json:"id"`
	Board            Board                    `json:"board"`
	Turn             Color                    `json:"turn"`
	BottomColor      Color                    `json:"bottomColor"`
	IsCheck          bool                     `json:"isCheck"`
	Kings            map[Color]Square         `json:"kings"`
	Castling         map[Color]CastlingRights `json:"castling"`
	MoveCount        int                      `json:"moveCount"`
	Outcome          Outcome                  `json:"outcome"`
	PendingPromotion *SimpleMove              `json:"pendingPromotion"`
	LastMove         *SimpleMove              `json:"lastMove"`
	Captured         CapturedPieces           `json:"captured"`
}

func NewGame(id string, bottom Color, layout Layout) (*Game, error) {
	state, err := NewGameStateFromLayout(bottom, layout)
	if err != nil {
		return nil, err
	}
	return &Game{
		ID:          id,
		state:       state,
		bottom:      bottom,
		layout:      layout,
		lastActive:  time.Now(),
		connections: NewGameConnections(),
	}, nil
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]*websocket.Conn),
	}
}

// Snapshot builds the front end view of the current position.
func (gs *GameState) Snapshot() Snapshot {
	s := Snapshot{
		Board:       gs.Board(),
		Turn:        gs.turn,
		BottomColor: gs.bottom,
		IsCheck:     gs.inCheck,
		Kings: map[Color]Square{
			White: gs.KingSquare(White),
			Black: gs.KingSquare(Black),
		},
		Castling: map[Color]CastlingRights{
			White: gs.CastlingRights(White),
			Black: gs.CastlingRights(Black),
		},
		MoveCount: gs.MoveCount(),
		Outcome:   gs.Outcome(),
		Captured:  gs.Captured(),
	}
	if pending, ok := gs.PendingPromotion(); ok {
		s.PendingPromotion = &pending
	}
	if n := len(gs.log); n > 0 {
		last := gs.log[n-1].simple()
		s.LastMove = &last
	}
	return s
}

func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.snapshot()
}

func (g *Game) snapshot() Snapshot {
	s := g.state.Snapshot()
	s.ID = g.ID
	return s
}

func (g *Game) LastActive() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.lastActive
}

func (g *Game) Piece(row, col int) (*Piece, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.state.GetPiece(row, col)
}

// ValidMoves returns an empty list for an empty square.
func (g *Game) ValidMoves(sq Square) ([]Square, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !sq.InBounds() {
		return nil, fmt.Errorf("%w: %s", ErrOutOfBounds, sq)
	}
	moves := g.state.ValidMoves(sq)
	if moves == nil {
		moves = []Square{}
	}
	return moves, nil
}

func (g *Game) Move(from, to Square) (MoveStatus, Snapshot, error) {
	var status MoveStatus
	snap, err := g.mutate(func(gs *GameState) error {
		var err error
		status, err = gs.MovePiece(from, to)
		return err
	})
	fields := log.Fields{"game": g.ID, "from": from.String(), "to": to.String(), "status": status}
	if err != nil {
		log.WithFields(fields).WithError(err).Info("move rejected")
	} else {
		log.WithFields(fields).Debug("move accepted")
	}
	return status, snap, err
}

func (g *Game) Promote(kind PieceKind) (Snapshot, error) {
	snap, err := g.mutate(func(gs *GameState) error {
		return gs.CompletePromotion(kind)
	})
	if err != nil {
		log.WithFields(log.Fields{"game": g.ID, "kind": kind}).WithError(err).Info("promotion rejected")
	}
	return snap, err
}

func (g *Game) CancelPromotion() (Snapshot, error) {
	return g.mutate(func(gs *GameState) error {
		return gs.CancelPromotion()
	})
}

// Undo reports false, without an error, when there is no history.
func (g *Game) Undo() (bool, Snapshot, error) {
	snap, err := g.mutate(func(gs *GameState) error {
		_, err := gs.UndoMove()
		return err
	})
	if errors.Is(err, ErrNoHistory) {
		log.WithField("game", g.ID).Debug("undo with no history")
		return false, snap, nil
	}
	return err == nil, snap, err
}

// Reset starts the game over from the layout it was created with.
func (g *Game) Reset() (Snapshot, error) {
	return g.mutate(func(gs *GameState) error {
		fresh, err := NewGameStateFromLayout(g.bottom, g.layout)
		if err != nil {
			return err
		}
		*gs = *fresh
		return nil
	})
}

// mutate runs fn under the game lock and pushes the new state to every
// watcher when fn succeeds.
func (g *Game) mutate(fn func(gs *GameState) error) (Snapshot, error) {
	g.mu.Lock()
	err := fn(g.state)
	g.lastActive = time.Now()
	snap := g.snapshot()
	g.mu.Unlock()

	if err == nil {
		g.broadcastState(snap)
	}
	return snap, err
}

func (g *Game) RegisterConnection(connID string, conn *websocket.Conn) {
	g.connections.mu.Lock()
	g.connections.connections[connID] = conn
	g.connections.mu.Unlock()
	log.WithFields(log.Fields{"game": g.ID, "conn": connID}).Info("registered connection")

	g.broadcastState(g.Snapshot())
}

func (g *Game) UnregisterConnection(connID string) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if _, exists := g.connections.connections[connID]; exists {
		log.WithFields(log.Fields{"game": g.ID, "conn": connID}).Info("unregistered connection")
		delete(g.connections.connections, connID)
	}
}

// CloseConnections tells every watcher the game is gone.
func (g *Game) CloseConnections() {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	for connID, conn := range g.connections.connections {
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game closed"),
		)
		conn.Close()
		delete(g.connections.connections, connID)
	}
}

func (g *Game) ConnectionCount() int {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	return len(g.connections.connections)
}

// Send writes msg to a single watcher.
func (g *Game) Send(connID string, msg ws.Message) error {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	conn, ok := g.connections.connections[connID]
	if !ok {
		return fmt.Errorf("connection %s not registered", connID)
	}
	return conn.WriteJSON(msg)
}

// broadcastState writes under the connections lock so two broadcasts never
// interleave frames on the same socket.
func (g *Game) broadcastState(snap Snapshot) {
	payload, err := json.Marshal(snap)
	if err != nil {
		log.WithField("game", g.ID).WithError(err).Error("failed to marshal state")
		return
	}

	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	for connID, conn := range g.connections.connections {
		if err := conn.WriteJSON(ws.Message{
			Type:    ws.MessageTypeGameState,
			Payload: json.RawMessage(payload),
		}); err != nil {
			log.WithFields(log.Fields{"game": g.ID, "conn": connID}).WithError(err).Warn("failed to send state, dropping connection")
			delete(g.connections.connections, connID)
		}
	}
}
