// service/game_manager.go
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/google/uuid"

	"github.com/benbeisheim/chess-backend/internal/model"
)

var ErrGameNotFound = errors.New("game not found")

type GameManager struct {
	games  map[string]*model.Game
	layout func(bottom model.Color) model.Layout
	ttl    time.Duration
	mu     sync.RWMutex
}

type ManagerOptions struct {
	// Layout overrides the standard starting array when set.
	Layout *model.Layout
	// TTL is how long a game may sit idle before the reaper drops it.
	// Zero disables reaping.
	TTL time.Duration
	// ReapInterval defaults to a minute.
	ReapInterval time.Duration
}

func NewGameManager(ctx context.Context, opts ManagerOptions) *GameManager {
	gm := &GameManager{
		games:  make(map[string]*model.Game),
		layout: model.StandardLayout,
		ttl:    opts.TTL,
	}
	if opts.Layout != nil {
		layout := *opts.Layout
		gm.layout = func(model.Color) model.Layout { return layout }
	}

	if opts.TTL > 0 {
		interval := opts.ReapInterval
		if interval <= 0 {
			interval = time.Minute
		}
		go gm.reapIdleGames(ctx, interval)
	}

	return gm
}

// reapIdleGames drops games nobody has touched for longer than the TTL.
func (gm *GameManager) reapIdleGames(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := gm.reap(now); n > 0 {
				log.WithField("removed", n).Info("reaped idle games")
			}
		}
	}
}

func (gm *GameManager) reap(now time.Time) int {
	gm.mu.Lock()
	var stale []*model.Game
	for id, game := range gm.games {
		if now.Sub(game.LastActive()) > gm.ttl {
			stale = append(stale, game)
			delete(gm.games, id)
		}
	}
	gm.mu.Unlock()

	for _, game := range stale {
		game.CloseConnections()
	}
	return len(stale)
}

func (gm *GameManager) CreateGame(bottom model.Color) (*model.Game, error) {
	gameID := uuid.New().String()
	game, err := model.NewGame(gameID, bottom, gm.layout(bottom))
	if err != nil {
		return nil, err
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()

	gm.games[gameID] = game
	log.WithFields(log.Fields{"game": gameID, "bottom": bottom}).Info("created game")
	return game, nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}

	return game, nil
}

func (gm *GameManager) RemoveGame(gameID string) error {
	gm.mu.Lock()
	game, exists := gm.games[gameID]
	delete(gm.games, gameID)
	gm.mu.Unlock()

	if !exists {
		return ErrGameNotFound
	}
	game.CloseConnections()
	log.WithField("game", gameID).Info("removed game")
	return nil
}

func (gm *GameManager) GameCount() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	return len(gm.games)
}
