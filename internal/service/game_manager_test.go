package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benbeisheim/chess-backend/internal/model"
)

func TestGameManagerLifecycle(t *testing.T) {
	gm := NewGameManager(context.Background(), ManagerOptions{})

	game, err := gm.CreateGame(model.White)
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if gm.GameCount() != 1 {
		t.Errorf("GameCount = %d, want 1", gm.GameCount())
	}

	got, err := gm.GetGame(game.ID)
	if err != nil || got != game {
		t.Errorf("GetGame = %v, %v", got, err)
	}

	if err := gm.RemoveGame(game.ID); err != nil {
		t.Fatalf("RemoveGame: %v", err)
	}
	if _, err := gm.GetGame(game.ID); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("GetGame after remove error = %v", err)
	}
	if err := gm.RemoveGame(game.ID); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("second RemoveGame error = %v", err)
	}
}

func TestGameManagerCustomLayout(t *testing.T) {
	layout := model.Layout{
		ToMove: model.Black,
		White:  []model.Placement{{Kind: model.King, Row: 7, Col: 4}},
		Black:  []model.Placement{{Kind: model.King, Row: 0, Col: 4}, {Kind: model.Queen, Row: 0, Col: 3}},
	}
	gm := NewGameManager(context.Background(), ManagerOptions{Layout: &layout})

	game, err := gm.CreateGame(model.White)
	if err != nil {
		t.Fatal(err)
	}
	snap := game.Snapshot()
	if snap.Turn != model.Black {
		t.Errorf("turn = %s, want black", snap.Turn)
	}
	if p := snap.Board[0][3]; p == nil || p.Kind != model.Queen {
		t.Errorf("(0,3) = %+v, want black queen", p)
	}
}

func TestGameManagerReap(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	gm := NewGameManager(ctx, ManagerOptions{TTL: time.Minute, ReapInterval: time.Hour})

	idle, err := gm.CreateGame(model.White)
	if err != nil {
		t.Fatal(err)
	}

	if n := gm.reap(time.Now()); n != 0 {
		t.Errorf("reaped %d fresh games", n)
	}
	if n := gm.reap(time.Now().Add(2 * time.Minute)); n != 1 {
		t.Errorf("reaped %d games, want 1", n)
	}
	if _, err := gm.GetGame(idle.ID); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("idle game still present: %v", err)
	}
}
