package model

import "errors"

var (
	ErrOutOfBounds        = errors.New("square out of bounds")
	ErrNoPiece            = errors.New("no piece at start square")
	ErrNotYourTurn        = errors.New("not your turn")
	ErrIllegalDestination = errors.New("destination is not a legal move")
	ErrPromotionPending   = errors.New("promotion choice pending")
	ErrNoPendingPromotion = errors.New("no promotion pending")
	ErrInvalidPromotion   = errors.New("invalid promotion piece")
	ErrNoHistory          = errors.New("no history")
	ErrInvalidLayout      = errors.New("invalid layout")
	ErrInvalidColor       = errors.New("invalid color")
)

// Reason maps an engine rejection to the short code reported to clients.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrOutOfBounds):
		return "out_of_bounds"
	case errors.Is(err, ErrNoPiece):
		return "no_piece"
	case errors.Is(err, ErrNotYourTurn):
		return "not_your_turn"
	case errors.Is(err, ErrIllegalDestination):
		return "illegal_destination"
	case errors.Is(err, ErrPromotionPending):
		return "promotion_pending"
	case errors.Is(err, ErrNoPendingPromotion):
		return "no_pending_promotion"
	case errors.Is(err, ErrInvalidPromotion):
		return "invalid_promotion"
	case errors.Is(err, ErrNoHistory):
		return "no_history"
	case errors.Is(err, ErrInvalidLayout):
		return "invalid_layout"
	case errors.Is(err, ErrInvalidColor):
		return "invalid_color"
	}
	return "unknown"
}
