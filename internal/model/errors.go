package model

import "errors"

var (
	ErrOutOfBounds        = errors.New("position out of bounds")
	ErrIllegalMove        = errors.New("illegal move")
	ErrNotYourTurn        = errors.New("not your turn")
	ErrNotInGame          = errors.New("player not in game")
	ErrGameFull           = errors.New("game is full")
	ErrGameNotFound       = errors.New("game not found")
	ErrGameExists         = errors.New("game already exists")
	ErrGameOver           = errors.New("game is over")
	ErrPromotionPending   = errors.New("promotion pending")
	ErrNoPromotionPending = errors.New("no promotion pending")
	ErrInvalidPromotion   = errors.New("invalid promotion piece")
	ErrAlreadyQueued      = errors.New("player already in queue")
)
