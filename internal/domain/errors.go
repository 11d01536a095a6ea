package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound     = errors.New("account not found")
	ErrAccountExists       = errors.New("account already registered")
	ErrInvalidIdentity     = errors.New("external identity is required")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrAlreadyGranted      = errors.New("grant already received")
	ErrAccountTooNew       = errors.New("account is too new for this operation")

	// Amount errors
	ErrInvalidAmount  = errors.New("amount must be positive")
	ErrAmountTooLarge = errors.New("amount exceeds maximum allowed")

	// Market errors
	ErrEventNotFound      = errors.New("event not found")
	ErrRouletteNotFound   = errors.New("roulette not found")
	ErrInvalidMarketState = errors.New("market is not in a valid state for this operation")
	ErrInvalidMarketKind  = errors.New("unknown market kind")
	ErrDuplicateBet       = errors.New("account already has a bet on this market")
	ErrInvalidChoice      = errors.New("invalid choice")
	ErrInvalidNumber      = errors.New("roulette number out of range")
	ErrInvalidEventName   = errors.New("invalid event name")

	// Jokenpo errors
	ErrSessionNotFound = errors.New("jokenpo session not found")
	ErrSessionExpired  = errors.New("jokenpo session no longer accepts moves")
	ErrSessionResolved = errors.New("jokenpo session already resolved")
	ErrDuplicateMove   = errors.New("account already submitted a move")
	ErrInvalidMove     = errors.New("invalid jokenpo move")

	// Spend errors
	ErrMessageTooLong       = errors.New("message exceeds maximum length")
	ErrEmptyMessage         = errors.New("message cannot be empty")
	ErrAirplaneLimitReached = errors.New("daily airplane limit reached")
)
