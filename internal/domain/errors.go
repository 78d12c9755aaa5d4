package domain

import "errors"

// Ledger error taxonomy. The engine validates before applying, so any
// of these returned from an operation guarantees no balance changed.
var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrIncorrectPIN        = errors.New("Incorrect PIN")
	ErrInsufficientBalance = errors.New("Insufficient Balance")
	ErrCreditLimitExceeded = errors.New("Amount exceeds available limit.")
	ErrAlreadySettled      = errors.New("already settled")
	ErrAlreadyClaimed      = errors.New("reward already claimed")
	ErrCorruptState        = errors.New("ledger state is corrupt")
	ErrSplitTooSmall       = errors.New("Amount is too small to split between these participants.")
	ErrTooManyParticipants = errors.New("You can split with up to 4 others only.")
	ErrInvalidExtension    = errors.New("invalid extension period")
	ErrNotFound            = errors.New("not found")
	ErrInvalidRecipient    = errors.New("invalid recipient")
	ErrPayLaterDisabled    = errors.New("pay later is not enabled")
)
