package services

import "errors"

// MinTransactionAmount is the smallest deposit or withdrawal the wallet
// accepts, in platform currency units.
const MinTransactionAmount = 10.0

// Terminal outcomes of wallet and registration operations. Handlers map
// these to HTTP statuses; nothing retries automatically.
var (
	ErrInvalidAmount      = errors.New("amount below the minimum of R$ 10")
	ErrInsufficientFunds  = errors.New("insufficient balance")
	ErrTournamentFull     = errors.New("tournament is full")
	ErrAlreadyRegistered  = errors.New("user already registered for this tournament")
	ErrTournamentClosed   = errors.New("tournament is closed")
	ErrUserNotFound       = errors.New("user not found")
	ErrTournamentNotFound = errors.New("tournament not found")

	// ErrStoreUnavailable wraps database failures. Inside a transaction it
	// means nothing was committed; the caller may simply retry the whole
	// operation.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrPartialRegistration is raised by the ledger audit when a charge
	// exists without a matching roster entry (or the reverse). It is kept
	// distinct from ErrStoreUnavailable so operators get paged instead of
	// users seeing a generic failure.
	ErrPartialRegistration = errors.New("registration left ledger and roster inconsistent")
)
