package engine

import "errors"

// Configuration errors are fatal: an engine is never built from an invalid config.
var ErrInvalidConfig = errors.New("invalid configuration")

// Invalid operations. Returning one of these guarantees the simulation state is unchanged.
var (
	ErrSlotOutOfRange      = errors.New("slot index out of range")
	ErrSlotOccupied        = errors.New("slot already occupied")
	ErrSlotEmpty           = errors.New("slot is empty")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrUnknownArchetype    = errors.New("unknown generator archetype")
	ErrNotYetAvailable     = errors.New("generator not yet available")
	ErrContinuousGenerator = errors.New("continuous generators do not queue runtime")
	ErrGameOver            = errors.New("game over")
)

// ReasonCode maps an engine error to a short machine-friendly code.
// It returns "" for nil and "error" for anything it does not recognise.
func ReasonCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrSlotOutOfRange):
		return "slot_out_of_range"
	case errors.Is(err, ErrSlotOccupied):
		return "slot_occupied"
	case errors.Is(err, ErrSlotEmpty):
		return "slot_empty"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrUnknownArchetype):
		return "unknown_generator"
	case errors.Is(err, ErrNotYetAvailable):
		return "not_yet_available"
	case errors.Is(err, ErrContinuousGenerator):
		return "continuous_generator"
	case errors.Is(err, ErrGameOver):
		return "game_over"
	case errors.Is(err, ErrInvalidConfig):
		return "invalid_config"
	default:
		return "error"
	}
}
