package game

import (
	"errors"
	"fmt"
	"time"
)

// ErrInsufficientResource indicates a spend larger than the current stock.
var ErrInsufficientResource = errors.New("insufficient resource")

// ErrNotOwned indicates an attempt to remove a creature that is not in the party.
var ErrNotOwned = errors.New("creature not owned")

// ErrInvalidState indicates an action that does not fit the current battle state:
// acting with no battle open, or opening a second one. Surfaces treat it as a no-op.
var ErrInvalidState = errors.New("invalid battle state")

// ErrNoCompanion indicates an action that needs an active companion before one was chosen.
var ErrNoCompanion = errors.New("no active companion")

// ErrUnknownItem indicates a shop or bag request for an item that does not exist.
var ErrUnknownItem = errors.New("unknown item")

// ErrCooldown indicates the supply stop was visited before its cooldown expired.
var ErrCooldown = errors.New("supply stop on cooldown")

// InsufficientResourceError reports which resource ran short.
type InsufficientResourceError struct {
	Resource Resource
	Have     int
	Want     int
}

func (e *InsufficientResourceError) Error() string {
	return fmt.Sprintf("not enough %s: have %d, need %d", e.Resource.Label(), e.Have, e.Want)
}

// Is matches ErrInsufficientResource.
func (e *InsufficientResourceError) Is(target error) bool {
	return target == ErrInsufficientResource
}

// DataProviderError wraps a failed species or evolution lookup.
type DataProviderError struct {
	Op  string
	Err error
}

func (e *DataProviderError) Error() string {
	if e.Err == nil {
		return "species provider: " + e.Op
	}
	return fmt.Sprintf("species provider: %s: %v", e.Op, e.Err)
}

func (e *DataProviderError) Unwrap() error {
	return e.Err
}

// IsDataProviderError reports whether err came from the species provider.
// Those failures leave state untouched and can simply be retried.
func IsDataProviderError(err error) bool {
	var target *DataProviderError
	return errors.As(err, &target)
}

// CooldownError carries the time left before the supply stop is ready again.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("supply stop ready in %s", e.Remaining.Round(time.Second))
}

// Is matches ErrCooldown.
func (e *CooldownError) Is(target error) bool {
	return target == ErrCooldown
}
