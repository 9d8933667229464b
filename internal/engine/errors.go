package engine

import (
	"errors"
	"fmt"
)

// ErrConstructionExhausted is matched by every ConstructionExhaustedError.
var ErrConstructionExhausted = errors.New("construction exhausted")

// ConstructionExhaustedError reports that the greedy constructor could not
// produce a valid, non-empty solution within the attempt budget.
type ConstructionExhaustedError struct {
	Attempts int
}

func (e *ConstructionExhaustedError) Error() string {
	return fmt.Sprintf("unable to build a valid initial solution after %d attempts", e.Attempts)
}

func (e *ConstructionExhaustedError) Is(target error) bool {
	return target == ErrConstructionExhausted
}
