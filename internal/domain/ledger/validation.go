package ledger

import (
	"fmt"
	"strings"
)

// referenceNumberLength is the exact digit count required for authorization
// reference numbers.
const referenceNumberLength = 15

// ValidateReference checks the reference fields on a completing change for a
// task that requires them: the number must be exactly 15 numeric digits and
// the name must be non-empty.
func ValidateReference(number, name string) error {
	if len(number) != referenceNumberLength {
		return fmt.Errorf("%w: reference number must be exactly %d digits", ErrInvalidReference, referenceNumberLength)
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: reference number must contain only digits", ErrInvalidReference)
		}
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: reference name is required", ErrInvalidReference)
	}
	return nil
}
