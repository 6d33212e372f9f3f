package schedule

import "errors"

var (
	// ErrInvalidRule indicates a malformed recurrence rule.
	ErrInvalidRule = errors.New("invalid recurrence rule")
	// ErrInvalidPeriodKey indicates a period key that cannot be parsed.
	ErrInvalidPeriodKey = errors.New("invalid period key")
)
