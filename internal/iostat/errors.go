package iostat

import "codeberg.org/mutker/hwstat/internal/errors"

const (
	ErrStructuralMismatch = errors.ErrStructuralMismatch
	ErrNumericCoercion    = errors.ErrNumericCoercion
	ErrDuplicateKey       = errors.ErrDuplicateKey
)

// lineError is attached to parse errors so the offending input is visible.
type lineError struct {
	Section string
	Line    string
	Reason  string
}
