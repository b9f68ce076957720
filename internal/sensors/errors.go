package sensors

import "codeberg.org/mutker/hwstat/internal/errors"

const (
	ErrStructuralMismatch = errors.ErrStructuralMismatch
	ErrDuplicateKey       = errors.ErrDuplicateKey
)

// lineError locates a failure in the sensors output.
type lineError struct {
	Group  string
	Line   int
	Text   string
	Reason string
}
