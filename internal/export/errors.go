package export

import "codeberg.org/mutker/hwstat/internal/errors"

const (
	ErrWriteOutput       = errors.ErrWriteOutput
	ErrUnsupportedFormat = errors.ErrInvalidFormat
	ErrUnquotableField   = errors.ErrStructuralMismatch
)
