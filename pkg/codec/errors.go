package codec

import "github.com/matzehuels/joinery/pkg/errors"

var (
	// ErrMalformed is returned when attribute text does not parse as the
	// expected literal-list shape.
	ErrMalformed = errors.New(errors.ErrCodeMalformedAttribute, "malformed attribute value")

	// ErrUnsetFrame is returned by coordinate codecs given an unset frame.
	ErrUnsetFrame = errors.New(errors.ErrCodeUnsetFrame, "marker does not define a frame")

	// ErrNonFinite is returned when a value to encode is NaN or infinite.
	ErrNonFinite = errors.New(errors.ErrCodeInvalidInput, "number is not finite")
)
