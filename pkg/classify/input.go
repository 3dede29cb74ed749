package classify

import (
	"fmt"

	"github.com/Goden-Gun/errdisplay/pkg/codes"
)

// Shape identifies which origin an error came from.
type Shape int

const (
	ShapeUnclassified Shape = iota
	ShapeCoded
	ShapeValidation
	ShapeWrapped
	ShapeNamed
)

var shapeNames = map[Shape]string{
	ShapeUnclassified: "unclassified",
	ShapeCoded:        "coded",
	ShapeValidation:   "validation",
	ShapeWrapped:      "wrapped",
	ShapeNamed:        "named",
}

func (s Shape) String() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("shape(%d)", int(s))
}

// MarshalText renders the shape by name.
func (s Shape) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a shape name.
func (s *Shape) UnmarshalText(text []byte) error {
	for shape, name := range shapeNames {
		if name == string(text) {
			*s = shape
			return nil
		}
	}
	return fmt.Errorf("unknown shape %q", text)
}

// Input is one error, already sorted into exactly one origin variant.
type Input interface {
	Shape() Shape
}

// CodedError comes from a remote API and carries an explicit code.
type CodedError struct {
	Code    string
	Context string

	// HasContext marks a context that was sent empty. A non-empty Context
	// is always used.
	HasContext bool

	// Params is nil when the error carried no params; an empty map still
	// resolves [invalid_param].
	Params map[string]any
}

// ValidationWarning comes from local input validation.
type ValidationWarning struct {
	Validator string
	Message   string
}

// WrappedError is an API envelope around a coded error.
type WrappedError struct {
	Err CodedError
}

// NamedError comes from an external system that identifies errors by name.
type NamedError struct {
	Name string
}

// Unclassified is anything that matched none of the known shapes.
type Unclassified struct {
	Raw any
}

func (CodedError) Shape() Shape        { return ShapeCoded }
func (ValidationWarning) Shape() Shape { return ShapeValidation }
func (WrappedError) Shape() Shape      { return ShapeWrapped }
func (NamedError) Shape() Shape        { return ShapeNamed }
func (Unclassified) Shape() Shape      { return ShapeUnclassified }

// normalized is the common form every variant reduces to.
type normalized struct {
	shape      Shape
	code       string
	message    string
	validation bool
	context    string
	hasContext bool
	params     map[string]any
}

func normalize(in Input) normalized {
	fallback := normalized{shape: ShapeUnclassified, code: codes.GeneralSupportError}
	switch v := in.(type) {
	case CodedError:
		return normalized{
			shape:      ShapeCoded,
			code:       v.Code,
			context:    v.Context,
			hasContext: v.HasContext || v.Context != "",
			params:     v.Params,
		}
	case *CodedError:
		if v == nil {
			return fallback
		}
		return normalize(*v)
	case ValidationWarning:
		return normalized{shape: ShapeValidation, message: v.Message, validation: true}
	case *ValidationWarning:
		if v == nil {
			return fallback
		}
		return normalize(*v)
	case WrappedError:
		n := normalize(v.Err)
		n.shape = ShapeWrapped
		return n
	case *WrappedError:
		if v == nil {
			return fallback
		}
		return normalize(*v)
	case NamedError:
		return normalized{shape: ShapeNamed, code: v.Name}
	case *NamedError:
		if v == nil {
			return fallback
		}
		return normalize(*v)
	default:
		return fallback
	}
}
