package generator

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingOverloadSymbol marks an overload with no symbol for the target
// compiler. It is only ever logged; the overload is left out.
var ErrMissingOverloadSymbol = errors.New("no symbol for compiler")

type UnknownBaseClassError struct {
	Class string
	Base  string
}

func (e *UnknownBaseClassError) Error() string {
	return fmt.Sprintf("class %s: unknown base class %s", e.Class, e.Base)
}

type CyclicInheritanceError struct {
	Classes []string
}

func (e *CyclicInheritanceError) Error() string {
	return fmt.Sprintf("cyclic inheritance: %s", strings.Join(e.Classes, " -> "))
}

// DuplicateFieldError reports a flattened layout with two members of the
// same name, such as two bases that each carry a vtable pointer.
type DuplicateFieldError struct {
	Class string
	Field string
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("class %s: duplicate field %s", e.Class, e.Field)
}
