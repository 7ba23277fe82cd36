package autowire

import (
	"strconv"
	"strings"
)

// ClassNotFoundError is returned when a class name is not registered.
type ClassNotFoundError struct{ Class string }

func (e *ClassNotFoundError) Error() string {
	return "autowire: class " + strconv.Quote(e.Class) + " not found"
}

// UnexpectedOptionsError is returned when Create receives runtime options.
// All wiring lives in the class definition.
type UnexpectedOptionsError struct {
	Class string
	Keys  []string
}

func (e *UnexpectedOptionsError) Error() string {
	return "autowire: unexpected options passed to factory for " + strconv.Quote(e.Class) +
		" (" + strings.Join(e.Keys, ", ") + ")"
}

// InvalidConfigTypeError is returned when a config directive names a type
// other than array, object or yaml.
type InvalidConfigTypeError struct {
	Type   string
	Config string
}

func (e *InvalidConfigTypeError) Error() string {
	return "autowire: invalid configType " + e.Type + " for config " + strconv.Quote(e.Config)
}

// Reasons carried by UnresolvableParameterError.
const (
	ReasonNoType      = "no type"
	ReasonBuiltinType = "builtin type"
)

// UnresolvableParameterError is returned when a parameter has neither an
// explicit service nor a declared type a service name can be derived from.
type UnresolvableParameterError struct {
	Class  string
	Param  string
	Reason string // ReasonNoType or ReasonBuiltinType
	Type   string // declared type, set for ReasonBuiltinType
}

func (e *UnresolvableParameterError) Error() string {
	if e.Reason == ReasonBuiltinType {
		return "autowire: unable to autowire parameter " + e.Param + " of type " + e.Type +
			" in " + strconv.Quote(e.Class)
	}
	return "autowire: unable to resolve type of parameter " + e.Param + " in " + strconv.Quote(e.Class)
}

// DirectiveValidationError is returned when a directive is malformed or
// combines mutually exclusive fields.
type DirectiveValidationError struct {
	Tag    string // raw text, empty when built from a DirectiveSpec
	Reason string
}

func (e *DirectiveValidationError) Error() string {
	if e.Tag == "" {
		return "autowire: invalid directive: " + e.Reason
	}
	return "autowire: invalid directive " + strconv.Quote(e.Tag) + ": " + e.Reason
}

// ArgumentTypeError is returned when a resolved value cannot be passed to
// the constructor parameter it was resolved for.
type ArgumentTypeError struct {
	Class string
	Param string
	Want  string
	Got   string
}

func (e *ArgumentTypeError) Error() string {
	return "autowire: parameter " + e.Param + " of " + strconv.Quote(e.Class) +
		" wants " + e.Want + ", resolved " + e.Got
}

// DefinitionError is returned by Define for a target or option that cannot
// describe a class.
type DefinitionError struct {
	Class  string
	Reason string
}

func (e *DefinitionError) Error() string {
	return "autowire: bad definition of " + strconv.Quote(e.Class) + ": " + e.Reason
}
