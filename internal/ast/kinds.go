package ast

import "fmt"

// Visibility is the accessibility of a module-level name or a type member.
// The zero value means not yet resolved.
type Visibility uint8

const (
	VisibilityUnset Visibility = iota
	VisibilityPublic
	VisibilityPrivate
)

func (v Visibility) String() string {
	switch v {
	case VisibilityPublic:
		return "PUBLIC"
	case VisibilityPrivate:
		return "PRIVATE"
	default:
		return ""
	}
}

// VisibilityFromKeyword maps PUBLIC and PRIVATE onto a Visibility.
func VisibilityFromKeyword(keyword string) (Visibility, bool) {
	switch keyword {
	case "PUBLIC":
		return VisibilityPublic, true
	case "PRIVATE":
		return VisibilityPrivate, true
	default:
		return VisibilityUnset, false
	}
}

func (v Visibility) IsZero() bool {
	return v == VisibilityUnset
}

func (v Visibility) MarshalYAML() (interface{}, error) {
	return v.String(), nil
}

// RoutineKind tells subroutines and functions apart.
type RoutineKind uint8

const (
	RoutineUnknown RoutineKind = iota
	RoutineSubroutine
	RoutineFunction
)

// String returns the source keyword of the kind.
func (k RoutineKind) String() string {
	switch k {
	case RoutineSubroutine:
		return "SUBROUTINE"
	case RoutineFunction:
		return "FUNCTION"
	default:
		return fmt.Sprintf("unknown-%d", k)
	}
}

// RoutineKindFromKeyword maps SUBROUTINE and FUNCTION onto a RoutineKind.
func RoutineKindFromKeyword(keyword string) (RoutineKind, bool) {
	switch keyword {
	case "SUBROUTINE":
		return RoutineSubroutine, true
	case "FUNCTION":
		return RoutineFunction, true
	default:
		return RoutineUnknown, false
	}
}

func (k RoutineKind) MarshalYAML() (interface{}, error) {
	switch k {
	case RoutineSubroutine:
		return "subroutine", nil
	case RoutineFunction:
		return "function", nil
	default:
		return nil, fmt.Errorf("cannot encode routine kind %d", k)
	}
}

// TypeKind is the base type keyword of a declaration.
type TypeKind uint8

const (
	TypeUnknown TypeKind = iota
	TypeInteger
	TypeReal
	TypeComplex
	TypeLogical
	TypeCharacter
	// TypeDerived is TYPE(name).
	TypeDerived
	// TypeProcedure is PROCEDURE(interface), a procedure pointer or dummy
	// declared with a procedure declaration statement.
	TypeProcedure
	// TypeDummyProcedure is a dummy argument whose signature comes from an
	// anonymous interface block.
	TypeDummyProcedure
)

var typeKeywords = map[TypeKind]string{
	TypeInteger:        "INTEGER",
	TypeReal:           "REAL",
	TypeComplex:        "COMPLEX",
	TypeLogical:        "LOGICAL",
	TypeCharacter:      "CHARACTER",
	TypeDerived:        "TYPE",
	TypeProcedure:      "PROCEDURE",
	TypeDummyProcedure: "procedure",
}

// Keyword returns the source keyword of the kind.
func (k TypeKind) Keyword() string {
	return typeKeywords[k]
}

// Parameterized reports whether the keyword must be followed by a
// parenthesized parameter to start a declaration.
func (k TypeKind) Parameterized() bool {
	return k == TypeDerived || k == TypeProcedure
}

// TypeKindFromKeyword maps a declaration keyword onto a TypeKind.
func TypeKindFromKeyword(keyword string) (TypeKind, bool) {
	for k, kw := range typeKeywords {
		if k != TypeDummyProcedure && kw == keyword {
			return k, true
		}
	}
	return TypeUnknown, false
}

// TypeSpec is a type keyword with its optional kind or length parameter,
// e.g. CHARACTER(LEN=*) has Kind TypeCharacter and Parameter "(LEN=*)".
type TypeSpec struct {
	Kind      TypeKind
	Parameter string
}

func (t TypeSpec) String() string {
	return t.Kind.Keyword() + t.Parameter
}

// IsResolved reports whether a type has been assigned.
func (t TypeSpec) IsResolved() bool {
	return t.Kind != TypeUnknown
}

func (t TypeSpec) IsZero() bool {
	return !t.IsResolved()
}

func (t TypeSpec) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}

// AttributeKind classifies the entries of an attribute list.
type AttributeKind uint8

const (
	// AttributeKeyword is a bare marker such as SAVE or POINTER.
	AttributeKeyword AttributeKind = iota
	AttributeIntent
	AttributeDimension
	AttributeBind
	AttributeExtends
)

// Attribute is one entry of a declaration or type attribute list. Payload is
// the raw parenthesized text, including the parentheses.
type Attribute struct {
	Kind    AttributeKind
	Keyword string
	Payload string
}

// NewKeywordAttribute returns a bare marker attribute.
func NewKeywordAttribute(keyword string) Attribute {
	return Attribute{Kind: AttributeKeyword, Keyword: keyword}
}

func (a Attribute) String() string {
	return a.Keyword + a.Payload
}

func (a Attribute) MarshalYAML() (interface{}, error) {
	return a.String(), nil
}

// InterfaceTask tells what an interface block lists.
type InterfaceTask uint8

const (
	// InterfaceTaskSignatures means the block declares procedure signatures.
	InterfaceTaskSignatures InterfaceTask = iota
	// InterfaceTaskOverloading means the block only lists module procedures
	// overloaded under the interface name.
	InterfaceTaskOverloading
)

func (t InterfaceTask) String() string {
	switch t {
	case InterfaceTaskOverloading:
		return "overloading"
	default:
		return "signatures"
	}
}

func (t InterfaceTask) IsZero() bool {
	return t == InterfaceTaskSignatures
}

func (t InterfaceTask) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}
