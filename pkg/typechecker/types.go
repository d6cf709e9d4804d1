package typechecker

// Type is a static type understood by the checker.
type Type interface {
	Name() string
}

type PrimitiveKind string

const (
	PrimitiveInt    PrimitiveKind = "int"
	PrimitiveFloat  PrimitiveKind = "float"
	PrimitiveString PrimitiveKind = "string"
)

type PrimitiveType struct {
	Kind PrimitiveKind
}

func (p PrimitiveType) Name() string { return string(p.Kind) }

// UnknownType marks an expression whose type could not be derived. It never
// matches a lattice entry, so errors cascade instead of crashing.
type UnknownType struct{}

func (UnknownType) Name() string { return "undefined" }

var (
	intType    = PrimitiveType{Kind: PrimitiveInt}
	floatType  = PrimitiveType{Kind: PrimitiveFloat}
	stringType = PrimitiveType{Kind: PrimitiveString}
)

// ParseType maps a declared type name onto a checker type. Unrecognised
// names become UnknownType.
func ParseType(name string) Type {
	switch PrimitiveKind(name) {
	case PrimitiveInt:
		return intType
	case PrimitiveFloat:
		return floatType
	case PrimitiveString:
		return stringType
	default:
		return UnknownType{}
	}
}

func typeName(t Type) string {
	if t == nil {
		return UnknownType{}.Name()
	}
	return t.Name()
}

func isUnknownType(t Type) bool {
	if t == nil {
		return true
	}
	_, ok := t.(UnknownType)
	return ok
}

func isKind(t Type, kind PrimitiveKind) bool {
	p, ok := t.(PrimitiveType)
	return ok && p.Kind == kind
}

func sameType(a, b Type) bool {
	if isUnknownType(a) || isUnknownType(b) {
		return false
	}
	return a.Name() == b.Name()
}

// initializable reports whether a value of type from may initialise a
// variable declared as to. int and float convert in both directions.
func initializable(from, to Type) bool {
	if sameType(from, to) {
		return true
	}
	return (isKind(from, PrimitiveInt) && isKind(to, PrimitiveFloat)) ||
		(isKind(from, PrimitiveFloat) && isKind(to, PrimitiveInt))
}

// widens reports whether from may be passed where to is expected: an exact
// match or int flowing into float.
func widens(from, to Type) bool {
	if sameType(from, to) {
		return true
	}
	return isKind(from, PrimitiveInt) && isKind(to, PrimitiveFloat)
}
