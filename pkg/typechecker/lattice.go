package typechecker

type latticeKey struct {
	op    string
	left  PrimitiveKind
	right PrimitiveKind
}

var operatorLattice = buildOperatorLattice()

func buildOperatorLattice() map[latticeKey]PrimitiveKind {
	table := make(map[latticeKey]PrimitiveKind)
	set := func(ops []string, left, right, result PrimitiveKind) {
		for _, op := range ops {
			table[latticeKey{op: op, left: left, right: right}] = result
		}
	}

	arithmetic := []string{"+", "-", "*", "/"}
	relational := []string{"<", ">", "<=", ">=", "==", "!="}
	integerOnly := []string{"%", "<<", ">>", "|", "&", "^"}

	set(arithmetic, PrimitiveInt, PrimitiveInt, PrimitiveInt)
	set(integerOnly, PrimitiveInt, PrimitiveInt, PrimitiveInt)
	set(relational, PrimitiveInt, PrimitiveInt, PrimitiveInt)

	set(arithmetic, PrimitiveInt, PrimitiveFloat, PrimitiveFloat)
	set(arithmetic, PrimitiveFloat, PrimitiveInt, PrimitiveFloat)
	set(arithmetic, PrimitiveFloat, PrimitiveFloat, PrimitiveFloat)

	set(relational, PrimitiveInt, PrimitiveFloat, PrimitiveInt)
	set(relational, PrimitiveFloat, PrimitiveInt, PrimitiveInt)
	set(relational, PrimitiveFloat, PrimitiveFloat, PrimitiveInt)

	set([]string{"+"}, PrimitiveString, PrimitiveString, PrimitiveString)
	set([]string{"*"}, PrimitiveString, PrimitiveInt, PrimitiveString)
	set(relational, PrimitiveString, PrimitiveString, PrimitiveInt)
	return table
}

// ResultType looks up the static result of applying op to operands of the
// given types. ok is false when the lattice has no entry for the triple.
func ResultType(op string, left, right Type) (Type, bool) {
	l, lok := left.(PrimitiveType)
	r, rok := right.(PrimitiveType)
	if !lok || !rok {
		return UnknownType{}, false
	}
	kind, ok := operatorLattice[latticeKey{op: op, left: l.Kind, right: r.Kind}]
	if !ok {
		return UnknownType{}, false
	}
	return PrimitiveType{Kind: kind}, true
}
