package schema

// Operator is the comparison applied by a criterion to its value.
type Operator string

const (
	OpIs             Operator = "is"
	OpIsNot          Operator = "is_not"
	OpIsAnyOf        Operator = "is_any_of"
	OpIsNotAnyOf     Operator = "is_not_any_of"
	OpIsBlank        Operator = "is_blank"
	OpIsNotBlank     Operator = "is_not_blank"
	OpContains       Operator = "contains"
	OpDoesNotContain Operator = "does_not_contain"
	OpGT             Operator = "gt"
	OpLT             Operator = "lt"
	OpGTE            Operator = "gte"
	OpLTE            Operator = "lte"
	OpBetween        Operator = "between"
)

// Operators lists every operator in the order the editor offers them.
var Operators = []Operator{
	OpIs, OpIsNot, OpIsAnyOf, OpIsNotAnyOf, OpIsBlank, OpIsNotBlank,
	OpContains, OpDoesNotContain, OpGT, OpLT, OpGTE, OpLTE, OpBetween,
}

var operatorLabels = map[Operator]string{
	OpIs:             "is",
	OpIsNot:          "is not",
	OpIsAnyOf:        "is any of",
	OpIsNotAnyOf:     "is not any of",
	OpIsBlank:        "is blank",
	OpIsNotBlank:     "is not blank",
	OpContains:       "contains",
	OpDoesNotContain: "does not contain",
	OpGT:             "is greater than",
	OpLT:             "is less than",
	OpGTE:            "is greater than or equal to",
	OpLTE:            "is less than or equal to",
	OpBetween:        "is between",
}

// Label returns the editor label for op.
func (op Operator) Label() string {
	if l, ok := operatorLabels[op]; ok {
		return l
	}
	return string(op)
}

// Valid reports whether op is a known operator.
func (op Operator) Valid() bool {
	_, ok := operatorLabels[op]
	return ok
}

// MultiValued is true for operators whose value is a list.
func (op Operator) MultiValued() bool {
	return op == OpIsAnyOf || op == OpIsNotAnyOf
}

// NeedsValue is false for the blank checks, which carry no value.
func (op Operator) NeedsValue() bool {
	return op != OpIsBlank && op != OpIsNotBlank
}

// DefaultOperator derives the operator a new criterion starts with from the
// field's type alone; individual field ids are never special-cased.
func DefaultOperator(f *Field) Operator {
	switch f.Type {
	case FieldEnum, FieldNumber, FieldDate:
		return OpIs
	case FieldText:
		return OpContains
	default:
		return OpIs
	}
}
