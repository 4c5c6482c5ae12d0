package criteria

import (
	"github.com/google/uuid"

	"github.com/matthewbaird/fleetfilter/internal/filter/schema"
)

// Criterion is one in-progress filter bound to a registry field.
type Criterion struct {
	ID       string          `json:"id"`    // unique within its list
	Field    string          `json:"field"` // schema.Field.ID
	Label    string          `json:"label"` // snapshot of the field label at creation
	Operator schema.Operator `json:"operator"`
	Value    Value           `json:"value"`
}

// IDFunc generates criterion ids.
type IDFunc func() string

// NewID is the default IDFunc.
func NewID() string { return uuid.NewString() }

// New builds a fresh criterion for f: default operator for its type, and an
// empty list for enum/multiselect fields or an empty string otherwise.
func New(id string, f *schema.Field) Criterion {
	val := Scalar("")
	if f.Type.ListValued() {
		val = List()
	}
	return Criterion{
		ID:       id,
		Field:    f.ID,
		Label:    f.Label,
		Operator: schema.DefaultOperator(f),
		Value:    val,
	}
}

// WithOperator switches the operator and resets the value to the shape the
// editor uses for it.
func (c Criterion) WithOperator(op schema.Operator) Criterion {
	c.Operator = op
	switch {
	case op == schema.OpBetween:
		c.Value = Between("", "")
	case op.MultiValued():
		c.Value = List()
	case !op.NeedsValue():
		c.Value = Value{}
	default:
		c.Value = Scalar("")
	}
	return c
}

// Clone returns a deep copy of c.
func (c Criterion) Clone() Criterion {
	c.Value = c.Value.Clone()
	return c
}

// Patch is a partial update; nil members are left untouched.
type Patch struct {
	Label    *string          `json:"label,omitempty"`
	Operator *schema.Operator `json:"operator,omitempty"`
	Value    *Value           `json:"value,omitempty"`
}

// Merge shallow-merges p into c. Setting Operator alone does not reset the
// value; callers wanting the editor behaviour use WithOperator.
func (c Criterion) Merge(p Patch) Criterion {
	if p.Label != nil {
		c.Label = *p.Label
	}
	if p.Operator != nil {
		c.Operator = *p.Operator
	}
	if p.Value != nil {
		c.Value = p.Value.Clone()
	}
	return c
}

// CloneList deep-copies a criteria list. A nil list yields an empty, non-nil list.
func CloneList(list []Criterion) []Criterion {
	out := make([]Criterion, len(list))
	for i, c := range list {
		out[i] = c.Clone()
	}
	return out
}
