package rules

import (
	"encoding/json"
	"fmt"

	"starmap-server/internal/shared/errors"
)

// Op is a comparison operator.
type Op string

const (
	OpEq      Op = "eq"
	OpNeq     Op = "neq"
	OpLt      Op = "lt"
	OpLte     Op = "lte"
	OpGt      Op = "gt"
	OpGte     Op = "gte"
	OpBetween Op = "between"
)

// Condition is a numeric predicate. Between is inclusive on both ends.
type Condition struct {
	Op    Op      `json:"op"`
	Value float64 `json:"value,omitempty"`
	Min   float64 `json:"min,omitempty"`
	Max   float64 `json:"max,omitempty"`
}

func (c Condition) Satisfied(v float64) bool {
	switch c.Op {
	case OpEq:
		return v == c.Value
	case OpNeq:
		return v != c.Value
	case OpLt:
		return v < c.Value
	case OpLte:
		return v <= c.Value
	case OpGt:
		return v > c.Value
	case OpGte:
		return v >= c.Value
	case OpBetween:
		return v >= c.Min && v <= c.Max
	}
	return false
}

func (c Condition) Validate() error {
	switch c.Op {
	case OpEq, OpNeq, OpLt, OpLte, OpGt, OpGte:
		return nil
	case OpBetween:
		if c.Min > c.Max {
			return errors.Validationf("condition between: min %v is greater than max %v", c.Min, c.Max)
		}
		return nil
	case "":
		return errors.Validation("condition op is required")
	}
	return errors.Validationf("unknown condition op %q", c.Op)
}

func (c *Condition) UnmarshalJSON(data []byte) error {
	type plain Condition
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return errors.WrapValidation("invalid condition", err)
	}
	*c = Condition(p)
	return c.Validate()
}

func (c Condition) String() string {
	if c.Op == OpBetween {
		return fmt.Sprintf("between %v and %v", c.Min, c.Max)
	}
	return fmt.Sprintf("%s %v", c.Op, c.Value)
}
