package inference

import (
	"fmt"

	"github.com/goccy/go-json"
)

// GroupOperator combines the results of a group's children.
type GroupOperator string

const (
	OperatorAnd GroupOperator = "AND"
	OperatorOr  GroupOperator = "OR"
)

// Comparator is the operator of a leaf criterion.
type Comparator string

const (
	CompareEquals   Comparator = "=="
	CompareAtLeast  Comparator = ">="
	CompareAtMost   Comparator = "<="
	CompareIn       Comparator = "IN"
	CompareContains Comparator = "CONTAINS"
)

// Node is one node of a condition tree: a *Group or a *Criterion.
type Node interface {
	isNode()
}

// Group combines its children with Operator. An empty group never matches.
type Group struct {
	Operator GroupOperator
	Children []Node
}

// Criterion compares the profile value at the dot path Field with Value.
type Criterion struct {
	Field    string
	Operator Comparator
	Value    interface{}
}

func (*Group) isNode()     {}
func (*Criterion) isNode() {}

// DecodeConditions parses the JSON condition text of a rule. The top level is
// always read as a group; entries carrying a "criteria" key are nested groups,
// every other entry must be a criterion with field, operator and value keys.
// Unknown operators are kept as-is and evaluate to false.
func DecodeConditions(data []byte) (*Group, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("conditions: %w", err)
	}
	return decodeGroup(raw, "conditions")
}

func decodeGroup(raw map[string]json.RawMessage, path string) (*Group, error) {
	group := &Group{Operator: OperatorAnd}

	if op, ok := raw["operator"]; ok {
		var s string
		if err := json.Unmarshal(op, &s); err != nil {
			return nil, fmt.Errorf("%s.operator: must be a string", path)
		}
		group.Operator = GroupOperator(s)
	}

	criteria, ok := raw["criteria"]
	if !ok {
		return group, nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(criteria, &entries); err != nil || entries == nil {
		return nil, fmt.Errorf("%s.criteria: must be a list", path)
	}

	group.Children = make([]Node, 0, len(entries))
	for i, entry := range entries {
		entryPath := fmt.Sprintf("%s.criteria[%d]", path, i)

		var fields map[string]json.RawMessage
		if err := json.Unmarshal(entry, &fields); err != nil || fields == nil {
			return nil, fmt.Errorf("%s: must be an object", entryPath)
		}

		if _, nested := fields["criteria"]; nested {
			child, err := decodeGroup(fields, entryPath)
			if err != nil {
				return nil, err
			}
			group.Children = append(group.Children, child)
			continue
		}

		child, err := decodeCriterion(fields, entryPath)
		if err != nil {
			return nil, err
		}
		group.Children = append(group.Children, child)
	}

	return group, nil
}

func decodeCriterion(fields map[string]json.RawMessage, path string) (*Criterion, error) {
	var c Criterion

	rawField, ok := fields["field"]
	if !ok {
		return nil, fmt.Errorf("%s: missing field", path)
	}
	if err := json.Unmarshal(rawField, &c.Field); err != nil {
		return nil, fmt.Errorf("%s.field: must be a string", path)
	}

	rawOp, ok := fields["operator"]
	if !ok {
		return nil, fmt.Errorf("%s: missing operator", path)
	}
	var op string
	if err := json.Unmarshal(rawOp, &op); err != nil {
		return nil, fmt.Errorf("%s.operator: must be a string", path)
	}
	c.Operator = Comparator(op)

	rawValue, ok := fields["value"]
	if !ok {
		return nil, fmt.Errorf("%s: missing value", path)
	}
	if err := json.Unmarshal(rawValue, &c.Value); err != nil {
		return nil, fmt.Errorf("%s.value: %w", path, err)
	}

	return &c, nil
}
