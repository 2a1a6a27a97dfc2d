package inference

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
)

func leaf(field string, op Comparator, value interface{}) *Criterion {
	return &Criterion{Field: field, Operator: op, Value: value}
}

func stemProfile() Profile {
	return Profile{
		"strand":            "STEM",
		"favorite_subjects": []interface{}{"Mathematics", "Physics"},
		"skills": map[string]interface{}{
			"analytical": float64(5),
			"technical":  float64(4),
		},
		"interests":      []interface{}{"Technology"},
		"learning_style": "Hands-on/Practical learning",
	}
}

func TestResolve(t *testing.T) {
	p := Profile{
		"strand": "ABM",
		"skills": map[string]int{"numerical": 4},
		"meta":   map[string]interface{}{"nested": map[string]interface{}{"deep": "x"}},
		"empty":  nil,
	}

	tests := []struct {
		path      string
		want      interface{}
		wantFound bool
	}{
		{"strand", "ABM", true},
		{"skills.numerical", 4, true},
		{"meta.nested.deep", "x", true},
		{"skills.leadership", nil, false},
		{"missing", nil, false},
		{"strand.length", nil, false},
		{"empty", nil, false},
		{"empty.child", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, found := Resolve(p, tt.path)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluate_Operators(t *testing.T) {
	p := stemProfile()
	p["favorites_json"] = `["Mathematics","Physics"]`
	p["grade"] = "11"
	p["score"] = json.Number("4.5")
	p["tags"] = []string{"Engineering", "Technology"}
	p["has_laptop"] = true
	p["flags"] = []interface{}{true, "x"}

	tests := []struct {
		name string
		node Node
		want bool
	}{
		{"equals string", leaf("strand", CompareEquals, "STEM"), true},
		{"equals mismatch", leaf("strand", CompareEquals, "ABM"), false},
		{"equals int vs float", leaf("skills.analytical", CompareEquals, 5), true},
		{"equals list", leaf("interests", CompareEquals, []interface{}{"Technology"}), true},
		{"equals bool vs one", leaf("has_laptop", CompareEquals, 1), true},
		{"equals bool vs zero", leaf("has_laptop", CompareEquals, 0), false},
		{"equals bool vs bool", leaf("has_laptop", CompareEquals, true), true},
		{"equals bool vs string", leaf("has_laptop", CompareEquals, "true"), false},
		{"equals number vs bool", leaf("skills.analytical", CompareEquals, true), false},
		{"in list matches bool by number", leaf("has_laptop", CompareIn, []interface{}{float64(1)}), true},
		{"contains number finds bool", leaf("flags", CompareContains, 1), true},
		{"equals absent never matches nil", leaf("career_goals", CompareEquals, nil), false},
		{"at least", leaf("skills.analytical", CompareAtLeast, float64(4)), true},
		{"at least boundary", leaf("skills.technical", CompareAtLeast, float64(4)), true},
		{"at least below", leaf("skills.technical", CompareAtLeast, float64(5)), false},
		{"at most", leaf("skills.technical", CompareAtMost, float64(4)), true},
		{"numeric string coerces", leaf("grade", CompareAtLeast, float64(11)), true},
		{"expected numeric string coerces", leaf("skills.analytical", CompareAtLeast, "4"), true},
		{"json number coerces", leaf("score", CompareAtLeast, float64(4)), true},
		{"non numeric is false", leaf("strand", CompareAtLeast, float64(1)), false},
		{"absent ordered is false", leaf("skills.research", CompareAtMost, float64(5)), false},
		{"in list", leaf("strand", CompareIn, []interface{}{"TVL-ICT", "STEM"}), true},
		{"in list miss", leaf("strand", CompareIn, []interface{}{"ABM", "GAS"}), false},
		{"in non sequence", leaf("strand", CompareIn, "STEM"), false},
		{"in absent", leaf("career_goals", CompareIn, []interface{}{nil}), false},
		{"contains list", leaf("interests", CompareContains, "Technology"), true},
		{"contains typed slice", leaf("tags", CompareContains, "Engineering"), true},
		{"contains miss", leaf("interests", CompareContains, "Business"), false},
		{"contains json string", leaf("favorites_json", CompareContains, "Physics"), true},
		{"contains plain string", leaf("strand", CompareContains, "STEM"), false},
		{"contains number", leaf("skills.analytical", CompareContains, 5), false},
		{"contains absent", leaf("hobbies", CompareContains, "Chess"), false},
		{"unknown comparator", leaf("strand", Comparator("!="), "ABM"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.node, p))
		})
	}
}

func TestEvaluate_Groups(t *testing.T) {
	p := stemProfile()
	yes := leaf("strand", CompareEquals, "STEM")
	no := leaf("strand", CompareEquals, "HUMSS")

	tests := []struct {
		name string
		node Node
		want bool
	}{
		{"empty AND", &Group{Operator: OperatorAnd}, false},
		{"empty OR", &Group{Operator: OperatorOr}, false},
		{"AND all true", &Group{Operator: OperatorAnd, Children: []Node{yes, yes}}, true},
		{"AND one false", &Group{Operator: OperatorAnd, Children: []Node{yes, no}}, false},
		{"OR one true", &Group{Operator: OperatorOr, Children: []Node{no, yes}}, true},
		{"OR all false", &Group{Operator: OperatorOr, Children: []Node{no, no}}, false},
		{"unknown group operator", &Group{Operator: "XOR", Children: []Node{yes}}, false},
		{
			"nested OR inside AND",
			&Group{Operator: OperatorAnd, Children: []Node{
				yes,
				&Group{Operator: OperatorOr, Children: []Node{no, leaf("interests", CompareContains, "Technology")}},
			}},
			true,
		},
		{
			"nested empty group fails AND",
			&Group{Operator: OperatorAnd, Children: []Node{yes, &Group{Operator: OperatorOr}}},
			false,
		},
		{"nil group", (*Group)(nil), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.node, p))
		})
	}
}

func TestEvaluate_FailingCriterionIsLocal(t *testing.T) {
	p := Profile{"strand": "GAS", "skills": map[string]interface{}{"technical": "n/a"}}

	g := &Group{Operator: OperatorOr, Children: []Node{
		leaf("skills.technical", CompareAtLeast, float64(3)),
		leaf("strand", CompareEquals, "GAS"),
	}}
	assert.True(t, Evaluate(g, p))

	g.Operator = OperatorAnd
	assert.False(t, Evaluate(g, p))
}
