// internal/models/program.go
package models

type Program struct {
	ID   int64  `json:"programId"`
	Code string `json:"programCode"`
	Name string `json:"programName"`
}

// Programs is the seeded program table. IDs match the recommended_program_id
// values used by the rule catalog.
var Programs = []Program{
	{ID: 1, Code: "BSCS", Name: "Bachelor of Science in Computer Science"},
	{ID: 2, Code: "BSIT", Name: "Bachelor of Science in Information Technology"},
	{ID: 3, Code: "BSCE", Name: "Bachelor of Science in Civil Engineering"},
	{ID: 4, Code: "BSEE", Name: "Bachelor of Science in Electrical Engineering"},
	{ID: 5, Code: "BSME", Name: "Bachelor of Science in Mechanical Engineering"},
	{ID: 6, Code: "BSECE", Name: "Bachelor of Science in Electronics Engineering"},
	{ID: 7, Code: "BSIE", Name: "Bachelor of Science in Industrial Engineering"},
	{ID: 8, Code: "BSBA", Name: "Bachelor of Science in Business Administration"},
	{ID: 9, Code: "BSA", Name: "Bachelor of Science in Accountancy"},
	{ID: 10, Code: "BSOA", Name: "Bachelor of Science in Office Administration"},
	{ID: 11, Code: "BSED", Name: "Bachelor of Secondary Education"},
	{ID: 12, Code: "BSARCH", Name: "Bachelor of Science in Architecture"},
	{ID: 13, Code: "BSINDTECH", Name: "Bachelor of Science in Industrial Technology"},
	{ID: 14, Code: "BSHRM", Name: "Bachelor of Science in Hotel and Restaurant Management"},
	{ID: 15, Code: "BTVTEd", Name: "Bachelor of Technical-Vocational Teacher Education"},
}

func ProgramByID(id int64) (Program, bool) {
	for _, p := range Programs {
		if p.ID == id {
			return p, true
		}
	}
	return Program{}, false
}
