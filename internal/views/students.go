package views

import (
	"strings"

	"github.com/edupredict/edupredict/internal/listview"
)

// Risk levels shown for students.
const (
	RiskHigh   = "High"
	RiskMedium = "Medium"
	RiskLow    = "Low"
)

// Grade thresholds on the 0-20 scale.
const (
	highRiskBelow   = 11.0
	mediumRiskBelow = 14.0
)

//nolint:gochecknoglobals // static alias table
var riskAliases = map[string]string{
	"high":   RiskHigh,
	"alto":   RiskHigh,
	"medium": RiskMedium,
	"medio":  RiskMedium,
	"low":    RiskLow,
	"bajo":   RiskLow,
}

// RiskFromGrade maps a 0-20 grade to a risk level.
func RiskFromGrade(grade float64) string {
	switch {
	case grade < highRiskBelow:
		return RiskHigh
	case grade < mediumRiskBelow:
		return RiskMedium
	default:
		return RiskLow
	}
}

// NormalizeRisk maps English or Spanish risk labels to the canonical level.
// Unknown values are returned trimmed.
func NormalizeRisk(v string) string {
	v = strings.TrimSpace(v)
	if canon, ok := riskAliases[strings.ToLower(v)]; ok {
		return canon
	}
	return v
}

// StudentRisk returns the risk level of a student record: the backend's
// "risk" field when present, otherwise derived from "grade".
func StudentRisk(r listview.Record) (string, bool) {
	if s, ok := r.String("risk"); ok && strings.TrimSpace(s) != "" {
		return NormalizeRisk(s), true
	}
	if g, ok := r.Number("grade"); ok {
		return RiskFromGrade(g), true
	}
	return "", false
}

func fullNameKey() listview.SortKey[listview.Record] {
	return listview.SortKey[listview.Record]{
		Name: "name",
		Value: func(r listview.Record) listview.Value {
			if n := listview.FullName(r); n != "" {
				return listview.StringValue(n)
			}
			return listview.Value{}
		},
	}
}

// Students is the students directory.
func Students() View {
	return View{
		Name:    "students",
		Title:   "Students",
		IDField: "id",
		Columns: []Column{
			{Header: "ID", Field: "id", Kind: listview.KindNumber, Width: 6},
			{Header: "NAME", Field: "name", Width: 28, Format: listview.FullName},
			{Header: "EMAIL", Field: "email", Width: 30},
			{Header: "AGE", Field: "age", Kind: listview.KindNumber, Width: 5},
			{Header: "MAJOR", Field: "major", Width: 20},
			{Header: "GRADE", Field: "grade", Kind: listview.KindNumber, Width: 6},
			{Header: "RISK", Width: 8, Format: func(r listview.Record) string {
				risk, _ := StudentRisk(r)
				return risk
			}},
		},
		Schema: listview.Schema[listview.Record]{
			Search: func(r listview.Record) []string {
				out := []string{listview.FullName(r)}
				if email, ok := r.String("email"); ok {
					out = append(out, email)
				}
				return out
			},
			Categories: []listview.Category[listview.Record]{
				{Name: "risk", Derive: StudentRisk, Normalize: NormalizeRisk},
				fieldCategory("major", "major"),
			},
			SortKeys: []listview.SortKey[listview.Record]{
				fullNameKey(),
				listview.FieldSortKey("email", "email", listview.KindString),
				listview.FieldSortKey("grade", "grade", listview.KindNumber),
				listview.FieldSortKey("age", "age", listview.KindNumber),
			},
		},
	}
}

// Roles lists users with their assigned role.
func Roles() View {
	return View{
		Name:    "roles",
		Title:   "Role assignments",
		IDField: "id",
		Columns: []Column{
			{Header: "ID", Field: "id", Kind: listview.KindNumber, Width: 6},
			{Header: "NAME", Field: "name", Width: 28, Format: listview.FullName},
			{Header: "EMAIL", Field: "email", Width: 30},
			{Header: "ROLE", Field: "role", Width: 14},
		},
		Schema: listview.Schema[listview.Record]{
			Search: func(r listview.Record) []string {
				out := []string{listview.FullName(r)}
				if email, ok := r.String("email"); ok {
					out = append(out, email)
				}
				return out
			},
			Categories: []listview.Category[listview.Record]{fieldCategory("role", "role")},
			SortKeys: []listview.SortKey[listview.Record]{
				fullNameKey(),
				listview.FieldSortKey("email", "email", listview.KindString),
				listview.FieldSortKey("role", "role", listview.KindString),
			},
		},
	}
}
