package views

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/edupredict/edupredict/internal/listview"
)

// Attendance bands of a course or student, by percentage.
const (
	AttendanceCritical = "Critical"
	AttendanceWarning  = "Warning"
	AttendanceOK       = "OK"
)

const (
	criticalAttendanceBelow = 70.0
	warningAttendanceBelow  = 85.0
	severeAttendanceBelow   = 50.0
)

// Severity of a student below the attendance threshold.
const (
	SeveritySevere   = "Severe"
	SeverityCritical = "Critical"
)

// AttendanceBand maps an attendance percentage to its band.
func AttendanceBand(rate float64) string {
	switch {
	case rate < criticalAttendanceBelow:
		return AttendanceCritical
	case rate < warningAttendanceBelow:
		return AttendanceWarning
	default:
		return AttendanceOK
	}
}

// AttendanceSeverity maps a critical student's attendance to its severity.
func AttendanceSeverity(average float64) string {
	if average < severeAttendanceBelow {
		return SeveritySevere
	}
	return SeverityCritical
}

// numberCategory derives a category from a numeric field.
func numberCategory(name, field string, derive func(float64) string) listview.Category[listview.Record] {
	return listview.Category[listview.Record]{
		Name: name,
		Derive: func(r listview.Record) (string, bool) {
			n, ok := r.Number(field)
			if !ok {
				return "", false
			}
			return derive(n), true
		},
	}
}

func percentColumn(header, field string, width int) Column {
	return Column{
		Header: header, Field: field, Kind: listview.KindNumber, Width: width,
		Format: func(r listview.Record) string {
			n, ok := r.Number(field)
			if !ok {
				return ""
			}
			return strconv.FormatFloat(n, 'f', 1, 64) + "%"
		},
	}
}

// moneyColumn prints a decimal amount with two places. The raw JSON number
// is parsed as a decimal so large totals keep their cents.
func moneyColumn(header, field string, width int) Column {
	return Column{
		Header: header, Field: field, Kind: listview.KindNumber, Width: width,
		Format: func(r listview.Record) string {
			s, ok := r.String(field)
			if !ok {
				return ""
			}
			d, err := decimal.NewFromString(strings.TrimSpace(s))
			if err != nil {
				return ""
			}
			return d.StringFixed(2)
		},
	}
}

// AttendanceByCourse is the attendance rate per course.
func AttendanceByCourse() View {
	cols := []Column{
		{Header: "COURSE", Field: "course", Width: 30},
		percentColumn("RATE", "rate", 7),
	}
	status := Column{Header: "STATUS", Width: 8, Format: func(r listview.Record) string {
		n, ok := r.Number("rate")
		if !ok {
			return ""
		}
		return AttendanceBand(n)
	}}
	return View{
		Name:    "attendance-courses",
		Title:   "Attendance by course",
		Columns: append(cols, status),
		Schema: listview.Schema[listview.Record]{
			Search:     listview.FieldSearch("course"),
			Categories: []listview.Category[listview.Record]{numberCategory("status", "rate", AttendanceBand)},
			SortKeys:   columnSortKeys(cols),
		},
	}
}

// CriticalAttendance lists students below the attendance threshold.
func CriticalAttendance() View {
	cols := []Column{
		{Header: "ID", Field: "id", Kind: listview.KindNumber, Width: 6},
		{Header: "NAME", Field: "name", Width: 28, Format: listview.FullName},
		{Header: "EMAIL", Field: "email", Width: 30},
		percentColumn("ATTENDANCE", "average", 10),
	}
	return View{
		Name:    "attendance-critical",
		Title:   "Critical attendance",
		IDField: "id",
		Columns: cols,
		Schema: listview.Schema[listview.Record]{
			Search: func(r listview.Record) []string {
				out := []string{listview.FullName(r)}
				if email, ok := r.String("email"); ok {
					out = append(out, email)
				}
				return out
			},
			Categories: []listview.Category[listview.Record]{
				numberCategory("severity", "average", AttendanceSeverity),
			},
			SortKeys: []listview.SortKey[listview.Record]{
				fullNameKey(),
				listview.FieldSortKey("email", "email", listview.KindString),
				listview.FieldSortKey("average", "average", listview.KindNumber),
			},
		},
	}
}

// RevenueTrends is confirmed revenue per month.
func RevenueTrends() View {
	cols := []Column{
		{Header: "MONTH", Field: "month", Width: 10},
		moneyColumn("REVENUE", "revenue", 14),
	}
	return View{
		Name:    "revenue-trends",
		Title:   "Revenue trends",
		Columns: cols,
		Schema: listview.Schema[listview.Record]{
			Search:   listview.FieldSearch("month"),
			SortKeys: columnSortKeys(cols),
		},
	}
}

// Delinquents lists students with overdue debt.
func Delinquents() View {
	cols := []Column{
		{Header: "ID", Field: "id", Kind: listview.KindNumber, Width: 6},
		{Header: "NAME", Field: "name", Width: 28, Format: listview.FullName},
		{Header: "OVERDUE", Field: "overdue_count", Kind: listview.KindNumber, Width: 7},
		moneyColumn("DEBT", "total_debt", 12),
	}
	return View{
		Name:    "delinquents",
		Title:   "Delinquent students",
		IDField: "id",
		Columns: cols,
		Schema: listview.Schema[listview.Record]{
			Search: func(r listview.Record) []string { return []string{listview.FullName(r)} },
			SortKeys: []listview.SortKey[listview.Record]{
				fullNameKey(),
				listview.FieldSortKey("overdue_count", "overdue_count", listview.KindNumber),
				listview.FieldSortKey("total_debt", "total_debt", listview.KindNumber),
			},
		},
	}
}

//nolint:gochecknoglobals // static label table
var featureLabels = map[string]string{
	"notas_promedio":                 "Academic average",
	"asistencia_promedio":            "Attendance",
	"cursos_reprobados":              "Failed courses",
	"interacciones_plataforma_total": "Engagement",
	"xp_gamificacion":                "Gamification",
	"tiempo_sesion_promedio_min":     "Session time",
}

// FeatureLabel returns the display name of a model input, or the name itself.
func FeatureLabel(name string) string {
	if l, ok := featureLabels[name]; ok {
		return l
	}
	return name
}
