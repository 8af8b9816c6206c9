package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"github.com/edupredict/edupredict/internal/listview"
)

// AttendanceStats is the attendance overview card.
type AttendanceStats struct {
	GlobalRate     float64 `json:"global_rate"`
	TodayRate      float64 `json:"today_rate"`
	LastRecordDate string  `json:"last_record_date"`
	TodayAbsent    int     `json:"today_absent"`
}

// FinancialStats is the financial overview card. Amounts are decimals so
// totals print exactly.
type FinancialStats struct {
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	PendingDebt     decimal.Decimal `json:"pending_debt"`
	DelinquencyRate float64         `json:"delinquency_rate"`
	CollectionRate  float64         `json:"collection_rate"`
}

// AttendanceStats returns attendance rates.
func (c *Client) AttendanceStats(ctx context.Context) (AttendanceStats, error) {
	var s AttendanceStats
	if err := c.getJSON(ctx, "/attendance/stats", nil, &s); err != nil {
		return AttendanceStats{}, err
	}
	return s, nil
}

// FinancialStats returns revenue and debt totals.
func (c *Client) FinancialStats(ctx context.Context) (FinancialStats, error) {
	var s FinancialStats
	if err := c.getJSON(ctx, "/financial/stats", nil, &s); err != nil {
		return FinancialStats{}, err
	}
	return s, nil
}

// AttendanceByCourse returns the attendance rate of every course.
func (c *Client) AttendanceByCourse(ctx context.Context) ([]listview.Record, error) {
	return c.listAll(ctx, "/attendance/by-course")
}

// CriticalAttendance returns the students below the attendance threshold.
func (c *Client) CriticalAttendance(ctx context.Context) ([]listview.Record, error) {
	return c.listAll(ctx, "/attendance/critical")
}

// RevenueTrends returns confirmed revenue per month.
func (c *Client) RevenueTrends(ctx context.Context) ([]listview.Record, error) {
	return c.listAll(ctx, "/financial/trends")
}

// Delinquents returns the students with the most overdue debt.
func (c *Client) Delinquents(ctx context.Context) ([]listview.Record, error) {
	return c.listAll(ctx, "/financial/delinquency")
}

// StudentDashboard is the per-student profile with the agents' assessments.
type StudentDashboard struct {
	ID        int
	Name      string
	Email     string
	Color     string
	AISummary string
	Badges    []string

	AcademicAverage     float64
	SuccessRate         float64
	CurrentMood         float64
	StressLevel         string
	CollaborationScore  float64
	NetworkHealth       string
	DropoutRisk         float64
	DropoutRiskStatus   string
	WeakSubjects        []string
	HasDashboardMetrics bool
}

// StudentDashboard fetches the profile of one student. The payload is
// nested and partly optional, so fields are read by path.
func (c *Client) StudentDashboard(ctx context.Context, id int) (StudentDashboard, error) {
	path := "/dashboard/student/" + strconv.Itoa(id)
	body, err := c.send(ctx, c.request(ctx), http.MethodGet, path)
	if err != nil {
		return StudentDashboard{}, err
	}
	if !gjson.ValidBytes(body) {
		return StudentDashboard{}, fmt.Errorf("decoding %s response: invalid JSON", path)
	}
	return parseStudentDashboard(gjson.ParseBytes(body)), nil
}

func parseStudentDashboard(root gjson.Result) StudentDashboard {
	d := StudentDashboard{
		ID:                 int(root.Get("student.id").Int()),
		Name:               root.Get("student.name").String(),
		Email:              root.Get("student.email").String(),
		Color:              root.Get("global_status.color").String(),
		AISummary:          root.Get("global_status.ai_summary").String(),
		AcademicAverage:    root.Get("metrics.academic.average").Float(),
		SuccessRate:        root.Get("metrics.academic.success_rate").Float(),
		CurrentMood:        root.Get("metrics.emotional.current_mood").Float(),
		StressLevel:        root.Get("metrics.emotional.stress_level").String(),
		CollaborationScore: root.Get("metrics.social.collaboration_score").Float(),
		NetworkHealth:      root.Get("metrics.social.network_health").String(),
		DropoutRisk:        root.Get("agents_status.m2_risk.value").Float(),
		DropoutRiskStatus:  root.Get("agents_status.m2_risk.status").String(),
	}
	d.HasDashboardMetrics = root.Get("metrics").Exists()
	for _, b := range root.Get("global_status.badges").Array() {
		d.Badges = append(d.Badges, b.String())
	}
	for _, s := range root.Get("agents_status.m3_tutor.weak_subjects").Array() {
		d.WeakSubjects = append(d.WeakSubjects, s.String())
	}
	return d
}
