package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edupredict/edupredict/internal/listview"
)

func TestClient_Roles(t *testing.T) {
	var assigned AssignRoleRequest
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/roles/":
			_, _ = io.WriteString(w, `["Estudiante", {"name":"Docente","description":"Teaching staff"}]`)
		case "/roles/assign":
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&assigned))
			writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
		case "/roles/users-with-roles":
			writeJSON(w, http.StatusOK, []map[string]any{{"id": 1, "name": "Ana Garcia", "role": "Estudiante"}})
		default:
			http.NotFound(w, r)
		}
	}), Options{})
	ctx := context.Background()

	roles, err := c.ListRoles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Role{{Name: "Estudiante"}, {Name: "Docente", Description: "Teaching staff"}}, roles)

	require.NoError(t, c.AssignRole(ctx, 7, " Docente "))
	assert.Equal(t, AssignRoleRequest{UserID: 7, Role: "Docente"}, assigned)

	require.ErrorIs(t, c.AssignRole(ctx, 7, " "), ErrEmptyRole)

	rows, err := c.UserRolesFetcher()(ctx, listview.PageRequest{PageNumber: 1, PageSize: 10}, listview.FilterState{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ana Garcia", rows[0]["name"])
}

func TestClient_ResourceCRUD(t *testing.T) {
	type call struct{ method, path string }
	var calls []call
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, call{r.Method, r.URL.Path})
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, []map[string]any{{"materia_id": 1, "nombre": "Álgebra", "ciclo_materia": 1}})
		case http.MethodPost, http.MethodPut:
			var in map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			in["materia_id"] = 9
			writeJSON(w, http.StatusOK, in)
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	}), Options{})
	ctx := context.Background()

	rows, err := c.ResourceFetcher("academic/materias")(ctx, listview.PageRequest{PageNumber: 1, PageSize: 5}, listview.FilterState{})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	created, err := c.CreateResource(ctx, "/academic/materias/", listview.Record{"nombre": "Física"})
	require.NoError(t, err)
	assert.Equal(t, json.Number("9"), created["materia_id"])

	_, err = c.UpdateResource(ctx, "academic/materias", "9", listview.Record{"nombre": "Física II"})
	require.NoError(t, err)
	require.NoError(t, c.DeleteResource(ctx, "academic/materias", "9"))

	assert.Equal(t, []call{
		{http.MethodGet, "/academic/materias/"},
		{http.MethodPost, "/academic/materias/"},
		{http.MethodPut, "/academic/materias/9"},
		{http.MethodDelete, "/academic/materias/9"},
	}, calls)

	_, err = c.ListResource(ctx, "../etc", listview.PageRequest{PageNumber: 1, PageSize: 5})
	require.ErrorIs(t, err, ErrInvalidResource)
	require.ErrorIs(t, c.DeleteResource(ctx, "academic/materias", ""), ErrInvalidResource)
}

func TestClient_Stats(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/attendance/stats":
			_, _ = io.WriteString(w, `{"global_rate":92.5,"today_rate":88,"last_record_date":"2026-03-01","today_absent":14}`)
		case "/financial/stats":
			_, _ = io.WriteString(w, `{"total_revenue":125000.10,"pending_debt":"4300.05","delinquency_rate":3.4,"collection_rate":96.6}`)
		default:
			http.NotFound(w, r)
		}
	}), Options{})
	ctx := context.Background()

	att, err := c.AttendanceStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, AttendanceStats{GlobalRate: 92.5, TodayRate: 88, LastRecordDate: "2026-03-01", TodayAbsent: 14}, att)

	fin, err := c.FinancialStats(ctx)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("125000.10").Equal(fin.TotalRevenue))
	assert.True(t, decimal.RequireFromString("4300.05").Equal(fin.PendingDebt))
	assert.InDelta(t, 96.6, fin.CollectionRate, 1e-9)
}

func TestClient_StudentDashboard(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/dashboard/student/42", r.URL.Path)
		_, _ = io.WriteString(w, `{
			"student": {"id": 42, "name": "Maria Lopez", "email": "maria@example.edu"},
			"global_status": {"color": "yellow", "ai_summary": "Needs support in math", "badges": ["Constante"]},
			"metrics": {
				"academic": {"average": 12.4, "success_rate": 0.8},
				"emotional": {"current_mood": 0.42, "stress_level": "Alto"},
				"social": {"collaboration_score": 7, "network_health": "Estable"}
			},
			"agents_status": {"m2_risk": {"value": 0.61, "status": "up"}, "m3_tutor": {"weak_subjects": ["Álgebra"]}}
		}`)
	}), Options{})

	d, err := c.StudentDashboard(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 42, d.ID)
	assert.Equal(t, "Maria Lopez", d.Name)
	assert.Equal(t, []string{"Constante"}, d.Badges)
	assert.InDelta(t, 12.4, d.AcademicAverage, 1e-9)
	assert.Equal(t, "Alto", d.StressLevel)
	assert.InDelta(t, 0.61, d.DropoutRisk, 1e-9)
	assert.Equal(t, []string{"Álgebra"}, d.WeakSubjects)
	assert.True(t, d.HasDashboardMetrics)
}

func TestCheckVersion(t *testing.T) {
	tests := []struct {
		version string
		ok      bool
	}{
		{"1.0.0", true},
		{"2.4.1", true},
		{"v1.2", true},
		{"0.9.0", false},
		{"3.0.0", false},
		{"latest", false},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			err := CheckVersion(tt.version)
			if tt.ok {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrIncompatible)
		})
	}
}

func TestClient_CheckCompatibility(t *testing.T) {
	version := "2.1.0"
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, Health{Status: "ok", Version: version})
	}), Options{})

	h, err := c.CheckCompatibility(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", h.Status)

	version = "4.0.0"
	_, err = c.CheckCompatibility(context.Background())
	require.ErrorIs(t, err, ErrIncompatible)

	version = ""
	_, err = c.CheckCompatibility(context.Background())
	require.NoError(t, err)
}
