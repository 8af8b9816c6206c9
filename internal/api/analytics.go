package api

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrInvalidSimulation is returned for a simulation request outside the
// accepted factor range or target set.
var ErrInvalidSimulation = errors.New("invalid simulation")

// Simulation factor bounds: 1.0 is no change, 1.5 a 50% improvement.
const (
	MinSimulationFactor = 1.0
	MaxSimulationFactor = 1.5
)

const (
	featureImportancePath = "/analytics/feature-importance"
	correlationsPath      = "/analytics/correlations"
	simulationPath        = "/analytics/simulate"
)

// SimulationTargets returns the model inputs a simulation can improve.
func SimulationTargets() []string {
	return []string{"asistencia_promedio", "notas_promedio", "interacciones_plataforma_total"}
}

// Feature is one input of the dropout model with its weight (0-1).
type Feature struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// FeatureImportance returns the model inputs ordered by weight, heaviest first.
func (c *Client) FeatureImportance(ctx context.Context) ([]Feature, error) {
	body, err := c.send(ctx, c.request(ctx), http.MethodGet, featureImportancePath)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("decoding %s response: invalid JSON", featureImportancePath)
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, fmt.Errorf("decoding %s response: expected an object", featureImportancePath)
	}

	var features []Feature
	root.ForEach(func(key, value gjson.Result) bool {
		if value.Type == gjson.Number {
			features = append(features, Feature{Name: key.String(), Weight: value.Float()})
		}
		return true
	})
	sort.SliceStable(features, func(i, j int) bool {
		return features[i].Weight > features[j].Weight
	})
	return features, nil
}

// ScatterPoint is one student in the attendance against grade scatter.
type ScatterPoint struct {
	Attendance float64 `json:"asistencia_promedio"`
	Grade      float64 `json:"notas_promedio"`
}

// Correlations is the attendance against grade distribution.
type Correlations struct {
	Points []ScatterPoint `json:"scatter_data"`
}

// Correlations fetches the scatter data. Points missing either coordinate
// are skipped.
func (c *Client) Correlations(ctx context.Context) (Correlations, error) {
	body, err := c.send(ctx, c.request(ctx), http.MethodGet, correlationsPath)
	if err != nil {
		return Correlations{}, err
	}
	if !gjson.ValidBytes(body) {
		return Correlations{}, fmt.Errorf("decoding %s response: invalid JSON", correlationsPath)
	}

	var out Correlations
	for _, p := range gjson.GetBytes(body, "scatter_data").Array() {
		att, grade := p.Get("asistencia_promedio"), p.Get("notas_promedio")
		if att.Type != gjson.Number || grade.Type != gjson.Number {
			continue
		}
		out.Points = append(out.Points, ScatterPoint{Attendance: att.Float(), Grade: grade.Float()})
	}
	return out, nil
}

// CorrelationSummary condenses the scatter into numbers a terminal can show.
// Pearson is nil when fewer than two points or a constant axis leave it undefined.
type CorrelationSummary struct {
	Points         int      `json:"points"`
	MeanAttendance float64  `json:"mean_attendance"`
	MeanGrade      float64  `json:"mean_grade"`
	Pearson        *float64 `json:"pearson,omitempty"`
}

// Summary returns the means and the Pearson coefficient of the scatter.
func (c Correlations) Summary() CorrelationSummary {
	n := len(c.Points)
	s := CorrelationSummary{Points: n}
	if n == 0 {
		return s
	}

	var sumX, sumY float64
	for _, p := range c.Points {
		sumX += p.Attendance
		sumY += p.Grade
	}
	s.MeanAttendance = sumX / float64(n)
	s.MeanGrade = sumY / float64(n)
	if n < 2 {
		return s
	}

	var cov, varX, varY float64
	for _, p := range c.Points {
		dx, dy := p.Attendance-s.MeanAttendance, p.Grade-s.MeanGrade
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return s
	}
	r := cov / math.Sqrt(varX*varY)
	s.Pearson = &r
	return s
}

// SimulationRequest asks the model what happens when Target improves by Factor.
type SimulationRequest struct {
	Factor float64 `json:"factor"`
	Target string  `json:"target"`
}

// Validate checks the factor range and the target.
func (r SimulationRequest) Validate() error {
	if !(r.Factor >= MinSimulationFactor && r.Factor <= MaxSimulationFactor) {
		return fmt.Errorf("%w: factor %v must be between %.2f and %.2f",
			ErrInvalidSimulation, r.Factor, MinSimulationFactor, MaxSimulationFactor)
	}
	for _, t := range SimulationTargets() {
		if r.Target == t {
			return nil
		}
	}
	return fmt.Errorf("%w: target %q (valid: %s)",
		ErrInvalidSimulation, r.Target, strings.Join(SimulationTargets(), ", "))
}

// SimulationResult is the model's projection. Risks are 0-1 ratios.
type SimulationResult struct {
	BaselineRisk            float64 `json:"baseline_risk"`
	SimulatedRisk           float64 `json:"simulated_risk"`
	ImprovementPercent      float64 `json:"improvement_percent"`
	StudentsSavedProjection float64 `json:"students_saved_projection"`
	Insight                 string  `json:"insight,omitempty"`
}

// Simulate runs a what-if projection on the dropout model.
func (c *Client) Simulate(ctx context.Context, req SimulationRequest) (SimulationResult, error) {
	if err := req.Validate(); err != nil {
		return SimulationResult{}, err
	}
	var res SimulationResult
	if err := c.sendJSON(ctx, http.MethodPost, simulationPath, req, &res); err != nil {
		return SimulationResult{}, err
	}
	return res, nil
}
