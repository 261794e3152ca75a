// Package report renders stored fit runs and forecasts.
package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"fjacquet/trendfit/internal/cli"
	"fjacquet/trendfit/internal/logging"
	"fjacquet/trendfit/internal/store"
	"fjacquet/trendfit/internal/trend"

	"gopkg.in/yaml.v3"
)

// Supported output formats.
const (
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatTable = "table"
)

// Report is the rendered view of a fit run.
type Report struct {
	RunID      string           `json:"run_id" yaml:"run_id"`
	CreatedAt  time.Time        `json:"created_at" yaml:"created_at"`
	Source     string           `json:"source,omitempty" yaml:"source,omitempty"`
	Categories []CategoryReport `json:"categories" yaml:"categories"`
}

// CategoryReport lists the chosen model of each target of one category.
type CategoryReport struct {
	Category string        `json:"category" yaml:"category"`
	Models   []ModelReport `json:"models" yaml:"models"`
}

// ModelReport is one chosen model.
type ModelReport struct {
	Target     trend.TargetKind `json:"target" yaml:"target"`
	Type       trend.ModelType  `json:"type" yaml:"type"`
	Equation   string           `json:"equation" yaml:"equation"`
	Parameters []float64        `json:"parameters" yaml:"parameters,flow"`
}

// FromRun builds a Report with targets in their canonical order.
func FromRun(run store.Run) *Report {
	r := &Report{RunID: run.ID, CreatedAt: run.CreatedAt, Source: run.Source}
	for _, b := range run.Bundles {
		cr := CategoryReport{Category: b.Category}
		for _, target := range trend.AllTargets {
			m, ok := b.Models[target]
			if !ok {
				continue
			}
			cr.Models = append(cr.Models, ModelReport{
				Target:     target,
				Type:       m.Type,
				Equation:   m.Equation,
				Parameters: m.Parameters,
			})
		}
		r.Categories = append(r.Categories, cr)
	}
	sort.Slice(r.Categories, func(i, j int) bool { return r.Categories[i].Category < r.Categories[j].Category })
	return r
}

// ReportGenerator renders reports in the supported formats.
type ReportGenerator struct {
	logger logging.Logger
}

// NewReportGenerator creates a new instance of ReportGenerator.
func NewReportGenerator(logger logging.Logger) *ReportGenerator {
	return &ReportGenerator{logger: logger.WithField("component", "ReportGenerator")}
}

// GenerateReport renders report as json, yaml or table.
func (g *ReportGenerator) GenerateReport(report *Report, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			g.logger.WithError(err).Error("Failed to marshal JSON report")
			return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
		}
		return data, nil
	case FormatYAML:
		data, err := yaml.Marshal(report)
		if err != nil {
			g.logger.WithError(err).Error("Failed to marshal YAML report")
			return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
		}
		return data, nil
	case FormatTable:
		return []byte(g.modelTable(report)), nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func (g *ReportGenerator) modelTable(report *Report) string {
	t := cli.Table{
		Title:   fmt.Sprintf("Run %s", shortID(report.RunID)),
		Headers: []string{"Category", "Target", "Model", "Equation"},
	}
	for _, c := range report.Categories {
		for _, m := range c.Models {
			t.Rows = append(t.Rows, []string{c.Category, string(m.Target), string(m.Type), m.Equation})
		}
	}

	var b strings.Builder
	b.WriteString(cli.RenderTable(t))
	if len(t.Rows) == 0 {
		b.WriteString(cli.RenderNote("No fitted models."))
		b.WriteString("\n")
	}
	return b.String()
}

// GenerateForecast renders forecast points as json, yaml or table.
func (g *ReportGenerator) GenerateForecast(points []trend.ForecastPoint, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(points, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal JSON forecast: %w", err)
		}
		return data, nil
	case FormatYAML:
		data, err := yaml.Marshal(points)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal YAML forecast: %w", err)
		}
		return data, nil
	case FormatTable:
		t := cli.Table{
			Title:   "Forecast",
			Headers: []string{"Category", "Target", "Period", "Value", "Model"},
		}
		for _, p := range points {
			t.Rows = append(t.Rows, []string{
				p.Category, p.Target, fmt.Sprint(p.PeriodIndex), cli.FormatValue(p.Value), string(p.Model),
			})
		}
		return []byte(cli.RenderTable(t)), nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

// GenerateRunList renders stored run summaries, newest first as the store returns them.
func (g *ReportGenerator) GenerateRunList(runs []store.RunSummary, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(runs, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal JSON run list: %w", err)
		}
		return data, nil
	case FormatYAML:
		data, err := yaml.Marshal(runs)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal YAML run list: %w", err)
		}
		return data, nil
	case FormatTable:
		t := cli.Table{
			Title:   "Fit runs",
			Headers: []string{"Run", "Created", "Categories", "Source"},
		}
		for _, r := range runs {
			t.Rows = append(t.Rows, []string{
				shortID(r.ID), r.CreatedAt.Format(time.RFC3339), fmt.Sprint(r.Categories), r.Source,
			})
		}
		var b strings.Builder
		b.WriteString(cli.RenderTable(t))
		if len(runs) == 0 {
			b.WriteString(cli.RenderNote("No runs stored."))
			b.WriteString("\n")
		}
		return []byte(b.String()), nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
