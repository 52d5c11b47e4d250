package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Stage is one named phase of the configured workflow, in lifecycle order.
type Stage struct {
	Name string `yaml:"name"`
}

// Workflow is the YAML-configured description of the delivery process and the
// cycle flow outputs to produce.
type Workflow struct {
	// Cycle lists every stage in order. The first entry is the intake/backlog
	// stage and the last the terminal stage; neither carries flow time.
	Cycle []Stage `yaml:"cycle"`

	// Frequency is the bucket length: day, week or month (default month).
	Frequency string `yaml:"frequency"`

	// ResampleOn overrides the timestamp column items are bucketed on
	// (default completed_timestamp).
	ResampleOn string `yaml:"resample_on"`

	// CycleFlowChart is the chart output path. Empty disables the chart.
	CycleFlowChart string `yaml:"cycle_flow_chart"`

	// CycleFlowData is the CSV data output path. Empty disables it.
	CycleFlowData string `yaml:"cycle_flow_data"`
}

// LoadWorkflow reads and validates the workflow file.
func LoadWorkflow(path string) (*Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workflow file: %w", err)
	}

	var wf Workflow
	if err := yaml.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("parse workflow file %s: %w", path, err)
	}

	seen := make(map[string]bool, len(wf.Cycle))
	for i, st := range wf.Cycle {
		if st.Name == "" {
			return nil, fmt.Errorf("workflow file %s: cycle entry %d has no name", path, i)
		}
		if seen[st.Name] {
			return nil, fmt.Errorf("workflow file %s: duplicate stage %q", path, st.Name)
		}
		seen[st.Name] = true
	}

	return &wf, nil
}

// ActiveStageNames returns the stages counted in flow aggregation: everything
// between the intake and terminal stages, in configured order.
func (w Workflow) ActiveStageNames() []string {
	if len(w.Cycle) <= 2 {
		return nil
	}
	names := make([]string, 0, len(w.Cycle)-2)
	for _, st := range w.Cycle[1 : len(w.Cycle)-1] {
		names = append(names, st.Name)
	}
	return names
}
