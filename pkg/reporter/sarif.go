package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/yaklabco/mdfix/pkg/lint"
	"github.com/yaklabco/mdfix/pkg/runner"
)

const (
	sarifVersion   = "2.1.0"
	sarifSchemaURI = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"
	sarifLevel     = "warning"
)

// SARIFOutput is a SARIF 2.1.0 log with one run.
type SARIFOutput struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SARIFRun `json:"runs"`
}

// SARIFRun is one tool invocation.
type SARIFRun struct {
	Tool    SARIFTool     `json:"tool"`
	Results []SARIFResult `json:"results"`
}

// SARIFTool wraps the driver.
type SARIFTool struct {
	Driver SARIFDriver `json:"driver"`
}

// SARIFDriver describes mdfix and its rules.
type SARIFDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version,omitempty"`
	Rules   []SARIFRule `json:"rules"`
}

// SARIFRule describes one rule.
type SARIFRule struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	ShortDescription SARIFText      `json:"shortDescription"`
	Properties       map[string]any `json:"properties,omitempty"`
}

// SARIFText is a plain message.
type SARIFText struct {
	Text string `json:"text"`
}

// SARIFResult is one violation.
type SARIFResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level"`
	Message   SARIFText       `json:"message"`
	Locations []SARIFLocation `json:"locations"`
}

// SARIFLocation points into a file.
type SARIFLocation struct {
	PhysicalLocation SARIFPhysicalLocation `json:"physicalLocation"`
}

// SARIFPhysicalLocation is a file and region.
type SARIFPhysicalLocation struct {
	ArtifactLocation SARIFArtifact `json:"artifactLocation"`
	Region           SARIFRegion   `json:"region"`
}

// SARIFArtifact names a file.
type SARIFArtifact struct {
	URI string `json:"uri"`
}

// SARIFRegion is a 1-based line with optional columns.
type SARIFRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn,omitempty"`
	EndColumn   int `json:"endColumn,omitempty"`
}

// SARIFReporter writes results for code scanning tools.
type SARIFReporter struct {
	opts Options
}

// NewSARIFReporter creates a SARIFReporter.
func NewSARIFReporter(opts Options) *SARIFReporter {
	return &SARIFReporter{opts: opts}
}

// Report implements Reporter.
func (r *SARIFReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	bw := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := BuildSARIF(result, r.opts.Registry, r.opts.Version)

	encoder := json.NewEncoder(bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode SARIF: %w", err)
	}

	return len(output.Runs[0].Results), nil
}

// BuildSARIF converts a run result to SARIF. Rule metadata comes from
// registry for the rules that reported violations.
func BuildSARIF(result *runner.Result, registry *lint.Registry, version string) *SARIFOutput {
	run := SARIFRun{
		Tool:    SARIFTool{Driver: SARIFDriver{Name: "mdfix", Version: version, Rules: []SARIFRule{}}},
		Results: []SARIFResult{},
	}

	ruleIndex := make(map[string]int)
	indexOf := func(v lint.Violation) int {
		if idx, ok := ruleIndex[v.RuleID]; ok {
			return idx
		}
		rule := SARIFRule{ID: v.RuleID, Name: v.RuleName}
		if registry != nil {
			if found, ok := registry.GetByID(v.RuleID); ok {
				rule.ShortDescription.Text = found.Description()
				rule.Properties = map[string]any{"tags": found.Tags(), "fixable": lint.IsFixable(found)}
			}
		}
		ruleIndex[v.RuleID] = len(run.Tool.Driver.Rules)
		run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, rule)
		return ruleIndex[v.RuleID]
	}

	if result != nil {
		for _, file := range result.Files {
			for _, v := range file.Violations {
				message := v.RuleName
				if v.Details != "" {
					message += ": " + v.Details
				}

				region := SARIFRegion{StartLine: max(v.LineNumber, 1)}
				if v.Range != nil {
					region.StartColumn = v.Range.Start + 1
					region.EndColumn = max(v.Range.End, v.Range.Start) + 1
				}

				run.Results = append(run.Results, SARIFResult{
					RuleID:    v.RuleID,
					RuleIndex: indexOf(v),
					Level:     sarifLevel,
					Message:   SARIFText{Text: message},
					Locations: []SARIFLocation{{PhysicalLocation: SARIFPhysicalLocation{
						ArtifactLocation: SARIFArtifact{URI: filepath.ToSlash(file.Display)},
						Region:           region,
					}}},
				})
			}
		}
	}

	return &SARIFOutput{Schema: sarifSchemaURI, Version: sarifVersion, Runs: []SARIFRun{run}}
}
