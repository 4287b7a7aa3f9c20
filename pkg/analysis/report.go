package analysis

// Report holds per-rule and per-file views of a run.
type Report struct {
	// ByRule groups violations by rule.
	ByRule []RuleAnalysis `json:"byRule"`

	// ByFile groups violations by file; files without issues are left out.
	ByFile []FileAnalysis `json:"byFile"`

	Totals Totals `json:"totals"`
}

// Totals contains aggregate statistics for the report.
type Totals struct {
	Files           int `json:"filesChecked"`
	FilesWithIssues int `json:"filesWithIssues"`
	Issues          int `json:"issues"`

	// Fixable counts issues whose rule has a fixer.
	Fixable int `json:"fixable"`

	// Fixed counts issues that a fix run removed.
	Fixed int `json:"fixed"`
}

// FileAnalysis contains aggregated data for a single file.
type FileAnalysis struct {
	Path   string   `json:"path"`
	Issues int      `json:"issues"`
	Fixed  int      `json:"fixed"`
	Rules  []string `json:"rules,omitempty"`
}

// RuleAnalysis contains aggregated data for a single rule.
type RuleAnalysis struct {
	RuleID   string   `json:"ruleId"`
	RuleName string   `json:"ruleName"`
	Issues   int      `json:"issues"`
	Fixed    int      `json:"fixed"`
	Fixable  bool     `json:"fixable"`
	Files    []string `json:"files,omitempty"`
}
