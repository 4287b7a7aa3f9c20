package logging

// Structured log field names.
const (
	FieldError  = "error"
	FieldPath   = "path"
	FieldPaths  = "paths"
	FieldDir    = "dir"
	FieldConfig = "config"

	FieldRule     = "rule"
	FieldRules    = "rules"
	FieldIssues   = "issues"
	FieldFixes    = "fixes"
	FieldRemain   = "remaining"
	FieldFallback = "fallbacks"
	FieldWarning  = "warning"

	FieldFiles         = "files"
	FieldFilesModified = "files_modified"
	FieldWorkers       = "workers"
	FieldDuration      = "duration"

	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
