package config

import (
	"fmt"
	"strings"
)

// IssueSeverity classifies a validation finding.
type IssueSeverity string

const (
	// SeverityError blocks execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is surfaced but does not block.
	SeverityWarning IssueSeverity = "warning"
)

// Issue is a single validation finding. Path is a dotted path into the job
// file (e.g. "source.kind"); Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements error so an Issue can be handled as one.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue is of error severity.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validate performs static checks over a decoded Job and returns every
// finding. It does not mutate the job; callers decide whether warnings are
// fatal.
func Validate(j Job) []Issue {
	var issues []Issue
	errf := func(path, format string, a ...any) {
		issues = append(issues, Issue{SeverityError, path, fmt.Sprintf(format, a...)})
	}
	warnf := func(path, format string, a ...any) {
		issues = append(issues, Issue{SeverityWarning, path, fmt.Sprintf(format, a...)})
	}

	switch j.Source.Kind {
	case "file":
		if strings.TrimSpace(j.Source.Path) == "" {
			errf("source.path", "path is required for the file source")
		}
	case "http":
		if strings.TrimSpace(j.Source.URL) == "" {
			errf("source.url", "url is required for the http source")
		}
	case "":
		errf("source.kind", "source kind is required (file or http)")
	default:
		errf("source.kind", "unknown source kind %q", j.Source.Kind)
	}

	if strings.TrimSpace(j.Convert.Dest) == "" {
		errf("convert.dest", "destination path is required")
	}
	if len(j.Convert.DuplicateKeys) == 0 {
		warnf("convert.duplicate_keys", "no duplicate keys configured; every record will be kept")
	}
	for i, k := range j.Convert.DuplicateKeys {
		if k != strings.ToLower(k) || strings.ContainsAny(k, " \t") {
			warnf(fmt.Sprintf("convert.duplicate_keys[%d]", i),
				"%q is not a normalized field name (expect lowercase with underscores)", k)
		}
	}

	switch j.Storage.Kind {
	case "", "sqlite", "postgres":
	default:
		errf("storage.kind", "unknown storage backend %q", j.Storage.Kind)
	}
	if j.Storage.Kind != "" && strings.TrimSpace(j.Storage.DSN) == "" {
		errf("storage.dsn", "dsn is required when a storage backend is configured")
	}

	return issues
}
