package scenario

import "fmt"

// InvalidError reports a scenario parameter that failed validation.
// It names the offending scenario and field so a caller evaluating
// several configurations can tell which one to fix.
type InvalidError struct {
	Scenario string
	Field    string
	Message  string
}

func (e *InvalidError) Error() string {
	if e.Scenario == "" {
		return fmt.Sprintf("%s %s", e.Field, e.Message)
	}
	return fmt.Sprintf("scenario %q: %s %s", e.Scenario, e.Field, e.Message)
}
