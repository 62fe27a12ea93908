package printer

import (
	"fmt"
	"time"

	"github.com/slok/tasklist/internal/model"
)

// DueIn returns a human-readable due date relative to today.
// Examples: "today", "tomorrow", "in 3 days", "2 days ago", "-" when undated.
func DueIn(task model.Task, today time.Time) string {
	due, ok := task.Due()
	if !ok {
		return "-"
	}

	days := int(due.Sub(model.DateOf(today)).Hours() / 24)
	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "tomorrow"
	case days == -1:
		return "yesterday"
	case days > 1:
		return fmt.Sprintf("in %d days", days)
	default:
		return fmt.Sprintf("%d days ago", -days)
	}
}
