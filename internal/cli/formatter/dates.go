package formatter

import (
	"fmt"
	"math"
	"time"
)

const dateLayout = "2006-01-02"

// RelativeDays describes t against now in whole days, e.g. "in 3d" or "12d ago".
func RelativeDays(t, now time.Time) string {
	days := int(math.Round(t.Sub(now).Hours() / 24))
	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "tomorrow"
	case days == -1:
		return "yesterday"
	case days > 0:
		return fmt.Sprintf("in %dd", days)
	default:
		return fmt.Sprintf("%dd ago", -days)
	}
}

// DueStyled colours a final action date by how close it is.
func DueStyled(t, now time.Time) string {
	text := RelativeDays(t, now)
	remaining := t.Sub(now)
	switch {
	case remaining < 3*24*time.Hour:
		return StyleRed.Render(text)
	case remaining <= 7*24*time.Hour:
		return StyleYellow.Render(text)
	default:
		return StyleFg.Render(text)
	}
}
