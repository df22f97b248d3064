package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/app"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/domain"
)

const barMaxWidth = 30

// FormatStatusDurations renders the days spent in each status with a bar
// scaled to the longest stay.
func FormatStatusDurations(resp *app.StatusDurationsResponse) string {
	var b strings.Builder
	b.WriteString(Header("Status durations"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s  %s %s\n\n",
		Dim("application"), Bold(resp.ApplicationID),
		Dim("current"), StatusPill(resp.CurrentStatus))

	if len(resp.Durations) == 0 {
		b.WriteString(Dim("No status history recorded."))
		b.WriteString("\n")
		return b.String()
	}

	longest := 0
	for _, d := range resp.Durations {
		longest = max(longest, d.Days)
	}

	rows := make([][]string, 0, len(resp.Durations))
	for _, d := range resp.Durations {
		rows = append(rows, []string{
			StatusStyle(d.Status).Render(string(d.Status)),
			strconv.Itoa(d.Days),
			StatusStyle(d.Status).Render(bar(d.Days, longest)),
		})
	}
	b.WriteString(RenderTable([]string{"STATUS", "DAYS", ""}, rows))
	fmt.Fprintf(&b, "\n%s %s\n", Dim("total"), Bold(fmt.Sprintf("%d days", resp.TotalDays())))
	return b.String()
}

func bar(days, longest int) string {
	if longest == 0 || days == 0 {
		return ""
	}
	width := max(days*barMaxWidth/longest, 1)
	return strings.Repeat("█", width)
}

// FormatAssignees renders the current assignees of an application.
func FormatAssignees(applicationID string, assignees []domain.AssigneeHistory, now time.Time) string {
	var b strings.Builder
	b.WriteString(Header("Assignees"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s\n\n", Dim("application"), Bold(applicationID))

	if len(assignees) == 0 {
		b.WriteString(Dim("No active assignees."))
		b.WriteString("\n")
		return b.String()
	}

	rows := make([][]string, 0, len(assignees))
	for _, a := range assignees {
		role := StyleBlue.Render(string(a.Role))
		if a.Role.IsExternal() {
			role = StyleYellow.Render(string(a.Role))
		}
		rows = append(rows, []string{
			role,
			a.AssignedUserID,
			a.TimestampAssigned.Format(dateLayout) + " " + Dim("("+RelativeDays(a.TimestampAssigned, now)+")"),
		})
	}
	b.WriteString(RenderTable([]string{"ROLE", "USER", "ASSIGNED"}, rows))
	return b.String()
}
