package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/app"
)

// FormatExtensionResult renders the applications whose final action date moved.
func FormatExtensionResult(res *app.ExtensionResult, now time.Time) string {
	var b strings.Builder
	b.WriteString(Header("Final action date extensions"))
	b.WriteString("\n")

	if len(res.Extended) == 0 {
		b.WriteString(Dim("No applications due for extension."))
		b.WriteString("\n")
	} else {
		rows := make([][]string, 0, len(res.Extended))
		for _, e := range res.Extended {
			rows = append(rows, []string{
				e.ApplicationReference,
				e.FinalActionDate.Format(dateLayout),
				DueStyled(e.FinalActionDate, now),
			})
		}
		b.WriteString(RenderTable([]string{"REFERENCE", "FINAL ACTION DATE", "DUE"}, rows))
	}

	fmt.Fprintf(&b, "\n%s %s\n", Dim("extended"), Bold(fmt.Sprint(len(res.Extended))))
	if len(res.Skipped) > 0 {
		fmt.Fprintf(&b, "%s %d %s\n", Dim("skipped"), len(res.Skipped), Dim("(already extended)"))
	}
	writeIDs(&b, "notification failed", res.NotifyFailed)
	return b.String()
}

// FormatJobResult renders a batch pass summary under title.
func FormatJobResult(title string, res *app.JobResult) string {
	var b strings.Builder
	b.WriteString(Header(title))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s  %s %s\n",
		Dim("processed"), StyleGreen.Render(fmt.Sprint(len(res.Processed))),
		Dim("failed"), failedCount(len(res.Failed)))
	writeIDs(&b, "failed", res.Failed)
	return b.String()
}

func failedCount(n int) string {
	if n == 0 {
		return StyleDim.Render("0")
	}
	return StyleRed.Render(fmt.Sprint(n))
}

func writeIDs(b *strings.Builder, label string, ids []string) {
	if len(ids) == 0 {
		return
	}
	fmt.Fprintf(b, "%s\n", StyleRed.Render(label+":"))
	for _, id := range ids {
		fmt.Fprintf(b, "  %s\n", id)
	}
}
