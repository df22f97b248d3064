package formatter

import (
	"fmt"
	"strings"

	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Gruvbox-inspired palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// DisableColor strips ANSI styling from everything rendered afterwards.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// StatusStyle picks the colour for an application status.
func StatusStyle(status domain.FellingLicenceStatus) lipgloss.Style {
	switch status {
	case domain.StatusApproved:
		return StyleGreen
	case domain.StatusRefused, domain.StatusWithdrawn, domain.StatusApprovedInError:
		return StyleRed
	case domain.StatusWithApplicant, domain.StatusReturnedToApplicant:
		return StyleYellow
	case domain.StatusDraft, domain.StatusReferredToLocalAuthority:
		return StyleDim
	default:
		return StyleBlue
	}
}

// StatusPill renders a status with a marker distinguishing final states.
func StatusPill(status domain.FellingLicenceStatus) string {
	marker := "●"
	if status.IsFinal() {
		marker = "✔"
	}
	return StatusStyle(status).Render(marker + " " + string(status))
}

// Header renders a section header with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len([]rune(upper)))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
