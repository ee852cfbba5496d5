// Package fancy provides lipgloss styling for CLI output.
package fancy

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
)

// RootStyle and HeaderStyle are composed into trees by callers. The
// unexported styles render through the helpers below.
var (
	RootStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	HeaderStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	upstreamStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	pathStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Italic(true)
	branchStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// UpstreamText renders an upstream endpoint in orange.
func UpstreamText(text string) string {
	return upstreamStyle.Render(text)
}

// ValidText renders success output in green.
func ValidText(text string) string {
	return okStyle.Render(text)
}

// ErrorText renders failure output in red.
func ErrorText(text string) string {
	return errStyle.Render(text)
}

// PathText renders a file path in muted gray.
func PathText(text string) string {
	return pathStyle.Render(text)
}

// SummaryText renders secondary detail in dark gray.
func SummaryText(text string) string {
	return branchStyle.Render(text)
}

// Tree returns a tree rooted at title with rounded branch styling.
// Child trees built the same way nest cleanly.
func Tree(title string) *tree.Tree {
	t := tree.New()
	t.EnumeratorStyle(branchStyle)
	t.Enumerator(tree.RoundedEnumerator)
	t.Root(title)
	return t
}
