// Package tui provides the Bubble Tea chat interfaces: the private
// mentor chat and the shared-room chat.
package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	userNameStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5FAFFF"))
	aiNameStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#87D787"))
	peerNameStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#D7AFFF"))
	bodyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	pendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Italic(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)
