package cmd

import "github.com/charmbracelet/lipgloss"

var (
	colorGreen = lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#25D366"}
	colorWarn  = lipgloss.AdaptiveColor{Light: "#C77700", Dark: "#F2B138"}
	colorError = lipgloss.AdaptiveColor{Light: "#D7263D", Dark: "#F25D94"}
	colorDim   = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#626262"}

	okStyle     = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	warnStyle   = lipgloss.NewStyle().Foreground(colorWarn)
	errorStyle  = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	noticeStyle = lipgloss.NewStyle().Foreground(colorWarn).Bold(true)
)
