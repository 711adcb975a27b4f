package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	quitTextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Margin(1, 0, 1, 2)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(1, 2)
	errorCardStyle = cardStyle.BorderForeground(lipgloss.Color("160"))

	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Bold(true)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	copiedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	toastOKStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	toastErrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// newSpinner is the spinner shared by the launch page and Spin.
func newSpinner() spinner.Model {
	return spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(keyStyle),
	)
}
