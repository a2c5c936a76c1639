package ui

import "github.com/charmbracelet/lipgloss"

// This file centralizes the lipgloss styles used across the TUI.

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFF")).
			Background(lipgloss.Color("63")). // Purple
			Bold(true).
			Padding(0, 1)

	specStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // Cyan/Teal

	meanStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")) // Light Gray

	intervalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")) // Dim Gray

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")). // Green
			Bold(true)

	timeoutStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")). // Orange
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)
)
