package main

import "github.com/charmbracelet/lipgloss"

// styles holds the lipgloss styles for CLI output.
type styles struct {
	Allowed  lipgloss.Style
	Rejected lipgloss.Style
	Warn     lipgloss.Style
	Header   lipgloss.Style
	Bullet   lipgloss.Style
	Dim      lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		Allowed:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")), // green
		Rejected: lipgloss.NewStyle().Foreground(lipgloss.Color("1")), // red
		Warn:     lipgloss.NewStyle().Foreground(lipgloss.Color("3")), // yellow
		Header:   lipgloss.NewStyle().Bold(true),
		Bullet:   lipgloss.NewStyle().Foreground(lipgloss.Color("4")), // blue
		Dim:      lipgloss.NewStyle().Faint(true),
	}
}
