// Package ui holds the terminal output helpers shared by the CLI commands.
package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/pterm/pterm"
)

var (
	primaryColor   = lipgloss.Color("#3D9BE9")
	successColor   = lipgloss.Color("#00C781")
	warningColor   = lipgloss.Color("#FFAA15")
	errorColor     = lipgloss.Color("#FF4040")
	secondaryColor = lipgloss.Color("#777777")

	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(primaryColor)

	secondaryStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)
)

// PrintHeader prints the boxed command header.
func PrintHeader(title string, subtitle string) {
	width := 72
	if w := pterm.GetTerminalWidth(); w > 0 && w < width {
		width = w
	}

	header := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(primaryColor).
		Padding(0, 2).
		Render(lipgloss.JoinVertical(
			lipgloss.Center,
			titleStyle.Render(title),
			secondaryStyle.Render(subtitle),
		))

	fmt.Println(header)
	fmt.Println()
}

// PrintSuccess prints a success message.
func PrintSuccess(format string, args ...interface{}) {
	fmt.Println(successStyle.Render("✓ " + fmt.Sprintf(format, args...)))
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...interface{}) {
	fmt.Fprintln(os.Stderr, errorStyle.Render("✗ "+fmt.Sprintf(format, args...)))
}

// PrintWarning prints a warning message.
func PrintWarning(format string, args ...interface{}) {
	fmt.Println(warningStyle.Render("⚠ " + fmt.Sprintf(format, args...)))
}

// PrintInfo prints an informational message.
func PrintInfo(format string, args ...interface{}) {
	fmt.Println(infoStyle.Render("ℹ " + fmt.Sprintf(format, args...)))
}

// PrintSection prints an underlined section header.
func PrintSection(title string) {
	section := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(secondaryColor).
		Render(title)
	fmt.Println(section)
}

// PrintTable renders a header+rows table via pterm.
func PrintTable(headers []string, rows [][]string) {
	data := pterm.TableData{headers}
	data = append(data, rows...)
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// PrintSQL prints a generated statement in a bordered block.
func PrintSQL(sql string) {
	block := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(secondaryColor).
		Padding(0, 1).
		Render(sql)
	fmt.Println(block)
}

// PrintMarkdown renders markdown to the terminal.
func PrintMarkdown(content string) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return err
	}
	out, err := r.Render(content)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

// Spinner starts a spinner with the given message.
func Spinner(message string) (*pterm.SpinnerPrinter, error) {
	return pterm.DefaultSpinner.Start(message)
}

// Printers returns fatih/color printers for plain colored output.
func Printers() map[string]*color.Color {
	return map[string]*color.Color{
		"success": color.New(color.FgGreen, color.Bold),
		"error":   color.New(color.FgRed, color.Bold),
		"warning": color.New(color.FgYellow, color.Bold),
		"info":    color.New(color.FgCyan),
	}
}
