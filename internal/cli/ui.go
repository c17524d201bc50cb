package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette. Numbers are ANSI 256 colors.
var (
	colorAccent = lipgloss.Color("36")
	colorOK     = lipgloss.Color("35")
	colorWarn   = lipgloss.Color("220")
	colorFail   = lipgloss.Color("167")
	colorLink   = lipgloss.Color("75")
	colorText   = lipgloss.Color("255")
	colorMuted  = lipgloss.Color("245")
	colorFaint  = lipgloss.Color("240")
)

var (
	// StyleDim renders secondary text: details, separators, spinner messages.
	StyleDim = lipgloss.NewStyle().Foreground(colorFaint)

	// StyleLink renders URLs such as the API listen address.
	StyleLink = lipgloss.NewStyle().Foreground(colorLink).Underline(true)

	// StyleWarning renders the body of warnings.
	StyleWarning = lipgloss.NewStyle().Foreground(colorWarn)

	styleValue       = lipgloss.NewStyle().Foreground(colorText)
	styleCommand     = lipgloss.NewStyle().Foreground(colorLink)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)
	styleBar         = lipgloss.NewStyle().Foreground(colorAccent)
)

// A marker is the glyph that prefixes a status line.
type marker struct {
	glyph string
	style lipgloss.Style
}

var (
	markSuccess = marker{"✓", lipgloss.NewStyle().Foreground(colorOK)}
	markError   = marker{"✗", lipgloss.NewStyle().Foreground(colorFail)}
	markWarning = marker{"!", lipgloss.NewStyle().Foreground(colorWarn)}
	markInfo    = marker{"›", lipgloss.NewStyle().Foreground(colorMuted)}
)

func (m marker) println(body string) {
	fmt.Println(m.style.Render(m.glyph) + " " + body)
}

func printSuccess(format string, args ...any) {
	markSuccess.println(fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	markError.println(fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	markWarning.println(StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	markInfo.println(fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line under the previous status.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile lists a written artifact or frame.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render("→") + " " + styleValue.Render(path))
}

// printStats summarizes a run: "400 points · 80 rounds · 600x400 · cached".
// Rounds are omitted when zero, as for a render of an existing points file.
func printStats(points, rounds, width, height int, cached bool) {
	parts := []string{fmt.Sprintf("%d points", points)}
	if rounds > 0 {
		parts = append(parts, fmt.Sprintf("%d rounds", rounds))
	}
	parts = append(parts, fmt.Sprintf("%dx%d", width, height))
	for i, p := range parts {
		parts[i] = StyleDim.Render(p)
	}

	origin := lipgloss.NewStyle().Foreground(colorMuted).Render("fresh")
	if cached {
		origin = markSuccess.style.Render("cached")
	}
	parts = append(parts, origin)
	fmt.Println("  " + strings.Join(parts, StyleDim.Render(" · ")))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}
