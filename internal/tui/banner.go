package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner for the chat CLI.
func PrintBanner() {
	p := termenv.ColorProfile()
	s1 := termenv.String("  _   _ ____  _____ _               ").Foreground(p.Color("#38bdf8"))
	s2 := termenv.String(" | | | |  _ \\|  ___| | _____      __").Foreground(p.Color("#22d3ee"))
	s3 := termenv.String(" | |_| | |_) | |_  | |/ _ \\ \\ /\\ / /").Foreground(p.Color("#2dd4bf"))
	s4 := termenv.String(" |  _  |  _ <|  _| | | (_) \\ V  V / ").Foreground(p.Color("#34d399"))
	s5 := termenv.String(" |_| |_|_| \\_\\_|   |_|\\___/ \\_/\\_/  ").Foreground(p.Color("#4ade80"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println()
}

// Prompt renders the user input prompt.
func Prompt(employeeID string) string {
	p := termenv.ColorProfile()
	return termenv.String(employeeID + " > ").Foreground(p.Color("#38bdf8")).Bold().String()
}

// Reply renders an assistant reply.
func Reply(text string) string {
	p := termenv.ColorProfile()
	return termenv.String(text).Foreground(p.Color("#e2e8f0")).String()
}

// Notice renders a secondary status line.
func Notice(text string) string {
	p := termenv.ColorProfile()
	return termenv.String(text).Foreground(p.Color("#94a3b8")).Faint().String()
}
