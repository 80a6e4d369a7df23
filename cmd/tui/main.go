package main

import (
	"fmt"
	"os"

	"github.com/Varun5711/accounts/cmd/tui/client"
	"github.com/Varun5711/accounts/cmd/tui/ui"
	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	baseURL := os.Getenv("ACCOUNT_SERVICE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}

	p := tea.NewProgram(
		ui.NewModel(client.NewClient(baseURL)),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
