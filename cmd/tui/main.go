package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"quizhub/internal/ui/play"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "quiz server base URL")
	name := flag.String("name", "", "student name (skips the name prompt)")
	noColor := flag.Bool("no-color", false, "disable colored output")
	flag.Parse()

	client := play.NewClient(*server)
	model := play.NewModel(client, play.Options{StudentName: *name, NoColor: *noColor})

	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	// Abandon the session instead of leaving it to the idle sweeper.
	if m, ok := final.(play.Model); ok && m.SessionID() != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = client.Delete(ctx, m.SessionID())
	}
}
