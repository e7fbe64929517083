// File: cmd/bucketwarden/main.go
package main

import (
	"os"

	"bucketwarden/internal/logger"

	// Explicitly import the provider registrations to ensure their init() functions run
	_ "bucketwarden/internal/provider"
)

func main() {
	log := logger.NewLogger(debugRequested(os.Args[1:]))

	app, err := newApp(log)
	if err != nil {
		log.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}
	Execute(app)
}

// The logger has to exist before cobra parses anything, so the debug flag is
// detected with a plain argument scan.
func debugRequested(args []string) bool {
	for _, arg := range args {
		if arg == "--debug" || arg == "-d" {
			return true
		}
	}
	return false
}
