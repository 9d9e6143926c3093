package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tripdesk/meetings/calendar/google"
	"github.com/tripdesk/meetings/file"
)

var ConfigureCommand = _configureCommand{
	Name:        "configure",
	Description: "Connect a Google Calendar account",
}

type _configureCommand struct {
	Name        string
	Description string
}

func (c _configureCommand) Run(ctx context.Context, cfg *file.Config, verbose bool, args []string) error {
	credJSON, err := os.ReadFile(cfg.Google.CredentialsFile)
	if err != nil {
		return fmt.Errorf("reading credentials file: %w", err)
	}

	client, err := google.NewClient(credJSON)
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}
	client.Verbose = verbose

	w := flag.CommandLine.Output()

	authToken, err := client.Login(ctx, func(authURL string) {
		fmt.Fprintf(w, "Go to the following link in your browser\n%s\n", authURL)
	})
	if err != nil {
		return fmt.Errorf("google: logging in: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Google.TokenFile), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(cfg.Google.TokenFile, authToken, 0o600); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}

	fmt.Fprintf(w, "Token saved to %s; the calendar backend is now active.\n", cfg.Google.TokenFile)
	return nil
}
