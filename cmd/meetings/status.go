package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/tripdesk/meetings"
	"github.com/tripdesk/meetings/file"
)

var StatusCommand = _statusCommand{
	Name:        "status",
	Description: "Mark a meeting completed or cancelled",
}

type _statusCommand struct {
	Name        string
	Description string
}

func (c _statusCommand) Run(ctx context.Context, cfg *file.Config, verbose bool, args []string) error {
	var (
		id string
		to string
	)

	fs := flag.NewFlagSet(c.Name, flag.ExitOnError)
	fs.Usage = func() {
		w := flag.CommandLine.Output()
		fmt.Fprintf(w, "Usage of %s %s:\n", os.Args[0], fs.Name())
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Options:\n")
		fs.PrintDefaults()
	}
	fs.StringVar(&id, "id", "", "meeting id (required)")
	fs.StringVar(&to, "to", "", "target status (completed or cancelled)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("-id is required")
	}
	status := meetings.Status(to)
	if !status.Terminal() {
		return fmt.Errorf("-to must be %s or %s", meetings.StatusCompleted, meetings.StatusCancelled)
	}

	st := newStore(cfg, verbose)
	st.UpdateStatus(ctx, id, status)

	fmt.Fprintf(os.Stdout, "Meeting %s marked %s (%s)\n", id, status, st.BackendName())
	return nil
}
