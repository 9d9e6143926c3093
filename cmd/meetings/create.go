package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/tripdesk/meetings"
	"github.com/tripdesk/meetings/file"
)

var CreateCommand = _createCommand{
	Name:        "create",
	Description: "Create a meeting on the active backend",
}

type _createCommand struct {
	Name        string
	Description string
}

func (c _createCommand) Run(ctx context.Context, cfg *file.Config, verbose bool, args []string) error {
	var (
		in        meetings.MeetingInput
		typ       string
		attendees Strings
	)
	in.Date = meetings.Today()

	fs := flag.NewFlagSet(c.Name, flag.ExitOnError)
	fs.Usage = func() {
		w := flag.CommandLine.Output()
		fmt.Fprintf(w, "Usage of %s %s:\n", os.Args[0], fs.Name())
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Options:\n")
		fs.PrintDefaults()
	}
	fs.StringVar(&in.Title, "title", "", "meeting title (required)")
	fs.StringVar(&typ, "type", meetings.TypeVideo.String(), "meeting type (video, phone, in-person)")
	fs.Var(&in.Date, "date", "meeting date (e.g. 2025-05-01, default today)")
	fs.StringVar(&in.Time, "time", "09:00", "meeting start time")
	fs.IntVar(&in.DurationMinutes, "duration", 30, "duration in minutes")
	fs.Var(&attendees, "attendee", "attendee email or name, repeatable")
	fs.StringVar(&in.Location, "location", "", "meeting location")
	fs.StringVar(&in.Description, "description", "", "meeting description")
	fs.StringVar(&in.MeetingURL, "url", "", "explicit meeting URL (video meetings get one synthesized)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	in.Type = meetings.Type(typ)
	in.Attendees = attendees

	st := newStore(cfg, verbose)
	created, err := st.Create(ctx, &in)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Created meeting %s (%s %s, %s)\n",
		created.ID, created.Date(), created.Clock(), st.BackendName())
	if created.MeetingURL != "" {
		fmt.Fprintln(os.Stdout, "Join:", created.MeetingURL)
	}
	return nil
}
