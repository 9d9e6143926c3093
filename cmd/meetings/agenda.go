package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/tripdesk/meetings"
	"github.com/tripdesk/meetings/calendar/ics"
	"github.com/tripdesk/meetings/file"
)

var AgendaCommand = _agendaCommand{
	Name:        "agenda",
	Description: "Show the 7-day compact agenda",
}

type _agendaCommand struct {
	Name        string
	Description string
}

func (c _agendaCommand) Run(ctx context.Context, cfg *file.Config, verbose bool, args []string) error {
	var (
		today   = meetings.Today()
		icsMode bool
	)

	fs := flag.NewFlagSet(c.Name, flag.ExitOnError)
	fs.Usage = func() {
		w := flag.CommandLine.Output()
		fmt.Fprintf(w, "Usage of %s %s:\n", os.Args[0], fs.Name())
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Options:\n")
		fs.PrintDefaults()
	}
	fs.Var(&today, "date", "first agenda day (e.g. 2025-05-01, default today)")
	fs.BoolVar(&icsMode, "ics", false, "write the agenda as iCalendar to stdout")

	if err := fs.Parse(args); err != nil {
		return err
	}

	st := newStore(cfg, verbose)
	days := st.AgendaView(ctx, today)

	if icsMode {
		return ics.EncodeAgenda(os.Stdout, days)
	}

	for _, day := range days {
		fmt.Fprintf(os.Stdout, "%s (%s)\n", day.Date, day.Date.Format("Mon"))
		if len(day.Meetings) == 0 {
			fmt.Fprintln(os.Stdout, "  -")
			continue
		}
		for _, m := range day.Meetings {
			fmt.Fprintf(os.Stdout, "  %s %3dm [%s] %s\n", m.Clock(), m.DurationMinutes, m.Status, m.Title)
		}
	}
	return nil
}
