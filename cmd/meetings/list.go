package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/tripdesk/meetings"
	"github.com/tripdesk/meetings/file"
)

var ListCommand = _listCommand{
	Name:        "list",
	Description: "List meetings from the active backend",
}

type _listCommand struct {
	Name        string
	Description string
}

func (c _listCommand) Run(ctx context.Context, cfg *file.Config, verbose bool, args []string) error {
	var filter meetings.Filter

	fs := flag.NewFlagSet(c.Name, flag.ExitOnError)
	fs.Usage = func() {
		w := flag.CommandLine.Output()
		fmt.Fprintf(w, "Usage of %s %s:\n", os.Args[0], fs.Name())
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Options:\n")
		fs.PrintDefaults()
	}
	fs.StringVar(&filter.Query, "query", "", "free-text match on title, description or attendees")
	fs.StringVar(&filter.Status, "status", meetings.FilterAll, "filter by status (upcoming, completed, cancelled)")
	fs.StringVar(&filter.Type, "type", meetings.FilterAll, "filter by type (video, phone, in-person)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	st := newStore(cfg, verbose)
	list := st.Filter(ctx, filter)
	if verbose {
		fmt.Fprintf(os.Stderr, "Active backend: %s\n", st.BackendName())
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tTIME\tMIN\tTYPE\tSTATUS\tTITLE\tATTENDEES")
	for _, m := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
			m.ID, m.Date(), m.Clock(), m.DurationMinutes,
			m.Type, m.Status, m.Title, strings.Join(m.Attendees, ", "))
	}
	return w.Flush()
}
