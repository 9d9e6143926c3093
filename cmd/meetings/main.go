package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/tripdesk/meetings/file"
)

var opts struct {
	ConfigFile string
	Verbose    bool
}

func init() {
	flag.StringVar(&opts.ConfigFile, "config", "meetings.yml", "configuration file")
	flag.BoolVar(&opts.Verbose, "v", false, "verbose output")
}

func main() {
	flag.Usage = usage
	flag.Parse()

	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt)
		<-ch
		cancel()
	}()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	cfg, err := file.Load(opts.ConfigFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Unable to load configuration:", err)
		os.Exit(1)
	}

	switch args[0] {
	case ConfigureCommand.Name:
		err = ConfigureCommand.Run(ctx, cfg, opts.Verbose, args[1:])
	case ListCommand.Name:
		err = ListCommand.Run(ctx, cfg, opts.Verbose, args[1:])
	case CreateCommand.Name:
		err = CreateCommand.Run(ctx, cfg, opts.Verbose, args[1:])
	case StatusCommand.Name:
		err = StatusCommand.Run(ctx, cfg, opts.Verbose, args[1:])
	case AgendaCommand.Name:
		err = AgendaCommand.Run(ctx, cfg, opts.Verbose, args[1:])
	case ServeCommand.Name:
		err = ServeCommand.Run(ctx, cfg, opts.Verbose, args[1:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n\n", args[0])
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func usage() {
	w := flag.CommandLine.Output()
	fmt.Fprintf(w, "Usage of %s [options] <command>:\n", os.Args[0])
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, c := range [][2]string{
		{ConfigureCommand.Name, ConfigureCommand.Description},
		{ListCommand.Name, ListCommand.Description},
		{CreateCommand.Name, CreateCommand.Description},
		{StatusCommand.Name, StatusCommand.Description},
		{AgendaCommand.Name, AgendaCommand.Description},
		{ServeCommand.Name, ServeCommand.Description},
	} {
		fmt.Fprintf(w, "  %-10s %s\n", c[0], c[1])
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	flag.PrintDefaults()
}
