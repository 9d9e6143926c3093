package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/tripdesk/meetings/file"
	"github.com/tripdesk/meetings/internal/server"
)

var ServeCommand = _serveCommand{
	Name:        "serve",
	Description: "Serve the dashboard HTTP API",
}

type _serveCommand struct {
	Name        string
	Description string
}

func (c _serveCommand) Run(ctx context.Context, cfg *file.Config, verbose bool, args []string) error {
	addr := cfg.ListenAddr

	fs := flag.NewFlagSet(c.Name, flag.ExitOnError)
	fs.Usage = func() {
		w := flag.CommandLine.Output()
		fmt.Fprintf(w, "Usage of %s %s:\n", os.Args[0], fs.Name())
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Options:\n")
		fs.PrintDefaults()
	}
	fs.StringVar(&addr, "addr", addr, "listen address")

	if err := fs.Parse(args); err != nil {
		return err
	}

	st := newStore(cfg, verbose)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: server.New(st),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	fmt.Fprintf(os.Stderr, "Listening on %s (backend: %s)\n", addr, st.BackendName())
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
