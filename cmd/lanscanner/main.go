package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/lanscanner/internal/runner"
	"github.com/projectdiscovery/lanscanner/pkg/peerdiscovery/common"
)

func main() {
	options := runner.ParseOptions()
	lanRunner, err := runner.NewRunner(options)
	if err != nil {
		gologger.Fatal().Msgf("Could not create runner: %s\n", err)
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup close handler
	go func() {
		sig := <-c
		if sig == os.Interrupt {
			// keeps later output off the ^C line
			fmt.Fprintln(os.Stderr, "\r- Ctrl+C pressed in Terminal, Exiting...")
		}
		cancel()
	}()

	err = lanRunner.Run(ctx)
	lanRunner.Close()
	switch {
	case errors.Is(err, common.ErrNoDevice):
		gologger.Fatal().Msgf("Failed to find suitable network device\n")
	case err != nil:
		gologger.Fatal().Msgf("Could not run lanscanner: %s\n", err)
	}
}
