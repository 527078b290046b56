// Package xmain runs xdsketch's main: it builds the process State, cancels the run on
// SIGINT or SIGTERM and turns the returned error into an exit code.
package xmain

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"oss.terrastruct.com/cmdlog"
	"oss.terrastruct.com/xos"
)

// shutdownGrace bounds how long a canceled run may take to return.
const shutdownGrace = time.Minute

type RunFunc func(context.Context, *State) error

func Main(run RunFunc) {
	var name string
	var args []string
	if len(os.Args) > 0 {
		name, args = os.Args[0], os.Args[1:]
	}

	env := xos.NewEnv(os.Environ())
	l := cmdlog.New(env, os.Stderr)
	ms := &State{
		Name:   name,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Log:    l,
		Env:    env,
		Opts:   NewOpts(env, l, args),
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	err := ms.Main(context.Background(), sigs, run)
	if err == nil {
		return
	}
	code, msg := exitStatus(err)
	if msg != "" {
		ms.Log.Error.Print(msg)
	}
	os.Exit(code)
}

// exitStatus maps err to the process exit code and the message to print.
func exitStatus(err error) (int, string) {
	var eerr ExitError
	if errors.As(err, &eerr) {
		return eerr.Code, eerr.Message
	}
	var uerr UsageError
	if errors.As(err, &uerr) {
		return 1, err.Error() + "\nRun with --help to see usage."
	}
	return 1, err.Error()
}

// Main calls run and cancels its context on the first signal received. SIGTERM followed
// by a clean return exits successfully. An interrupt always exits with code 1.
func (ms *State) Main(ctx context.Context, sigs <-chan os.Signal, run RunFunc) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- run(ctx, ms)
	}()

	var sig os.Signal
	select {
	case err := <-done:
		return err
	case sig = <-sigs:
	}

	ms.Log.Warn.Printf("received %v: shutting down...", sig)
	cancel()

	timer := time.NewTimer(shutdownGrace)
	defer timer.Stop()
	select {
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("failed to shut down: %w", err)
		}
		if sig == syscall.SIGTERM {
			return nil
		}
		return ExitError{Code: 1}
	case <-timer.C:
		return ExitError{
			Code:    1,
			Message: fmt.Sprintf("still running %v after %v: exiting forcefully", sig, shutdownGrace),
		}
	}
}
