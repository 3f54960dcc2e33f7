package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/matheus3301/chatmock/internal/app"
	"github.com/matheus3301/chatmock/internal/lock"
	"github.com/matheus3301/chatmock/internal/tui"
	"github.com/matheus3301/chatmock/internal/workspace"
	"go.uber.org/fx"
)

func main() {
	workspaceFlag := flag.String("workspace", "", "workspace name (overrides config default)")
	configFlag := flag.String("config", "", "path to config file")
	flag.Parse()

	name := workspace.Resolve(*workspaceFlag)
	if err := workspace.ValidateName(name); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	var (
		ui      *tui.App
		startup *app.Startup
	)
	fxApp := fx.New(
		app.Module(app.Params{Workspace: name, ConfigPath: *configFlag}),
		fx.Populate(&ui, &startup),
	)
	if err := fxApp.Err(); err != nil {
		exit(err)
	}

	startCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := fxApp.Start(startCtx); err != nil {
		exit(err)
	}

	if startup.RestoreErr != nil {
		ui.Warn("Saved session was unreadable and has been cleared")
	}
	runErr := ui.Run()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	if err := fxApp.Stop(stopCtx); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
	}
	if runErr != nil {
		exit(runErr)
	}
}

func exit(err error) {
	var held *lock.LockHeldError
	if errors.As(err, &held) {
		fmt.Fprintf(os.Stderr, "error: workspace is open in another process (PID %d)\n", held.PID)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
