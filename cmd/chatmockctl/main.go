package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/matheus3301/chatmock/internal/bus"
	"github.com/matheus3301/chatmock/internal/lock"
	"github.com/matheus3301/chatmock/internal/logging"
	"github.com/matheus3301/chatmock/internal/session"
	"github.com/matheus3301/chatmock/internal/status"
	"github.com/matheus3301/chatmock/internal/store"
	"github.com/matheus3301/chatmock/internal/workspace"
	"go.uber.org/zap"
)

func main() {
	workspaceFlag := flag.String("workspace", "", "workspace name (overrides config default)")
	jsonFlag := flag.Bool("json", false, "output in JSON format")
	flag.Parse()

	name := workspace.Resolve(*workspaceFlag)
	if err := workspace.ValidateName(name); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "whoami":
		os.Exit(withSession(name, func(s *session.Store) error { return cmdWhoami(s, *jsonFlag) }))
	case "rename":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "usage: chatmockctl rename <name>")
			os.Exit(1)
		}
		os.Exit(withSession(name, func(s *session.Store) error { return cmdRename(s, args[1], *jsonFlag) }))
	case "logout":
		os.Exit(withSession(name, cmdLogout))
	case "workspaces":
		if len(args) >= 2 && args[1] == "list" {
			cmdWorkspacesList(*jsonFlag)
		} else {
			fmt.Fprintln(os.Stderr, "usage: chatmockctl workspaces list")
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: chatmockctl [--workspace <name>] [--json] <command>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  whoami            Show the signed-in user")
	fmt.Fprintln(os.Stderr, "  rename <name>     Change the display name")
	fmt.Fprintln(os.Stderr, "  logout            Sign out and forget the session")
	fmt.Fprintln(os.Stderr, "  workspaces list   List known workspaces")
}

// withSession opens the workspace store under its lock, restores the
// session and runs fn against it. It returns the process exit code so the
// lock, database and logger are released before main exits.
func withSession(name string, fn func(s *session.Store) error) int {
	dir := workspace.Dir(name)
	lk, err := lock.Acquire(dir)
	if err != nil {
		var held *lock.LockHeldError
		if errors.As(err, &held) {
			fmt.Fprintf(os.Stderr, "error: workspace %q is open in another process (PID %d)\n", name, held.PID)
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		return 1
	}
	defer func() { _ = lk.Release() }()

	logger, err := logging.New(workspace.LogPath(name), name, "")
	if err != nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("ctl")
	defer func() { _ = logger.Sync() }()

	db, _, err := store.OpenMigrated(workspace.LocalDBPath(name))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer func() { _ = db.Close() }()

	b := bus.New()
	s := session.NewStore(db, status.NewMachine(b), b, logger)
	if err := s.Restore(); err != nil && !errors.Is(err, session.ErrCorruptRecord) {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	if err := fn(s); err != nil {
		logger.Warn("command failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func cmdWhoami(s *session.Store, jsonOut bool) error {
	u, ok := s.Current()
	if !ok {
		if jsonOut {
			outputJSON(nil)
			return nil
		}
		fmt.Println("Not signed in.")
		return nil
	}
	if jsonOut {
		outputJSON(u)
		return nil
	}
	printUser(u)
	return nil
}

func cmdRename(s *session.Store, newName string, jsonOut bool) error {
	u, err := s.UpdateProfile(session.ProfileUpdate{Name: &newName})
	if err != nil {
		return err
	}
	if jsonOut {
		outputJSON(u)
		return nil
	}
	printUser(u)
	return nil
}

func cmdLogout(s *session.Store) error {
	if _, ok := s.Current(); !ok {
		fmt.Println("Not signed in.")
		return nil
	}
	if err := s.Logout(); err != nil {
		return err
	}
	fmt.Println("Signed out.")
	return nil
}

func cmdWorkspacesList(jsonOut bool) {
	list, err := workspace.List()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if jsonOut {
		outputJSON(list)
		return
	}
	if len(list) == 0 {
		fmt.Println("No workspaces found.")
		return
	}
	for _, w := range list {
		state := "open"
		if !lock.IsHeld(w.Path) {
			state = "idle"
		}
		fmt.Printf("%-20s %s (%s)\n", w.Name, w.Path, state)
	}
}

func printUser(u session.User) {
	fmt.Printf("Name:   %s\n", u.Name)
	fmt.Printf("Code:   %s\n", u.Code)
	fmt.Printf("ID:     %s\n", u.ID)
	fmt.Printf("Avatar: %s\n", u.Avatar)
}

func outputJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "json encode error: %v\n", err)
	}
}
