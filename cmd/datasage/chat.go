package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fwojciec/datasage"
	bt "github.com/fwojciec/datasage/bubbletea"
	dsjson "github.com/fwojciec/datasage/json"
	"github.com/spf13/cobra"
)

func newChatCmd(a *app) *cobra.Command {
	var sessionPath string
	cmd := &cobra.Command{
		Use:   "chat [FILE]",
		Short: "Chat about a dataset in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var d *datasage.Dataset
			if len(args) == 1 {
				loaded, err := a.load(args[0])
				if err != nil {
					return err
				}
				d = &loaded
			}
			session, err := openSession(sessionPath, d)
			if err != nil {
				return err
			}
			agent, err := a.agent(ctx)
			if err != nil {
				return err
			}

			final, err := bt.Run(ctx, bt.New(agent.Ask, session, datasage.DefaultTheme()))
			if err != nil {
				return fmt.Errorf("TUI: %w", err)
			}

			// Save session on exit.
			session = final.Session()
			switch {
			case sessionPath != "":
				if err := dsjson.Save(sessionPath, session); err != nil {
					return fmt.Errorf("save session: %w", err)
				}
			case len(session.Messages) > 0:
				path := defaultSessionPath(session.ID)
				if err := dsjson.Save(path, session); err != nil {
					return fmt.Errorf("auto-save session: %w", err)
				}
				fmt.Fprintf(a.stderr, "Session saved to %s\n", path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sessionPath, "session", "", "session file to resume and save to")
	return cmd
}

// openSession resumes the session at path, or starts a new one when path is
// empty or does not exist yet. Saved sessions keep no data, so d is
// attached either way.
func openSession(path string, d *datasage.Dataset) (*datasage.Session, error) {
	if path == "" {
		return datasage.NewSession(d), nil
	}
	s, err := dsjson.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return datasage.NewSession(d), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	s.Dataset = d
	return s, nil
}

func defaultSessionPath(id string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".datasage", "sessions", id+".json")
}
