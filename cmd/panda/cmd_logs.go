package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmcdole/panda/internal/domain"
	"github.com/mmcdole/panda/internal/state"
	"github.com/spf13/cobra"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "List the log files",
	Args:  cobra.NoArgs,
	RunE:  runLogsList,
}

var logsShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a log file",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogsShow,
}

var logsRmCmd = &cobra.Command{
	Use:     "rm <name>",
	Aliases: []string{"delete"},
	Short:   "Delete a log file",
	Args:    cobra.ExactArgs(1),
	RunE:    runLogsRm,
}

var logsOpenCmd = &cobra.Command{
	Use:   "open",
	Short: "Open the log folder in the file manager",
	Args:  cobra.NoArgs,
	RunE:  runLogsOpen,
}

func init() {
	logsCmd.AddCommand(logsShowCmd)
	logsCmd.AddCommand(logsRmCmd)
	logsCmd.AddCommand(logsOpenCmd)
}

// fetchLogs loads the log list into the store and returns it
func fetchLogs(ctx context.Context, st *state.Store) ([]domain.Log, error) {
	if err := st.DispatchAndSettle(ctx, state.FetchLogs{}); err != nil {
		return nil, err
	}
	var (
		logs   []domain.Log
		failed bool
	)
	err := st.Read(ctx, func(s *state.AppState) {
		logs = append(logs, s.Logs.Logs...)
		failed = s.Logs.LoadFailed
	})
	if err != nil {
		return nil, err
	}
	if failed {
		return nil, fmt.Errorf("failed to read the log directory")
	}
	return logs, nil
}

func runLogsList(cmd *cobra.Command, _ []string) error {
	return withApp(func(a *app) error {
		return a.headless(cmd.Context(), func(ctx context.Context, st *state.Store) error {
			logs, err := fetchLogs(ctx, st)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(logs) == 0 {
				fmt.Fprintf(w, "No logs in %s\n", a.cfg.Logging.Dir)
				return nil
			}
			for _, l := range logs {
				fmt.Fprintf(w, "%-28s %8d lines  %s\n", l.FileName, len(l.Contents), l.ModTime.Format("2006-01-02 15:04"))
			}
			return nil
		})
	})
}

func runLogsShow(cmd *cobra.Command, args []string) error {
	name := args[0]
	return withApp(func(a *app) error {
		return a.headless(cmd.Context(), func(ctx context.Context, st *state.Store) error {
			if _, err := fetchLogs(ctx, st); err != nil {
				return err
			}
			if err := st.Dispatch(ctx, state.SetLogsRoute{FileName: name}); err != nil {
				return err
			}

			var (
				log   domain.Log
				found bool
			)
			if err := st.Read(ctx, func(s *state.AppState) {
				log, found = s.Logs.SelectedLog()
			}); err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("no log named %q", name)
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(log.Contents, "\n"))
			return nil
		})
	})
}

func runLogsRm(cmd *cobra.Command, args []string) error {
	name := args[0]
	return withApp(func(a *app) error {
		return a.headless(cmd.Context(), func(ctx context.Context, st *state.Store) error {
			if _, err := fetchLogs(ctx, st); err != nil {
				return err
			}
			if err := st.DispatchAndSettle(ctx, state.DeleteLog{FileName: name}); err != nil {
				return err
			}

			var failed bool
			if err := st.Read(ctx, func(s *state.AppState) {
				failed = s.Logs.DeleteFailed
			}); err != nil {
				return err
			}
			if failed {
				return fmt.Errorf("failed to delete %q, see the logs in %s", name, a.cfg.Logging.Dir)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", name)
			return nil
		})
	})
}

func runLogsOpen(cmd *cobra.Command, _ []string) error {
	return withApp(func(a *app) error {
		return a.headless(cmd.Context(), func(ctx context.Context, st *state.Store) error {
			return st.DispatchAndSettle(ctx, state.OpenLogsFolder{})
		})
	})
}
