package state

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/panda/internal/domain"
)

func reduceLogs(s *AppState, a Action, env *Environment) tea.Cmd {
	l := &s.Logs

	switch a := a.(type) {
	case SetLogsRoute:
		l.Route = a.FileName

	case FetchLogs:
		if l.Loading {
			return nil
		}
		l.Loading = true
		l.LoadFailed = false
		return perform(env, "fetch_logs",
			func(ctx context.Context) ([]domain.Log, error) {
				return env.Files.FetchLogs(ctx)
			},
			func(r Result[[]domain.Log]) Action { return FetchLogsDone{Result: r} })

	case FetchLogsDone:
		l.Loading = false
		if !a.Result.Ok() {
			l.LoadFailed = true
			return nil
		}
		l.Logs = a.Result.Value

	case DeleteLog:
		name := a.FileName
		l.DeleteFailed = false
		return perform(env, "delete_log",
			func(ctx context.Context) (string, error) {
				return env.Files.DeleteLog(ctx, name)
			},
			func(r Result[string]) Action { return DeleteLogDone{Result: r} })

	case DeleteLogDone:
		if !a.Result.Ok() {
			l.DeleteFailed = true
			return nil
		}
		name := a.Result.Value
		kept := l.Logs[:0:0]
		for _, lg := range l.Logs {
			if lg.FileName != name {
				kept = append(kept, lg)
			}
		}
		l.Logs = kept
		if l.Route == name {
			l.Route = ""
		}

	case OpenLogsFolder:
		return fireAndForget(env, "open_logs_folder", func() error {
			return env.App.OpenLogsFolder()
		})
	}
	return nil
}
