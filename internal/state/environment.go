package state

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/panda/internal/domain"
)

const defaultEffectTimeout = 30 * time.Second

// Environment is the set of clients effects run against. Every member can be
// replaced with a test double.
type Environment struct {
	Gallery      domain.GalleryRepository
	Files        domain.FileRepository
	App          domain.AppLauncher
	Clipboard    domain.Clipboard
	Cookies      domain.CookieRepository
	GalleryState domain.GalleryStateRepository

	Logger  *slog.Logger
	Timeout time.Duration // per-effect deadline, 0 selects the default
}

func (e *Environment) logger() *slog.Logger {
	if e == nil || e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

func (e *Environment) timeout() time.Duration {
	if e == nil || e.Timeout <= 0 {
		return defaultEffectTimeout
	}
	return e.Timeout
}

// perform returns a command that runs fn under the effect deadline and
// reports its outcome through done
func perform[T any](env *Environment, op string, fn func(ctx context.Context) (T, error), done func(Result[T]) Action) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), env.timeout())
		defer cancel()

		start := time.Now()
		v, err := fn(ctx)
		if err != nil {
			env.logger().Warn("effect failed", "op", op, "error", err, "duration", time.Since(start))
			return done(Failure[T](err))
		}
		env.logger().Debug("effect done", "op", op, "duration", time.Since(start))
		return done(Success(v))
	}
}

// fireAndForget returns a command whose completion produces no action
func fireAndForget(env *Environment, op string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); err != nil {
			env.logger().Warn("effect failed", "op", op, "error", err)
		}
		return nil
	}
}
