package state

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/panda/internal/domain"
)

func reduceDetail(s *AppState, a Action, env *Environment) tea.Cmd {
	d := &s.Detail

	switch a := a.(type) {
	case FetchDetail:
		gid := a.Ref.ID
		if d.DetailLoading[gid] {
			return nil
		}
		d.DetailLoading[gid] = true
		delete(d.DetailLoadFailed, gid)
		return perform(env, "fetch_detail",
			func(ctx context.Context) (domain.GalleryDetail, error) {
				return env.Gallery.FetchDetail(ctx, a.Ref)
			},
			func(r Result[domain.GalleryDetail]) Action { return FetchDetailDone{GID: gid, Result: r} })

	case FetchDetailDone:
		delete(d.DetailLoading, a.GID)
		if !a.Result.Ok() {
			d.DetailLoadFailed[a.GID] = true
			return nil
		}
		d.Details[a.GID] = a.Result.Value

	case FetchPreviews:
		gid := a.Ref.ID
		if d.PreviewsLoading[gid][a.Page] {
			return nil
		}
		setFlag(d.PreviewsLoading, gid, a.Page, true)
		setFlag(d.PreviewsLoadFailed, gid, a.Page, false)
		return perform(env, "fetch_previews",
			func(ctx context.Context) (map[int]string, error) {
				return env.Gallery.FetchPreviews(ctx, a.Ref, a.Page)
			},
			func(r Result[map[int]string]) Action { return FetchPreviewsDone{GID: gid, Page: a.Page, Result: r} })

	case FetchPreviewsDone:
		setFlag(d.PreviewsLoading, a.GID, a.Page, false)
		if !a.Result.Ok() {
			setFlag(d.PreviewsLoadFailed, a.GID, a.Page, true)
			return nil
		}
		if len(a.Result.Value) == 0 {
			return nil
		}
		d.UpdatePreviews(a.GID, a.Result.Value)
		return savePreviews(env, a.GID, a.Result.Value)

	case FetchArchive:
		if d.ArchiveLoading {
			return nil
		}
		d.ArchiveLoading = true
		d.ArchiveLoadFailed = false
		gid := a.Ref.ID
		known := d.Details[gid].ArchiveURL
		return perform(env, "fetch_archive",
			func(ctx context.Context) (domain.Archive, error) {
				archiveURL, err := resolveArchiveURL(ctx, env, a.Ref, known)
				if err != nil {
					return domain.Archive{}, err
				}
				return env.Gallery.FetchArchive(ctx, archiveURL)
			},
			func(r Result[domain.Archive]) Action { return FetchArchiveDone{GID: gid, Result: r} })

	case FetchArchiveDone:
		d.ArchiveLoading = false
		if !a.Result.Ok() {
			d.ArchiveLoadFailed = true
			return nil
		}
		d.Archives[a.GID] = a.Result.Value

	case FetchArchiveFunds:
		if d.ArchiveFundsLoading {
			return nil
		}
		d.ArchiveFundsLoading = true
		d.ArchiveFundsLoadFailed = false
		known := d.Details[a.Ref.ID].ArchiveURL
		return perform(env, "fetch_archive_funds",
			func(ctx context.Context) (domain.Funds, error) {
				archiveURL, err := resolveArchiveURL(ctx, env, a.Ref, known)
				if err != nil {
					return domain.Funds{}, err
				}
				return env.Gallery.FetchArchiveFunds(ctx, archiveURL)
			},
			func(r Result[domain.Funds]) Action { return FetchArchiveFundsDone{Result: r} })

	case FetchArchiveFundsDone:
		d.ArchiveFundsLoading = false
		if !a.Result.Ok() {
			d.ArchiveFundsLoadFailed = true
			return nil
		}
		funds := a.Result.Value
		s.Settings.UpdateUser(domain.UserUpdate{CurrentGP: &funds.GP, CurrentCredits: &funds.Credits})

	case SendDownloadCommand:
		if d.DownloadCommandSending {
			return nil
		}
		d.DownloadCommandSending = true
		d.DownloadCommandFailed = false
		d.DownloadCommandResponse = ""
		known := d.Details[a.Ref.ID].ArchiveURL
		return perform(env, "send_download_command",
			func(ctx context.Context) (string, error) {
				archiveURL, err := resolveArchiveURL(ctx, env, a.Ref, known)
				if err != nil {
					return "", err
				}
				return env.Gallery.SendDownloadCommand(ctx, archiveURL, a.Resolution)
			},
			func(r Result[string]) Action { return SendDownloadCommandDone{Result: r} })

	case SendDownloadCommandDone:
		d.DownloadCommandSending = false
		if !a.Result.Ok() {
			d.DownloadCommandFailed = true
			return nil
		}
		d.DownloadCommandResponse = a.Result.Value

	case ResetDownloadCommandResponse:
		d.DownloadCommandResponse = ""
		d.DownloadCommandFailed = false

	case SetTranslator:
		d.setTranslator(a.Translator)
	}
	return nil
}

// resolveArchiveURL returns known, or reads the archiver link from the
// gallery page when the detail has not been loaded yet
func resolveArchiveURL(ctx context.Context, env *Environment, ref domain.GalleryRef, known string) (string, error) {
	if known != "" {
		return known, nil
	}
	detail, err := env.Gallery.FetchDetail(ctx, ref)
	if err != nil {
		return "", err
	}
	if detail.ArchiveURL == "" {
		return "", fmt.Errorf("gallery %s has no archiver link: %w", ref.ID, domain.ErrNotFound)
	}
	return detail.ArchiveURL, nil
}

func savePreviews(env *Environment, gid string, previews map[int]string) tea.Cmd {
	if env == nil || env.GalleryState == nil {
		return nil
	}
	return fireAndForget(env, "save_previews", func() error {
		return env.GalleryState.SavePreviews(gid, previews)
	})
}
