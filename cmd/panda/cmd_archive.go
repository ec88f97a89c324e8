package main

import (
	"context"
	"fmt"
	"io"

	"github.com/mmcdole/panda/internal/domain"
	"github.com/mmcdole/panda/internal/state"
	"github.com/mmcdole/panda/internal/tui/styles"
	"github.com/spf13/cobra"
)

var archiveDownload string

var archiveCmd = &cobra.Command{
	Use:   "archive <gid> <token>",
	Short: "Show the H@H archive grid of a gallery",
	Long: `Show the H@H archive grid of a gallery and the account balance.

With --download the archive of the given resolution (780x, 980x, 1280x,
1600x, 2400x or original) is sent to the account's H@H client.`,
	Args: cobra.ExactArgs(2),
	RunE: runArchive,
}

func init() {
	archiveCmd.Flags().StringVar(&archiveDownload, "download", "", "resolution to send to the H@H client")
}

func runArchive(cmd *cobra.Command, args []string) error {
	ref := domain.GalleryRef{ID: args[0], Token: args[1]}

	var (
		res      domain.ArchiveRes
		download = archiveDownload != ""
	)
	if download {
		var ok bool
		if res, ok = domain.ParseArchiveRes(archiveDownload); !ok {
			return fmt.Errorf("unknown resolution %q", archiveDownload)
		}
	}

	return withApp(func(a *app) error {
		return a.headless(cmd.Context(), func(ctx context.Context, st *state.Store) error {
			w := cmd.OutOrStdout()

			// The detail carries the archiver link both archive requests need
			if err := st.DispatchAndSettle(ctx, state.FetchDetail{Ref: ref}); err != nil {
				return err
			}
			if err := st.Dispatch(ctx, state.FetchArchive{Ref: ref}); err != nil {
				return err
			}
			if err := st.DispatchAndSettle(ctx, state.FetchArchiveFunds{Ref: ref}); err != nil {
				return err
			}

			var (
				archive  domain.Archive
				found    bool
				title    string
				gp, cred string
			)
			if err := st.Read(ctx, func(s *state.AppState) {
				archive, found = s.Detail.Archives[ref.ID]
				title = s.Detail.Details[ref.ID].Title
				user := s.Settings.User()
				gp, cred = user.CurrentGP, user.CurrentCredits
			}); err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("loading the archive of %s failed, see the logs in %s", ref.ID, a.cfg.Logging.Dir)
			}

			if title != "" {
				fmt.Fprintln(w, styles.TitleStyle.Render(title))
			}
			printArchive(w, archive)
			if gp != "" || cred != "" {
				fmt.Fprintf(w, "Funds: %s GP · %s Credits\n", gp, cred)
			}

			if !download {
				return nil
			}
			entry, ok := archive.Find(res)
			if !ok || !entry.Available() {
				return fmt.Errorf("%s is not available for this gallery", res)
			}
			if err := st.DispatchAndSettle(ctx, state.SendDownloadCommand{Ref: ref, Resolution: res}); err != nil {
				return err
			}

			var (
				resp   string
				failed bool
			)
			if err := st.Read(ctx, func(s *state.AppState) {
				resp = s.Detail.DownloadCommandResponse
				failed = s.Detail.DownloadCommandFailed
			}); err != nil {
				return err
			}
			if failed {
				return fmt.Errorf("download request failed, see the logs in %s", a.cfg.Logging.Dir)
			}
			fmt.Fprintln(w, styles.SuccessStyle.Render(domain.ProcessDownloadResponse(resp)))
			return nil
		})
	})
}

func printArchive(w io.Writer, archive domain.Archive) {
	for _, h := range archive.HathArchives {
		line := fmt.Sprintf("%-9s %10s %10s", h.Resolution, h.FileSize, h.GPPrice)
		if !h.Available() {
			line = styles.DisabledItemStyle.Render(line)
		}
		fmt.Fprintln(w, line)
	}
}
