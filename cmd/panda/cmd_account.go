package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mmcdole/panda/internal/domain"
	"github.com/mmcdole/panda/internal/state"
	"github.com/mmcdole/panda/internal/tui/styles"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store the account cookies",
	Long: `Store the ipb_member_id and ipb_pass_hash cookies of your account, and
optionally the igneous cookie ExHentai needs. Copy them from a browser
that is logged in to forums.e-hentai.org.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the account cookies and profile",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

func runLogin(cmd *cobra.Command, _ []string) error {
	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	memberID, err := prompt(in, out, "ipb_member_id: ")
	if err != nil {
		return err
	}
	passHash, err := promptHidden(in, out, "ipb_pass_hash: ")
	if err != nil {
		return err
	}
	igneous, err := prompt(in, out, "igneous (ExHentai only, optional): ")
	if err != nil {
		return err
	}
	if memberID == "" || passHash == "" {
		return fmt.Errorf("member id and pass hash are required")
	}

	return withApp(func(a *app) error {
		return a.headless(cmd.Context(), func(ctx context.Context, st *state.Store) error {
			if err := st.DispatchAndSettle(ctx, state.LoadCookies{}); err != nil {
				return err
			}

			sets := []state.SetCookie{
				{Host: domain.HostEHentai, Key: domain.CookieMemberID, Value: domain.CookieValue(memberID)},
				{Host: domain.HostEHentai, Key: domain.CookiePassHash, Value: domain.CookieValue(passHash)},
				{Host: domain.HostExHentai, Key: domain.CookieMemberID, Value: domain.CookieValue(memberID)},
				{Host: domain.HostExHentai, Key: domain.CookiePassHash, Value: domain.CookieValue(passHash)},
			}
			if igneous != "" {
				sets = append(sets, state.SetCookie{Host: domain.HostExHentai, Key: domain.CookieIgneous, Value: domain.CookieValue(igneous)})
			}
			for _, set := range sets {
				if err := st.Dispatch(ctx, set); err != nil {
					return err
				}
			}
			if err := st.Settle(ctx); err != nil {
				return err
			}

			if err := st.Dispatch(ctx, state.FetchUserInfo{}); err != nil {
				return err
			}
			if err := st.DispatchAndSettle(ctx, state.FetchFavoriteNames{}); err != nil {
				return err
			}

			var (
				name   string
				failed bool
			)
			if err := st.Read(ctx, func(s *state.AppState) {
				name = s.Settings.User().DisplayName
				failed = s.Settings.UserInfoLoadFailed
			}); err != nil {
				return err
			}
			if failed || name == "" {
				fmt.Fprintln(out, styles.WarningStyle.Render("Cookies saved, but the profile could not be loaded. Check the values."))
				return nil
			}
			fmt.Fprintln(out, styles.SuccessStyle.Render("Logged in as "+name))
			return nil
		})
	})
}

func runLogout(cmd *cobra.Command, _ []string) error {
	return withApp(func(a *app) error {
		return a.headless(cmd.Context(), func(ctx context.Context, st *state.Store) error {
			if err := st.DispatchAndSettle(ctx, state.ConfirmLogout{}); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		})
	})
}

func prompt(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// promptHidden reads without echo when stdin is a terminal
func promptHidden(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return prompt(in, out, label)
	}
	fmt.Fprint(out, label)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}
