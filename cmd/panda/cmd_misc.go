package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/mmcdole/panda/internal/state"
	"github.com/mmcdole/panda/internal/translator"
	"github.com/spf13/cobra"
)

var historyClear bool

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print the search history, most recent first",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var translatorCmd = &cobra.Command{
	Use:   "translator",
	Short: "Manage the tag translation dictionary",
}

var translatorImportCmd = &cobra.Command{
	Use:   "import <file.toml>",
	Short: "Replace the tag translation dictionary",
	Long: `Replace the tag translation dictionary with the contents of a TOML file:

  language = "zh-CN"

  [dict]
  "female" = "女性"
  "female:glasses" = "眼镜"

Keys are either a namespace, a bare tag or namespace:tag.`,
	Args: cobra.ExactArgs(1),
	RunE: runTranslatorImport,
}

var translatorExportCmd = &cobra.Command{
	Use:   "export <file.toml>",
	Short: "Write the tag translation dictionary to a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTranslatorExport,
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <image>",
	Short: "Find the gallery an image belongs to",
	Args:  cobra.ExactArgs(1),
	RunE:  runLookup,
}

func init() {
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "forget every keyword")

	translatorCmd.AddCommand(translatorImportCmd)
	translatorCmd.AddCommand(translatorExportCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	return withApp(func(a *app) error {
		if historyClear {
			state.Reduce(a.state, state.ClearHistoryKeywords{}, a.env)
			fmt.Fprintln(cmd.OutOrStdout(), "Search history cleared")
			return nil
		}
		keywords := a.state.Home.HistoryKeywords()
		slices.Reverse(keywords)
		for _, kw := range keywords {
			fmt.Fprintln(cmd.OutOrStdout(), kw)
		}
		return nil
	})
}

func runTranslatorImport(cmd *cobra.Command, args []string) error {
	t, err := translator.Load(args[0], time.Now())
	if err != nil {
		return err
	}
	return withApp(func(a *app) error {
		state.Reduce(a.state, state.SetTranslator{Translator: t}, a.env)
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d translations", len(t.Dict))
		if t.Language != "" {
			fmt.Fprintf(cmd.OutOrStdout(), " (%s)", t.Language)
		}
		fmt.Fprintln(cmd.OutOrStdout())
		return nil
	})
}

func runTranslatorExport(cmd *cobra.Command, args []string) error {
	return withApp(func(a *app) error {
		t := a.state.Detail.Translator()
		if len(t.Dict) == 0 {
			return fmt.Errorf("no dictionary imported")
		}
		if err := translator.Save(args[0], t); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d translations to %s\n", len(t.Dict), args[0])
		return nil
	})
}

func runLookup(cmd *cobra.Command, args []string) error {
	path := args[0]
	image, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}

	return withApp(func(a *app) error {
		return a.headless(cmd.Context(), func(ctx context.Context, st *state.Store) error {
			if err := st.DispatchAndSettle(ctx, state.ReverseSearch{FileName: filepath.Base(path), Image: image}); err != nil {
				return err
			}

			var (
				gid    string
				failed bool
			)
			if err := st.Read(ctx, func(s *state.AppState) {
				gid = s.Environment.ReverseSearchID
				failed = s.Environment.ReverseSearchLoadFailed
			}); err != nil {
				return err
			}
			if failed || gid == "" {
				return fmt.Errorf("no gallery found for %s", filepath.Base(path))
			}
			fmt.Fprintln(cmd.OutOrStdout(), gid)
			return nil
		})
	})
}
