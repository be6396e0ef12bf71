package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/llehouerou/hush/internal/config"
	"github.com/llehouerou/hush/internal/icons"
	"github.com/llehouerou/hush/internal/sound"
	"github.com/llehouerou/hush/internal/store"
)

const historyLimit = 50

var headerStyle = lipgloss.NewStyle().Bold(true)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List catalog sounds and preset mixes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		icons.Init(lo.CoalesceOrEmpty(iconsFlag, cfg.Icons))
		return writeCatalog(cmd.OutOrStdout(), sound.Default())
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently played sounds and mixes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		e, err := newEnv(ctx, envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		userID, err := e.userID()
		if err != nil {
			return err
		}
		entries, err := e.store.History(ctx, userID, historyLimit)
		if err != nil {
			return err
		}
		rows := lo.Map(entries, func(h store.HistoryEntry, _ int) itemRow {
			return itemRow{item: h.Item, at: h.PlayedAt}
		})
		return writeItems(cmd.OutOrStdout(), rows, "Played", "No history yet.", time.Now())
	},
}

var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Aliases: []string{"favs"},
	Short:   "Show saved favorites",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		e, err := newEnv(ctx, envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		userID, err := e.userID()
		if err != nil {
			return err
		}
		favs, err := e.store.Favorites(ctx, userID)
		if err != nil {
			return err
		}
		rows := lo.Map(favs, func(f store.Favorite, _ int) itemRow {
			return itemRow{item: f.Item, at: f.AddedAt}
		})
		return writeItems(cmd.OutOrStdout(), rows, "Added", "No favorites yet.", time.Now())
	},
}

var loginCmd = &cobra.Command{
	Use:   "login <user>",
	Short: "Sign in to keep favorites and history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := newEnv(ctx, envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.session.Login(ctx, args[0]); err != nil {
			return err
		}
		userID, _ := e.session.UserID()
		fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s.\n", userID)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		e, err := newEnv(ctx, envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.session.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
		return nil
	},
}

func writeCatalog(w io.Writer, catalog *sound.Catalog) error {
	sounds := newTable("ID", "SOUND")
	for _, s := range catalog.Sounds() {
		sounds.Row(s.ID, icons.FormatSound(s.Icon, s.Name))
	}

	mixes := newTable("MIX", "SOUNDS")
	for _, m := range catalog.Mixes() {
		mixes.Row(icons.FormatMix(m.Name), joinNames(m.Sounds))
	}

	_, err := fmt.Fprintf(w, "%s\n%s\n", sounds.Render(), mixes.Render())
	return err
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.HiddenBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle()
		})
}

type itemRow struct {
	item sound.Item
	at   time.Time
}

func writeItems(w io.Writer, rows []itemRow, when, empty string, now time.Time) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, empty)
		return err
	}
	t := newTable("NAME", "SOUNDS", strings.ToUpper(when))
	for _, r := range rows {
		name := icons.FormatSound(r.item.Icon, r.item.Name)
		if r.item.Kind == sound.KindMix {
			name = icons.FormatMix(r.item.Name)
		}
		t.Row(name, joinNames(r.item.Entries()), humanize.RelTime(r.at, now, "ago", "from now"))
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func joinNames(entries []sound.Entry) string {
	return strings.Join(lo.Map(entries, func(e sound.Entry, _ int) string { return e.Name }), ", ")
}
