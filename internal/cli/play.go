package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/llehouerou/hush/internal/notify"
	"github.com/llehouerou/hush/internal/playback"
	"github.com/llehouerou/hush/internal/sound"
	"github.com/llehouerou/hush/internal/ui/mainplayer"
	"github.com/llehouerou/hush/internal/ui/miniplayer"
)

var (
	playTimer int
	mixTimer  int
)

func init() {
	playCmd.Flags().IntVarP(&playTimer, "timer", "t", 0, "Stop playback after N minutes (5 minute steps, max 120)")
	mixCmd.Flags().IntVarP(&mixTimer, "timer", "t", 0, "Stop playback after N minutes (5 minute steps, max 120)")
	lo.Must0(mixCmd.RegisterFlagCompletionFunc("timer", timerCompletion))
	lo.Must0(playCmd.RegisterFlagCompletionFunc("timer", timerCompletion))
}

var playCmd = &cobra.Command{
	Use:   "play <query...>",
	Short: "Play catalog sounds together without the interface",
	Long: "Play one or more catalog sounds until interrupted or until the sleep timer ends.\n" +
		"Each query is a sound id or a fuzzy name match.",
	Example: "  hush play rain fan --timer 30",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		entries, err := findSounds(sound.Default(), args)
		if err != nil {
			return err
		}
		e, err := newEnv(ctx, envOptions{audio: true})
		if err != nil {
			return err
		}
		defer e.Close()

		mix := sound.Mix{Name: sound.CustomMixName, Sounds: entries}
		return runHeadless(ctx, cmd.OutOrStdout(), e, playTimer, func(ctx context.Context) error {
			return e.launcher.PlayMix(ctx, mix)
		})
	},
}

var mixCmd = &cobra.Command{
	Use:     "mix <name>",
	Short:   "Play a preset mix without the interface",
	Example: "  hush mix \"rainy day\" -t 45",
	Args:    cobra.MinimumNArgs(1),
	ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		names := lo.Map(sound.Default().Mixes(), func(m sound.Mix, _ int) string { return m.Name })
		return names, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		name := strings.Join(args, " ")
		mix, err := sound.Default().Mix(name)
		if err != nil {
			return fmt.Errorf("mix %q: %w", name, err)
		}
		e, err := newEnv(ctx, envOptions{audio: true})
		if err != nil {
			return err
		}
		defer e.Close()

		return runHeadless(ctx, cmd.OutOrStdout(), e, mixTimer, func(ctx context.Context) error {
			return e.launcher.PlayMix(ctx, mix)
		})
	},
}

func timerCompletion(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return []string{"15", "30", "45", "60", "90", "120"}, cobra.ShellCompDirectiveNoFileComp
}

// findSounds resolves each query to its best catalog match.
func findSounds(catalog *sound.Catalog, queries []string) ([]sound.Entry, error) {
	out := make([]sound.Entry, 0, len(queries))
	for _, q := range queries {
		matches := catalog.Find(q)
		if len(matches) == 0 {
			return nil, fmt.Errorf("no sound matches %q", q)
		}
		out = append(out, matches[0])
	}
	return lo.UniqBy(out, func(e sound.Entry) string { return e.ID }), nil
}

// stopped reports whether a headless session has nothing left to play.
func stopped(s playback.Snapshot) bool {
	return !s.Playing || len(s.Entries) == 0
}

// runHeadless starts playback and blocks until it stops, the timer ends or ctx is cancelled.
func runHeadless(ctx context.Context, out io.Writer, e *env, minutes int, start func(context.Context) error) error {
	done := make(chan struct{})
	var once sync.Once
	var started atomic.Bool
	unsubscribe := e.ctrl.Subscribe(func(s playback.Snapshot) {
		if started.Load() && stopped(s) {
			once.Do(func() { close(done) })
		}
	})
	defer unsubscribe()

	if err := start(ctx); err != nil {
		return err
	}
	started.Store(true)

	snap := e.ctrl.Snapshot()
	fmt.Fprintf(out, "Playing %s (ctrl+c to stop)\n", miniplayer.Label(snap.Entries))

	timer := mainplayer.NewSleepTimer(e.ctrl, &printNotifier{out: out, desktop: e.desktop}, e.timerMinutes())
	defer timer.Stop()
	if minutes > 0 {
		if err := timer.Arm(mainplayer.SnapTimer(minutes)); err != nil {
			return err
		}
	}

	select {
	case <-ctx.Done():
		fmt.Fprintln(out, "Stopped.")
	case <-done:
	}
	return nil
}

// printNotifier writes timer notices to the terminal and the desktop.
type printNotifier struct {
	out     io.Writer
	desktop *notify.Desktop
}

func (n *printNotifier) Notify(notice mainplayer.Notice) {
	fmt.Fprintf(n.out, "%s: %s\n", notice.Title, notice.Body)
	n.desktop.Send(notice.Title, notice.Body)
}
