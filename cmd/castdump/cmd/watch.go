package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"gocst/pkg/frontend"
	"gocst/pkg/utils"
)

var watchCmd = &cobra.Command{
	Use:   "watch FILE",
	Short: "Rebuild and print the AST whenever FILE changes",
	Long: `Prints the AST of FILE, then again after every save. Bursts of writes
are collapsed using watch.debounce from the config file.

Examples:
  castdump watch main.c
  castdump watch --format sexpr main.c`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVarP(&format, "format", "f", "", "output format")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rebuild := func() {
		res, err := frontend.BuildFile(args[0], cfg)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "--- %s (%s)\n", res.Name, time.Now().Format(time.TimeOnly))
		if err := printTree(cmd, res.AST); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
		}
	}

	rebuild()
	return watchFile(ctx, args[0], cfg.Watch.Debounce.Duration, rebuild)
}

// watchFile calls rebuild once writes to path have been quiet for debounce.
// The parent directory is watched so editors that save by renaming a
// temporary file over path are seen too. It returns when ctx is done.
func watchFile(ctx context.Context, path string, debounce time.Duration, rebuild func()) error {
	fullPath, dir, err := utils.GetPathInfo(path)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return err
	}
	slog.Debug("watching", "file", fullPath, "debounce", debounce)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Name != fullPath || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", "err", err)
		case <-fire:
			fire = nil
			rebuild()
		}
	}
}
