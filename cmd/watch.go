package cmd

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// newWatchCmd is the external-collaborator watcher: it invokes sync
// repeatedly on filesystem change, with debouncing as its own concern (the
// core is not re-entrant-aware and need not be, per the concurrency
// model — each invocation builds its own Context).
func newWatchCmd(flags *rootFlags) *cobra.Command {
	var force bool
	c := &cobra.Command{
		Use:   "watch",
		Short: "Watch the project directory and run sync on change",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, log, err := buildContext(flags)
			if err != nil {
				return exitErr(cmd, err)
			}
			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return exitErr(cmd, err)
			}
			defer watcher.Close()
			if err := watcher.Add(flags.baseDir); err != nil {
				return exitErr(cmd, err)
			}

			debounce := time.Duration(ctx.Config.Watch.DebounceMs) * time.Millisecond
			if debounce <= 0 {
				debounce = 300 * time.Millisecond
			}

			var timer *time.Timer
			pending := make(chan struct{}, 1)
			runSync := func() {
				freshCtx, freshLog, err := buildContext(flags)
				if err != nil {
					printDiagnostic(cmd.ErrOrStderr(), "error", err.Error())
					return
				}
				txn, err := freshCtx.Sync(nil, force)
				if err != nil {
					printDiagnostic(cmd.ErrOrStderr(), "error", err.Error())
					return
				}
				if txn.IsEmpty() {
					return
				}
				if err := txn.Execute(freshCtx.DB, force, freshLog); err != nil {
					printDiagnostic(cmd.ErrOrStderr(), "error", err.Error())
					return
				}
				if err := freshCtx.DB.Save(); err != nil {
					printDiagnostic(cmd.ErrOrStderr(), "error", err.Error())
					return
				}
				reportTransaction(cmd, txn)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "watching %s (debounce %s)\n", sanitizePath(flags.baseDir), debounce)
			log.Info("watch started", "base_dir", flags.baseDir)

			for {
				select {
				case ev, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
						continue
					}
					if timer != nil {
						timer.Stop()
					}
					timer = time.AfterFunc(debounce, func() {
						select {
						case pending <- struct{}{}:
						default:
						}
					})
				case <-pending:
					runSync()
				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					log.Error("watch error", "error", err)
				}
			}
		},
	}
	c.Flags().BoolVar(&force, "force", false, "overwrite externally-modified files during sync")
	return c
}
