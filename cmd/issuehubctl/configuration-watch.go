package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/issuehub/issuehub/pkg/config"
)

// configurationWatchCmd represents the configuration watch command
var configurationWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the config file and print the configuration when it changes",
	Long: `Watch the config file and reload the configuration when it changes.

The resolved configuration is printed after every reload, which makes it easy
to verify edits to the config file as they are saved.

Example:
  issuehubctl configuration watch`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := watchConfiguration(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to watch configuration: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	configurationCmd.AddCommand(configurationWatchCmd)
}

func watchConfiguration() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory rather than the file itself: editors often replace
	// the file, which drops a watch on the old inode.
	dir := filepath.Dir(cfg.ConfigFilePath())
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	fmt.Printf("Watching %s for configuration changes\n", cfg.ConfigFilePath())
	fmt.Print(cfg.FormatText())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != cfg.ConfigFilePath() {
				continue
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				fmt.Printf("[%s] Config file modified, reloading...\n", time.Now().Format(time.RFC3339))
				if err := config.Reload(); err != nil {
					fmt.Fprintf(os.Stderr, "Error reloading configuration: %v\n", err)
					continue
				}
				fmt.Print(config.Get().FormatText())
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
		case <-sigChan:
			fmt.Println("\nShutting down...")
			return nil
		}
	}
}
