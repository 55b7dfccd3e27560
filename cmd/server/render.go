package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/config"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/fetch"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/pages"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/shell"
	"github.com/Lixing-Zhang/kart-challenge/storefront/pkg/logger"
)

var (
	renderBaseURL string
	renderWait    time.Duration
)

var renderCmd = &cobra.Command{
	Use:   "render [paths...]",
	Short: "Navigate the given paths and print each rendered page",
	Long: `render mounts each path in turn, the way the browser shell would
on client-side navigation, and prints the page once its fetch settles.
With no arguments it renders "/".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		baseURL := cfg.Fetch.BaseURL
		if renderBaseURL != "" {
			baseURL = renderBaseURL
		}

		// Diagnostics go to stderr so stdout carries only pages
		log := logger.NewWithWriter(cmd.ErrOrStderr(), cfg.LogLevel)

		client, err := fetch.NewClient(fetch.Options{
			BaseURL: baseURL,
			Timeout: time.Duration(cfg.Fetch.Timeout) * time.Second,
		}, log)
		if err != nil {
			return err
		}

		if len(args) == 0 {
			args = []string{"/"}
		}

		sh := shell.New(client, pages.Options{CancelOnDeactivate: cfg.Fetch.CancelOnDeactivate}, log)
		defer sh.Close()

		return renderPaths(cmd.Context(), sh, args, renderWait, cmd.OutOrStdout())
	},
}

func init() {
	renderCmd.Flags().StringVar(&renderBaseURL, "base-url", "", "catalog server base URL (overrides FETCH_BASE_URL)")
	renderCmd.Flags().DurationVar(&renderWait, "wait", 30*time.Second, "how long to wait for each page's fetch")
}

// renderPaths navigates sh through paths and writes every page to out
func renderPaths(ctx context.Context, sh *shell.Shell, paths []string, wait time.Duration, out io.Writer) error {
	for _, path := range paths {
		page, err := sh.Navigate(ctx, path)
		if err != nil {
			return err
		}

		waitCtx, cancel := context.WithTimeout(ctx, wait)
		page.Wait(waitCtx)
		cancel()

		if err := page.Render(out); err != nil {
			return err
		}
	}
	return nil
}
