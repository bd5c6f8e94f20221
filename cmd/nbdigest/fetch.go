package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/crimson206/nbdigest/internal/fetch"
	"github.com/crimson206/nbdigest/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultDelay     = 1 * time.Second
	defaultUserAgent = "nbdigest/0.1"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [urls...]",
	Short: "Download notebooks over HTTP into the notebooks directory",
	Long: `Fetch downloads .ipynb files from raw-content URLs into the notebooks
directory. Existing notebooks are skipped; responses that are not
notebook documents are rejected.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	fetchCmd.Flags().Duration("delay", 0, "delay between consecutive downloads (default 1s)")
	fetchCmd.Flags().String("notebooks-dir", "", `directory downloaded notebooks are written to (default "notebooks")`)

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more notebook URLs")
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	delay, _ := cmd.Flags().GetDuration("delay")
	if delay == 0 {
		delay = defaultDelay
	}

	cfg := types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		DownloadDelay: delay,
		NotebooksDir:  setting(cmd, "notebooks-dir", "fetch.notebooks_dir", "notebooks"),
	}

	client := &http.Client{
		Timeout: cfg.Timeout,
	}

	result := fetch.Batch(context.Background(), client, args, cfg, os.Stdout)
	if result.HasFailures() {
		return fmt.Errorf("%d notebook(s) failed to download", result.Failed)
	}
	return nil
}
