// Package snapshot captures the running dashboard with headless Chrome.
package snapshot

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"

	"vehicle-dashboard/config"
	"vehicle-dashboard/utils"
)

const (
	viewportWidth  = 1440
	viewportHeight = 900
	// settleDelay lets the chart <img> requests finish after the page is ready.
	settleDelay = 3 * time.Second
)

// Capturer takes full-page screenshots of a URL.
type Capturer struct {
	chromeBin string
	logger    *utils.Logger
	retry     *utils.RetryConfig
}

// New creates a Capturer using the browser from cfg.ChromeBin, or the first
// Chrome/Chromium found on the system.
func New(cfg *config.Config, logger *utils.Logger) *Capturer {
	return &Capturer{
		chromeBin: findChromeBinary(cfg.ChromeBin),
		logger:    logger,
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

// Capture loads pageURL and writes a full-page PNG screenshot to path.
func (c *Capturer) Capture(ctx context.Context, pageURL, path string) error {
	c.logger.Info("[snapshot] Capturing %s (browser: %s)", pageURL, c.browserName())

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(viewportWidth, viewportHeight),
	)
	if c.chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(c.chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	var img []byte
	err := c.retry.Do(ctx, "dashboard-snapshot", func(ctx context.Context) error {
		tabCtx, cancel := chromedp.NewContext(browserCtx)
		defer cancel()
		tabCtx, cancelTimeout := context.WithTimeout(tabCtx, 60*time.Second)
		defer cancelTimeout()

		return chromedp.Run(tabCtx,
			chromedp.EmulateViewport(viewportWidth, viewportHeight),
			chromedp.Navigate(pageURL),
			chromedp.WaitReady("body", chromedp.ByQuery),
			chromedp.Sleep(settleDelay),
			chromedp.FullScreenshot(&img, 100),
		)
	})
	if err != nil {
		return fmt.Errorf("snapshot: capture %s: %w", pageURL, err)
	}

	if err := writeImage(path, img); err != nil {
		return err
	}
	c.logger.Info("[snapshot] Saved %d bytes to %s", len(img), path)
	return nil
}

func (c *Capturer) browserName() string {
	if c.chromeBin == "" {
		return "chromedp default"
	}
	return c.chromeBin
}

func writeImage(path string, img []byte) error {
	if len(img) == 0 {
		return fmt.Errorf("snapshot: empty screenshot")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("snapshot: create output dir: %w", err)
	}
	if err := os.WriteFile(path, img, 0644); err != nil {
		return fmt.Errorf("snapshot: write %q: %w", path, err)
	}
	return nil
}

// findChromeBinary returns preferred when set, otherwise locates a
// Chrome/Chromium binary on PATH or in the usual install locations.
func findChromeBinary(preferred string) string {
	if preferred != "" {
		return preferred
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
