// Package navigator provides the retry-wrapped navigate-and-verify routine
// shared by all e2e suites. A single navigation step is: load a URL, wait for
// network idle, confirm a verification selector is visible. Any failure in
// that sequence is retried with a flat delay up to a fixed attempt cap.
package navigator

import (
	"fmt"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/playwright-community/playwright-go"
)

// Config bounds a retried navigation. The delay is flat, there is no backoff
// or jitter, matching what the suites actually need for an external site that
// is either up or briefly flaky.
type Config struct {
	MaxAttempts int           // attempt cap, values below 1 are treated as 1
	Delay       time.Duration // flat sleep between failed attempts
	Timeout     time.Duration // per-attempt timeout for browser operations
}

// DefaultConfig returns the retry parameters used by most call sites.
func DefaultConfig() Config {
	return Config{MaxAttempts: 3, Delay: 2 * time.Second, Timeout: 30 * time.Second}
}

// Result describes the outcome of a retried navigation. It is returned for
// failures too, so callers can assert on attempt counts and timing.
type Result struct {
	URL      string
	Attempts int           // attempts actually made, 1..MaxAttempts
	Elapsed  time.Duration // wall time across all attempts, sleeps included
	OK       bool
	LastErr  error // error from the final attempt, nil on success
}

// Do runs op up to cfg.MaxAttempts times, sleeping cfg.Delay between failed
// attempts. It stops on the first success and never retries past the cap.
func Do(url string, op func() error, cfg Config) Result {
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	st := time.Now()
	res := Result{URL: url}
	for i := 1; i <= attempts; i++ {
		res.Attempts = i
		err := op()
		if err == nil {
			res.OK = true
			res.LastErr = nil
			break
		}
		res.LastErr = err
		lgr.Printf("[DEBUG] attempt %d/%d for %s failed: %v", i, attempts, url, err)
		if i < attempts {
			time.Sleep(cfg.Delay)
		}
	}
	res.Elapsed = time.Since(st)
	return res
}

// GotoAndVerify navigates page to url, waits for network idle and then for
// selector to become visible, retrying the whole sequence per cfg. An empty
// selector skips the visibility check. On exhausted attempts the last error
// is returned along with the result.
func GotoAndVerify(page playwright.Page, url, selector string, cfg Config) (Result, error) {
	op := func() error {
		if _, err := page.Goto(url, playwright.PageGotoOptions{
			WaitUntil: playwright.WaitUntilStateNetworkidle,
			Timeout:   playwright.Float(float64(cfg.Timeout.Milliseconds())),
		}); err != nil {
			return fmt.Errorf("goto %s: %w", url, err)
		}
		if selector == "" {
			return nil
		}
		if err := page.Locator(selector).WaitFor(playwright.LocatorWaitForOptions{
			State:   playwright.WaitForSelectorStateVisible,
			Timeout: playwright.Float(float64(cfg.Timeout.Milliseconds())),
		}); err != nil {
			return fmt.Errorf("wait for %q on %s: %w", selector, url, err)
		}
		return nil
	}

	res := Do(url, op, cfg)
	if !res.OK {
		return res, fmt.Errorf("navigation to %s failed after %d attempts: %w", url, res.Attempts, res.LastErr)
	}
	return res, nil
}
