package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime/debug"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/umputun/go-flags"
)

type options struct {
	BaseURL string        `long:"base-url" env:"STORECHECK_BASE_URL" default:"https://testathon.live" description:"base URL of the target site"`
	Headed  bool          `long:"headed" env:"STORECHECK_HEADED" description:"run browsers headed instead of headless"`
	Timeout time.Duration `long:"timeout" env:"STORECHECK_TIMEOUT" default:"10m" description:"timeout per test group"`
	Dbg     bool          `long:"dbg" env:"DEBUG" description:"debug mode"`

	Args struct {
		Mode string `positional-arg-name:"mode" description:"test selection: all, flow, slow or smoke (default: all)"`
	} `positional-args:"true"`
}

var opts options

// suiteGroup is one ordered slice of the e2e suite, selected by -run pattern
type suiteGroup struct {
	name    string
	pattern string
}

// groupsForMode maps a runner mode to an ordered list of test groups. The
// checkout page group runs before the flow, confirmation and slow-network
// groups so page-level breakage surfaces before flow-level noise.
func groupsForMode(mode string) ([]suiteGroup, error) {
	switch mode {
	case "", "all":
		return []suiteGroup{
			{"checkout", "^TestCheckout_"},
			{"flow", "^(TestFlow_|TestJourney_)"},
			{"confirmation", "^TestConfirmation_"},
			{"slow-network", "^TestSlowNet_"},
		}, nil
	case "flow":
		return []suiteGroup{
			{"flow", "^(TestFlow_|TestJourney_)"},
			{"slow-network", "^TestSlowNet_"},
		}, nil
	case "slow":
		return []suiteGroup{{"slow-network", "^TestSlowNet_"}}, nil
	case "smoke":
		return []suiteGroup{{"smoke", "^TestSmoke_"}}, nil
	default:
		return nil, fmt.Errorf("unknown mode %q, expected all, flow, slow or smoke", mode)
	}
}

func main() {
	fmt.Printf("storecheck %s\n", versionInfo())

	p := flags.NewParser(&opts, flags.PrintErrors|flags.PassDoubleDash|flags.HelpFlag)
	p.SubcommandsOptional = true
	if _, err := p.Parse(); err != nil {
		os.Exit(2)
	}

	setupLog(opts.Dbg)

	groups, err := groupsForMode(opts.Args.Mode)
	if err != nil {
		lgr.Printf("[ERROR] %v", err)
		os.Exit(2)
	}

	if err := run(context.Background(), groups, runGroup); err != nil {
		lgr.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
}

// groupResult records the outcome of one executed group
type groupResult struct {
	group    suiteGroup
	err      error
	duration time.Duration
}

// run executes every selected group in order through execGroup. A failed
// group does not stop later groups, the aggregate outcome is reported at
// the end.
func run(ctx context.Context, groups []suiteGroup, execGroup func(context.Context, suiteGroup) error) error {
	results := make([]groupResult, 0, len(groups))
	for _, g := range groups {
		lgr.Printf("[INFO] running %s group (pattern %s)", g.name, g.pattern)
		st := time.Now()
		err := execGroup(ctx, g)
		results = append(results, groupResult{group: g, err: err, duration: time.Since(st)})
		if err != nil {
			lgr.Printf("[WARN] %s group failed: %v", g.name, err)
		}
	}
	return summarize(os.Stdout, results)
}

// runGroup spawns one go test invocation for the group's pattern
func runGroup(ctx context.Context, g suiteGroup) error {
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "go", "test", "-v", "-tags", "e2e", "-run", g.pattern, "./e2e")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), "STORECHECK_BASE_URL="+opts.BaseURL)
	if opts.Headed {
		cmd.Env = append(cmd.Env, "E2E_HEADLESS=false")
	}

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("%s group timed out after %v", g.name, opts.Timeout)
		}
		return fmt.Errorf("%s group: %w", g.name, err)
	}
	return nil
}

// summarize prints per-group outcomes and returns an error if any group failed
func summarize(w *os.File, results []groupResult) error {
	passed, failed := 0, 0
	fmt.Fprintln(w, strings.Repeat("=", 60))
	for _, r := range results {
		if r.err != nil {
			failed++
			color.New(color.FgRed).Fprintf(w, "FAIL %-14s (%.2fs)\n", r.group.name, r.duration.Seconds())
			continue
		}
		passed++
		color.New(color.FgGreen).Fprintf(w, "PASS %-14s (%.2fs)\n", r.group.name, r.duration.Seconds())
	}
	fmt.Fprintf(w, "groups: %d, passed: %d, failed: %d\n", len(results), passed, failed)

	if failed > 0 {
		return fmt.Errorf("%d of %d groups failed", failed, len(results))
	}
	return nil
}

func setupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgGreen).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgCyan).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))

	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
}

func versionInfo() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	if info.Main.Version == "" || info.Main.Version == "(devel)" {
		return "dev"
	}
	return info.Main.Version
}
