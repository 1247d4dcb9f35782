// Command dqy is a dig/drill/dog-style DNS query client: it assembles a
// query from the command line, exchanges it with a resolver over one of
// several transports, and prints the decoded response.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/dnsscience/dqy/internal/config"
	"github.com/dnsscience/dqy/internal/display"
	"github.com/dnsscience/dqy/internal/metrics"
	"github.com/dnsscience/dqy/internal/orchestrator"
	"github.com/dnsscience/dqy/internal/wire"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes one CLI invocation and returns the process exit code per
// spec.md §6, rather than calling os.Exit itself — the only os.Exit call
// in the binary is in main, so this function stays testable.
func run(rawArgs []string) int {
	args := expandFlagsEnv(rawArgs)
	positionals, dashArgs := splitPositionals(args)

	domain, qtypes, resolver, err := classifyArgs(positionals)
	if err != nil {
		fmt.Fprintln(os.Stderr, "dqy:", err)
		return exitIO
	}

	fs, f := newFlagSet()
	if err := fs.Parse(dashArgs); err != nil {
		fmt.Fprintln(os.Stderr, "dqy:", err)
		return exitIO
	}
	applyVerbosity(f, dashArgs)

	if f.logFile != "" {
		logf, err := os.OpenFile(f.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintln(os.Stderr, "dqy:", err)
			return exitLogger
		}
		defer logf.Close()
		log.SetOutput(logf)
	}

	cfgFile, err := config.LoadDefault(f.configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "dqy:", err)
		return exitIO
	}
	mergeConfig(f, fs, wasSet(fs), cfgFile)
	if resolver == "" && cfgFile != nil {
		resolver = cfgFile.Resolver
	}

	if len(qtypes) == 0 {
		qtypes = []wire.Type{wire.TypeA}
	}
	if domain == "" {
		fmt.Fprintln(os.Stderr, "dqy: no domain given")
		return exitIO
	}

	opts := orchestratorOptionsFromFlags(f, domain, qtypes, resolver)

	if f.certFile != "" {
		pem, err := os.ReadFile(f.certFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "dqy:", err)
			return exitTLS
		}
		opts.TLS.CertPEM = pem
	}

	ctx := context.Background()
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()
	if opts.Timeout > 0 {
		var timeoutCancel context.CancelFunc
		ctx, timeoutCancel = context.WithTimeout(ctx, totalBudget(opts.Timeout, len(qtypes)))
		defer timeoutCancel()
	}

	rec := metrics.New()
	o := orchestrator.New(rec)

	runResult, err := o.Run(ctx, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "dqy:", err)
		return classifyError(err, opts.Transport)
	}

	if f.wqFile != "" || f.wrFile != "" {
		if err := dumpWireFiles(runResult, f.wqFile, f.wrFile); err != nil {
			fmt.Fprintln(os.Stderr, "dqy:", err)
			return exitIO
		}
	}

	renderRun(os.Stdout, runResult, f.short, f.stats)
	if f.stats {
		if summary, err := rec.Summary(); err == nil {
			fmt.Fprint(os.Stdout, summary)
		}
	}

	return exitSuccess
}

// classifyArgs buckets the positional tokens into (domain, qtypes,
// resolver). Any number of qtype tokens may appear (spec.md §4.2 "multi-
// QTYPE input"); at most one @resolver and one domain are accepted.
func classifyArgs(positionals []string) (domain string, qtypes []wire.Type, resolver string, err error) {
	for _, tok := range positionals {
		isResolver, isQType := classifyPositional(tok)
		switch {
		case isResolver:
			resolver = tok
		case isQType:
			t, _ := parseQType(tok)
			qtypes = append(qtypes, t)
		default:
			if domain != "" {
				return "", nil, "", fmt.Errorf("unexpected extra argument %q", tok)
			}
			domain = tok
		}
	}
	return domain, qtypes, resolver, nil
}

// totalBudget bounds the whole run, not a single exchange: a multi-QTYPE
// request issues n sequential exchanges, each already bounded by per
// field.Timeout inside the orchestrator's own per-operation deadlines, but
// the process as a whole should still terminate within a bounded multiple
// of the per-query timeout rather than run forever against a slow chain of
// fallback candidates.
func totalBudget(perQuery time.Duration, n int) time.Duration {
	if n < 1 {
		n = 1
	}
	return perQuery * time.Duration(4*n)
}

// dumpWireFiles writes the raw on-wire bytes of the first completed
// exchange to wqPath/wrPath, per spec.md §6 "Persisted artifacts" — dqy
// issues one exchange per QTYPE, but --wq/--wr name a single file, so only
// the first exchange's bytes are written (the common case is one QTYPE).
func dumpWireFiles(run *display.Run, wqPath, wrPath string) error {
	if len(run.Exchanges) == 0 {
		return fmt.Errorf("no exchange to dump")
	}
	ex := run.Exchanges[0]
	if wqPath != "" {
		if err := os.WriteFile(wqPath, ex.RawQuery, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", wqPath, err)
		}
	}
	if wrPath != "" {
		if err := os.WriteFile(wrPath, ex.RawResponse, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", wrPath, err)
		}
	}
	return nil
}
