// Command benchmark runs one company lookup against a proxy gateway and
// prints the cross-provider comparison: step statuses, reconciled rows,
// month buckets, and per-source totals.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/fundbench/fundbench-backend/internal/adapter/gateway"
	"github.com/fundbench/fundbench-backend/internal/domain"
	"github.com/fundbench/fundbench-backend/internal/usecase/aggregator"
	"github.com/fundbench/fundbench-backend/internal/usecase/lookup"
	"github.com/fundbench/fundbench-backend/internal/usecase/normalizer"
	"github.com/fundbench/fundbench-backend/internal/usecase/reconciler"
)

func main() {
	proxyURL := flag.String("proxy", "http://localhost:8080", "proxy gateway base URL")
	password := flag.String("password", os.Getenv("APP_PASSWORD"), "app password for the proxy gateway")
	sandbox := flag.Bool("sandbox", false, "use the PitchBook sandbox key")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: benchmark [flags] <pitchbook-company-id>")
		flag.PrintDefaults()
		os.Exit(2)
	}
	pbID := flag.Arg(0)

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	client := gateway.NewClient(*proxyURL, *password)
	ctx := context.Background()

	if err := client.VerifyPassword(ctx); err != nil {
		log.Fatalf("Gateway rejected credentials: %v", err)
	}

	runner := lookup.NewRunner(lookup.NewService(client, log))
	result := runner.Lookup(ctx, lookup.Input{PitchBookID: pbID, Sandbox: *sandbox})

	steps, _, _ := runner.Snapshot()
	printSteps(steps)
	printMeta(result)

	if len(result.PitchBookRounds) == 0 && len(result.HarmonicRounds) == 0 {
		fmt.Println("\nNo funding rounds found.")
		return
	}

	printComparison(reconciler.Match(result.PitchBookRounds, result.HarmonicRounds))
	printBuckets(aggregator.BucketByMonth(result.PitchBookRounds, result.HarmonicRounds))
	printTotals(result)
}

func printSteps(steps []domain.StepStatus) {
	for _, s := range steps {
		line := fmt.Sprintf("[%-7s] %s", s.State, s.Step)
		if s.Detail != "" {
			line += " — " + s.Detail
		}
		fmt.Println(line)
	}
}

func printMeta(result *lookup.Result) {
	for _, m := range []struct {
		label string
		meta  *domain.CompanyMeta
		id    string
	}{
		{"PitchBook", result.PitchBookMeta, result.PitchBookID},
		{"Harmonic", result.HarmonicMeta, result.HarmonicID},
	} {
		if m.meta == nil {
			continue
		}
		fmt.Printf("\n%s: %s (%s)\n", m.label, m.meta.Name, m.id)
		if m.meta.Website != "" {
			fmt.Printf("  website: %s\n", m.meta.Website)
		}
		if m.meta.HQ != "" {
			fmt.Printf("  hq:      %s\n", m.meta.HQ)
		}
		if m.meta.Founded != "" {
			fmt.Printf("  founded: %s\n", m.meta.Founded)
		}
	}
}

func printComparison(rows []domain.MatchedPair) {
	fmt.Printf("\n%-12s %-28s %10s   %-12s %-28s %10s\n",
		"PB Date", "PB Type", "PB Amount", "H Date", "H Type", "H Amount")
	for _, row := range rows {
		fmt.Printf("%-12s %-28s %10s %s %-12s %-28s %10s\n",
			cell(row.PitchBook, func(r *domain.Round) string { return r.Date }),
			cell(row.PitchBook, func(r *domain.Round) string { return r.Type }),
			cell(row.PitchBook, func(r *domain.Round) string { return normalizer.FormatAmount(r.Amount) }),
			flagMark(row),
			cell(row.Harmonic, func(r *domain.Round) string { return r.Date }),
			cell(row.Harmonic, func(r *domain.Round) string { return r.Type }),
			cell(row.Harmonic, func(r *domain.Round) string { return normalizer.FormatAmount(r.Amount) }),
		)
	}
}

func cell(r *domain.Round, get func(*domain.Round) string) string {
	if r == nil {
		return "—"
	}
	if v := get(r); v != "" {
		return v
	}
	return "—"
}

// flagMark renders the row's comparison outcome: ✗ when any compared cell
// mismatches, ✓ when every compared cell matches, blank when nothing was
// comparable.
func flagMark(row domain.MatchedPair) string {
	if row.TypeFlag == domain.FlagMismatch || row.AmountFlag == domain.FlagMismatch {
		return "✗"
	}
	if row.TypeFlag == domain.FlagMatch || row.AmountFlag == domain.FlagMatch {
		return "✓"
	}
	return " "
}

func printBuckets(buckets []domain.MonthBucket) {
	fmt.Println("\nBy month:")
	for _, b := range buckets {
		fmt.Printf("  %s  pitchbook=%d harmonic=%d\n", b.Key, len(b.PitchBook), len(b.Harmonic))
	}
}

func printTotals(result *lookup.Result) {
	pb := aggregator.Summarize(result.PitchBookRounds)
	h := aggregator.Summarize(result.HarmonicRounds)
	fmt.Printf("\nTotals: pitchbook %d rounds / %s raised, harmonic %d rounds / %s raised\n",
		pb.RoundCount, normalizer.FormatAmount(&pb.TotalRaised),
		h.RoundCount, normalizer.FormatAmount(&h.TotalRaised))
	if result.CreditsUsed != nil {
		fmt.Printf("Credits consumed by this lookup: %d\n", *result.CreditsUsed)
	}
}
