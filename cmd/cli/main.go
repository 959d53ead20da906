package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"powerview/internal/analysis"
	"powerview/internal/config"
	"powerview/internal/data"
	"powerview/internal/export"
	"powerview/internal/intervalgroup"
	"powerview/internal/leak"
	"powerview/internal/model"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "prepare":
		cmdPrepare(os.Args[2:])
	case "leak":
		cmdLeak(os.Args[2:])
	case "rank":
		cmdRank(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli prepare --data readings.json --config powerview.yaml --out results/derived.csv [--influx]")
	fmt.Println("  cli leak --data readings.json --label flat-1 --code 8.65.1.0.0.255 --from 2024-03-04T00:00:00Z --to 2024-03-04T06:00:00Z")
	fmt.Println("  cli rank --data readings.json --code 1.65.1.8.0.255")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - prepare normalizes readings onto the interval grid and writes every derived series as CSV")
	fmt.Println("  - leak reports the total when every hour of the window saw consumption, 0 otherwise")
	fmt.Println("  - rank profiles one derived series per label, largest total first")
}

type prepareFlags struct {
	dataPath *string
	cfgPath  *string
	interval *string
	tz       *string
}

func addPrepareFlags(fs *flag.FlagSet) prepareFlags {
	return prepareFlags{
		dataPath: fs.String("data", "readings.json", "Path to readings JSON"),
		cfgPath:  fs.String("config", "", "Optional: path to YAML config"),
		interval: fs.String("interval", "", "Optional: override the configured interval (e.g. 15-minutes, 1-days)"),
		tz:       fs.String("tz", "", "Optional: override the configured IANA timezone"),
	}
}

// run loads readings and config and prepares them.
func (f prepareFlags) run() (*config.Config, *intervalgroup.Prepared) {
	cfg := &config.Config{}
	if *f.cfgPath != "" {
		loaded, err := config.Load(*f.cfgPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}
	if *f.interval != "" {
		cfg.Interval = *f.interval
	}
	if *f.tz != "" {
		cfg.Timezone = *f.tz
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("timezone: %v", err)
	}
	bindings, err := cfg.Bindings()
	if err != nil {
		log.Fatalf("cost breakdowns: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	group, err := intervalgroup.New(loc, cfg.Interval, bindings, intervalgroup.WithLogger(logger))
	if err != nil {
		log.Fatalf("interval group: %v", err)
	}

	doc, err := data.LoadReadingsJSON(*f.dataPath)
	if err != nil {
		log.Fatalf("load readings: %v", err)
	}
	raw, err := data.GroupByLabel(doc)
	if err != nil {
		log.Fatalf("group readings: %v", err)
	}
	prepared, err := group.Prepare(raw)
	if err != nil {
		log.Fatalf("prepare: %v", err)
	}
	return cfg, prepared
}

func cmdPrepare(args []string) {
	fs := flag.NewFlagSet("prepare", flag.ExitOnError)
	pf := addPrepareFlags(fs)
	outPath := fs.String("out", "results/derived.csv", "Output CSV path")
	toInflux := fs.Bool("influx", false, "Also write derived series to the configured InfluxDB bucket")
	_ = fs.Parse(args)

	cfg, prepared := pf.run()

	// ensure output dir exists
	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		log.Fatalf("create output dir: %v", err)
	}
	n, err := export.WriteSeriesCSV(*outPath, prepared.NormalizedDuration, prepared.Location)
	if err != nil {
		log.Fatalf("write csv: %v", err)
	}
	fmt.Printf("Wrote %d rows to %s\n", n, *outPath)
	fmt.Printf("Interval=%s Timezone=%s Buckets=%d Labels=%d\n",
		prepared.Interval, prepared.Location, len(prepared.Categories), len(prepared.NormalizedDuration.Series()))
	for _, s := range prepared.Skipped {
		fmt.Printf("Skipped %s %s: %s\n", s.Label, s.Code, s.Reason)
	}

	if !*toInflux {
		return
	}
	if !cfg.Influx.Enabled() {
		log.Fatalf("--influx needs influx.url and influx.bucket in the config")
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	sink, err := export.NewInfluxSink(ctx, cfg.Influx.URL, cfg.Influx.Token, cfg.Influx.Org, cfg.Influx.Bucket)
	if err != nil {
		log.Fatalf("influx: %v", err)
	}
	defer sink.Close()
	points, err := sink.Write(ctx, prepared.NormalizedDuration)
	if err != nil {
		log.Fatalf("influx write: %v", err)
	}
	fmt.Printf("Wrote %d points to influx bucket %s\n", points, cfg.Influx.Bucket)
}

func cmdLeak(args []string) {
	fs := flag.NewFlagSet("leak", flag.ExitOnError)
	pf := addPrepareFlags(fs)
	label := fs.String("label", "", "Label to check")
	code := fs.String("code", model.ColdWaterVolume1Delta.String(), "Delta metric code to check")
	from := fs.String("from", "", "Window start, RFC3339")
	to := fs.String("to", "", "Window end, RFC3339")
	_ = fs.Parse(args)

	if *label == "" {
		fmt.Println("--label is required")
		os.Exit(2)
	}
	mc, err := model.ParseMetricCode(*code)
	if err != nil {
		log.Fatalf("--code: %v", err)
	}
	start, end, err := parseWindow(*from, *to)
	if err != nil {
		log.Fatalf("window: %v", err)
	}

	_, prepared := pf.run()
	series := prepared.NormalizedDuration.Get(*label)
	if series == nil {
		log.Fatalf("label %q not found in %s", *label, *pf.dataPath)
	}
	v, err := leak.GetLeakCharacteristic(series, mc, start, end)
	if err != nil {
		log.Fatalf("leak: %v", err)
	}
	switch {
	case v == nil:
		fmt.Printf("%s %s: insufficient data between %s and %s\n", *label, mc, start.Format(time.RFC3339), end.Format(time.RFC3339))
	case v.Value > 0:
		fmt.Printf("%s %s: LEAK, %.3f %s consumed with no idle hour\n", *label, mc, v.Value, v.Unit)
	default:
		fmt.Printf("%s %s: no leak\n", *label, mc)
	}
}

func cmdRank(args []string) {
	fs := flag.NewFlagSet("rank", flag.ExitOnError)
	pf := addPrepareFlags(fs)
	code := fs.String("code", model.ElectrActiveEnergyA14Delta.String(), "Derived metric code to rank by")
	_ = fs.Parse(args)

	mc, err := model.ParseMetricCode(*code)
	if err != nil {
		log.Fatalf("--code: %v", err)
	}
	_, prepared := pf.run()
	ranked, err := analysis.RankByTotal(prepared.NormalizedDuration, mc)
	if err != nil {
		log.Fatalf("rank: %v", err)
	}

	fmt.Printf("%-4s %-18s %-6s %-8s %-12s %-12s %-12s %-8s\n", "rank", "label", "unit", "count", "total", "p05", "p95", "base")
	for i, r := range ranked {
		fmt.Printf(
			"%-4d %-18s %-6s %-8d %-12.3f %-12.3f %-12.3f %-8.2f\n",
			i+1,
			r.Label,
			r.Unit,
			r.Count,
			r.Total,
			r.P05,
			r.P95,
			r.BaseLoadShare,
		)
	}
}

func parseWindow(from, to string) (time.Time, time.Time, error) {
	if from == "" || to == "" {
		return time.Time{}, time.Time{}, errors.New("--from and --to are required")
	}
	start, err := time.Parse(time.RFC3339, from)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("--from: %w", err)
	}
	end, err := time.Parse(time.RFC3339, to)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("--to: %w", err)
	}
	return start.UTC(), end.UTC(), nil
}
