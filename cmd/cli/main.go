package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"bess-colocation/internal/compare"
	"bess-colocation/internal/config"
	"bess-colocation/internal/data"
	"bess-colocation/internal/dispatch"
	"bess-colocation/internal/report"
	"bess-colocation/internal/scenario"
	"bess-colocation/internal/timeseries"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "compare":
		cmdCompare(os.Args[2:])
	case "cashflow":
		cmdCashflow(os.Args[2:])
	case "prices":
		cmdPrices(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli compare --config examples/config.yaml --markdown results/comparison.md")
	fmt.Println("  cli cashflow --scenario dc_coupled --out results/cashflow.csv")
	fmt.Println("  cli prices --year 2025 --out results/prices.csv")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - compare evaluates the standalone, AC-coupled and DC-coupled presets side by side")
	fmt.Println("  - cashflow writes one preset's year-by-year table")
	fmt.Println("  - prices emits the synthetic or fetched price series with distribution stats")
}

func cmdCompare(args []string) {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config (optional)")
	batteryMW := fs.Float64("battery-mw", 0, "Battery power in MW (overrides config)")
	batteryHours := fs.Float64("battery-hours", 0, "Storage duration in hours (overrides config)")
	solarMW := fs.Float64("solar-mw", -1, "Solar capacity in MW (overrides config)")
	region := fs.String("region", "", "NEM region, e.g. NSW1 (overrides config)")
	year := fs.Int("year", 0, "Analysis year (overrides config)")
	provider := fs.String("provider", "", "Dispatch provider: plan, schedule or benchmark (overrides config)")
	jsonOut := fs.String("json", "", "Optional path for the full results JSON")
	mdOut := fs.String("markdown", "", "Optional path for a markdown report")
	csvOut := fs.String("csv", "", "Optional path for the summary CSV")
	_ = fs.Parse(args)

	cfg := loadConfig(*cfgPath)
	if *batteryMW > 0 {
		cfg.Sizing.BatteryPowerMW = *batteryMW
	}
	if *batteryHours > 0 {
		cfg.Sizing.BatteryHours = *batteryHours
	}
	if *solarMW >= 0 {
		cfg.Sizing.SolarMW = *solarMW
	}
	if *region != "" {
		cfg.Sizing.Region = *region
	}
	if *year > 0 {
		cfg.Sizing.Year = *year
	}
	if *provider != "" {
		cfg.Dispatch.Provider = *provider
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("invalid configuration: %v\n", err)
		os.Exit(2)
	}

	summaries := runCompare(cfg)
	rows := report.Rows(summaries, scenario.PresetKeys)

	fmt.Printf("%-16s %10s %10s %10s %8s %10s %9s %11s %-9s\n",
		"scenario", "capex($M)", "rev($M)", "opex($M)", "irr", "npv($M)", "payback", "lcoe($/MWh)", "source")
	for _, r := range rows {
		fmt.Printf("%-16s %10.1f %10.2f %10.2f %8s %10.1f %9s %11s %-9s\n",
			r.Scenario,
			r.TotalCapex/1e6,
			r.Year1Revenue/1e6,
			r.Year1Opex/1e6,
			fmtPct(r.IRR),
			r.NPV/1e6,
			fmtYears(r.PaybackYears),
			fmtPerMWh(r.LCOE),
			r.RevenueSource,
		)
	}

	results := report.Results{
		GeneratedAt:    time.Now().UTC(),
		Region:         regionOf(cfg),
		Year:           cfg.Sizing.Year,
		BatteryPowerMW: cfg.Sizing.BatteryPowerMW,
		BatteryHours:   cfg.Sizing.BatteryHours,
		SolarMW:        cfg.Sizing.SolarMW,
		Scenarios:      rows,
	}

	if *jsonOut != "" {
		if err := report.WriteResultsJSON(*jsonOut, results); err != nil {
			panic(err)
		}
		fmt.Printf("Wrote results JSON to %s\n", *jsonOut)
	}
	if *mdOut != "" {
		writeFile(*mdOut, report.RenderMarkdown(results))
		fmt.Printf("Wrote markdown report to %s\n", *mdOut)
	}
	if *csvOut != "" {
		writeFile(*csvOut, report.RenderSummaryCSV(rows))
		fmt.Printf("Wrote summary CSV to %s\n", *csvOut)
	}
}

func cmdCashflow(args []string) {
	fs := flag.NewFlagSet("cashflow", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config (optional)")
	key := fs.String("scenario", scenario.KeyStandalone, "Preset key: standalone, ac_coupled or dc_coupled")
	outPath := fs.String("out", "results/cashflow.csv", "Output CSV path")
	_ = fs.Parse(args)

	cfg := loadConfig(*cfgPath)
	summaries := runCompare(cfg)

	sum, ok := summaries[*key]
	if !ok {
		fmt.Printf("unknown scenario %q (valid: %s)\n", *key, strings.Join(scenario.PresetKeys, ", "))
		os.Exit(2)
	}

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		panic(err)
	}
	if err := report.WriteCashFlowCSV(*outPath, sum.CashFlows); err != nil {
		panic(err)
	}

	fmt.Printf("Wrote %d rows to %s\n", len(sum.CashFlows), *outPath)
	fmt.Printf("%s: capex=$%.1fM year1 revenue=$%.2fM NPV=$%.1fM\n",
		sum.ScenarioName, sum.TotalCapex/1e6, sum.Year1Revenue/1e6, sum.NPV/1e6)
}

func cmdPrices(args []string) {
	fs := flag.NewFlagSet("prices", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config (optional)")
	region := fs.String("region", "", "NEM region, e.g. NSW1 (overrides config)")
	year := fs.Int("year", 0, "Analysis year (overrides config)")
	source := fs.String("source", "", "Price source: synthetic, api or file (overrides config)")
	file := fs.String("file", "", "Price JSON path for --source file")
	outPath := fs.String("out", "results/prices.csv", "Output CSV path")
	saveJSON := fs.String("save-json", "", "Optional path to save the raw price response JSON")
	_ = fs.Parse(args)

	cfg := loadConfig(*cfgPath)
	if *region != "" {
		if !data.ValidRegion(*region) {
			fmt.Printf("unknown region %q (valid: %s)\n", *region, strings.Join(data.Regions, ", "))
			os.Exit(2)
		}
		cfg.Sizing.Region = *region
	}
	if *year > 0 {
		cfg.Sizing.Year = *year
	}
	if *source != "" {
		cfg.Data.Source = *source
	}
	if *file != "" {
		cfg.Data.File = *file
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("invalid configuration: %v\n", err)
		os.Exit(2)
	}

	inputs, raw := buildInputs(cfg)
	prices := inputs.Prices

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		panic(err)
	}
	if err := writePricesCSV(*outPath, prices); err != nil {
		panic(err)
	}
	fmt.Printf("Wrote %d rows to %s\n", prices.Len(), *outPath)

	if *saveJSON != "" {
		if raw == nil {
			fmt.Println("--save-json only applies to fetched or loaded price responses")
			os.Exit(2)
		}
		if err := data.SavePriceJSON(raw, *saveJSON); err != nil {
			panic(err)
		}
		fmt.Printf("Saved raw price response to %s\n", *saveJSON)
	}

	st := timeseries.ComputeStats(prices)
	fmt.Printf("count=%d window=%s..%s\n",
		st.Count, st.Start.Format(time.RFC3339), st.End.Format(time.RFC3339))
	fmt.Printf("min=%.2f p05=%.2f mean=%.2f p95=%.2f max=%.2f spread(p95-p05)=%.2f\n",
		st.Min, st.P05, st.Mean, st.P95, st.Max, st.SpreadP95P05)
}

// Helpers

func loadConfig(path string) *config.Config {
	if path == "" {
		return config.Default()
	}
	cfg, err := config.Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

func runCompare(cfg *config.Config) map[string]compare.Summary {
	presets, err := cfg.Sizing.Presets()
	if err != nil {
		panic(err)
	}

	var provider dispatch.Provider
	switch cfg.Dispatch.Provider {
	case "plan":
		provider = dispatch.NewPlanProvider(cfg.Dispatch.ToPlanParams())
	case "schedule":
		p, err := dispatch.NewScheduleProvider(cfg.Dispatch.ToScheduleParams())
		if err != nil {
			panic(err)
		}
		provider = p
	}

	inputs, _ := buildInputs(cfg)

	runner := compare.NewRunner(provider)
	runner.Finance = cfg.Financial.ToParams()
	runner.Assumptions = cfg.Assumptions.ToAssumptions()

	summaries, err := runner.Compare(presets, inputs)
	if err != nil {
		panic(err)
	}
	return summaries
}

// buildInputs returns the comparison inputs and, for fetched or
// file-loaded prices, the raw response. Solar capacity factors are
// always synthetic.
func buildInputs(cfg *config.Config) (compare.Inputs, *data.PriceResponse) {
	solarCF := timeseries.SyntheticSolarCF(cfg.Sizing.Year)
	region := regionOf(cfg)

	switch cfg.Data.Source {
	case config.SourceAPI:
		client := data.NewPriceClient(cfg.Data.APIKey, cfg.Data.BaseURL)
		datasetID := cfg.Data.DatasetID
		if datasetID == "" {
			datasetID = data.DefaultDatasetID
		}
		start := fmt.Sprintf("%d-01-01", cfg.Sizing.Year)
		end := fmt.Sprintf("%d-12-31", cfg.Sizing.Year)
		resp, err := client.QueryRegionByString(datasetID, region, start, end)
		if err != nil {
			panic(err)
		}
		prices, err := data.RegionSeries(resp, region)
		if err != nil {
			panic(err)
		}
		return compare.Inputs{Prices: prices, SolarCF: solarCF}, resp
	case config.SourceFile:
		resp, err := data.LoadPriceJSON(cfg.Data.File)
		if err != nil {
			panic(err)
		}
		prices, err := data.RegionSeries(resp, region)
		if err != nil {
			panic(err)
		}
		return compare.Inputs{Prices: prices, SolarCF: solarCF}, resp
	default:
		return compare.Inputs{Prices: timeseries.SyntheticPrices(cfg.Sizing.Year), SolarCF: solarCF}, nil
	}
}

func regionOf(cfg *config.Config) string {
	if cfg.Sizing.Region != "" {
		return cfg.Sizing.Region
	}
	return data.RegionNSW
}

func writePricesCSV(path string, s timeseries.Series) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"interval_start_utc", "price"}); err != nil {
		return err
	}
	for i := range s.Times {
		row := []string{
			s.Times[i].UTC().Format(time.RFC3339),
			strconv.FormatFloat(s.Values[i], 'f', 2, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func writeFile(path, content string) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		panic(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		panic(err)
	}
}

func fmtPct(x *float64) string {
	if x == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", *x*100)
}

func fmtYears(x *float64) string {
	if x == nil {
		return "never"
	}
	return fmt.Sprintf("%.1fy", *x)
}

func fmtPerMWh(x *float64) string {
	if x == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.0f", *x)
}
