package report

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders results as a Markdown string.
func RenderMarkdown(r Results) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# BESS Co-location Scenario Comparison\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Region: %s | Year: %d | Battery: %.0f MW / %.0f h | Solar: %.0f MW\n\n",
		r.Region, r.Year, r.BatteryPowerMW, r.BatteryHours, r.SolarMW))

	// Results
	sb.WriteString("## Results\n\n")
	if len(r.Scenarios) > 0 {
		sb.WriteString("| Scenario | Capex ($M) | Year-1 Revenue ($M) | Year-1 Opex ($M) | IRR | NPV ($M) | Payback (yr) | LCOE ($/MWh) | Source |\n")
		sb.WriteString("|----------|-----------|--------------------|-----------------|-----|----------|--------------|--------------|--------|\n")
		for _, row := range r.Scenarios {
			sb.WriteString(fmt.Sprintf("| %s | %.1f | %.2f | %.2f | %s | %.1f | %s | %s | %s |\n",
				row.Scenario,
				row.TotalCapex/1e6,
				row.Year1Revenue/1e6,
				row.Year1Opex/1e6,
				fmtPct(row.IRR),
				row.NPV/1e6,
				fmtYears(row.PaybackYears),
				fmtPerMWh(row.LCOE),
				row.RevenueSource))
		}
	} else {
		sb.WriteString("No scenarios evaluated.\n")
	}
	sb.WriteString("\n")

	// Revenue Breakdown
	sb.WriteString("## Revenue Breakdown ($M/yr)\n\n")
	if len(r.Scenarios) > 0 {
		sb.WriteString("| Scenario | Arbitrage | Charge Cost | Solar | FCAS | PPA | Total |\n")
		sb.WriteString("|----------|-----------|-------------|-------|------|-----|-------|\n")
		for _, row := range r.Scenarios {
			b := row.Breakdown
			sb.WriteString(fmt.Sprintf("| %s | %.2f | %.2f | %.2f | %.2f | %.2f | %.2f |\n",
				row.Scenario,
				b.Arbitrage/1e6, b.ChargeCost/1e6, b.Solar/1e6, b.FCAS/1e6, b.PPA/1e6, b.Total/1e6))
		}
	} else {
		sb.WriteString("No breakdown available.\n")
	}
	sb.WriteString("\n")

	return sb.String()
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
	return fmt.Sprintf("%.1f", *x)
}

func fmtPerMWh(x *float64) string {
	if x == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f", *x)
}
