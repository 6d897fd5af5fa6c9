package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"bess-colocation/internal/finance"
)

// RenderSummaryCSV renders scenario rows as a CSV string.
func RenderSummaryCSV(rows []Row) string {
	var sb strings.Builder

	// Header
	sb.WriteString("key,scenario,total_capex,year1_revenue,year1_opex,irr,npv,payback_years,")
	sb.WriteString("annual_generation_mwh,lcoe,revenue_source\n")

	// Rows
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%s,%s,%.6f,%.6f,%.6f,%s,%.6f,%s,%.6f,%s,%s\n",
			r.Key,
			r.Scenario,
			r.TotalCapex,
			r.Year1Revenue,
			r.Year1Opex,
			fmtOptional(r.IRR),
			r.NPV,
			fmtOptional(r.PaybackYears),
			r.AnnualGenerationMWh,
			fmtOptional(r.LCOE),
			r.RevenueSource,
		))
	}

	return sb.String()
}

// fmtOptional formats a nullable metric; undefined values render empty.
func fmtOptional(x *float64) string {
	if x == nil {
		return ""
	}
	return strconv.FormatFloat(*x, 'f', 6, 64)
}

// WriteCashFlowCSV writes one scenario's year-by-year cash flows.
func WriteCashFlowCSV(path string, table finance.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"year",
		"capex",
		"revenue",
		"opex",
		"ebitda",
		"net_cashflow",
		"cumulative_cashflow",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	cumulative := table.Cumulative()
	for i, r := range table {
		row := []string{
			strconv.Itoa(r.Year),
			fmtFloat(r.Capex),
			fmtFloat(r.Revenue),
			fmtFloat(r.Opex),
			fmtFloat(r.EBITDA),
			fmtFloat(r.NetCashFlow),
			fmtFloat(cumulative[i]),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
