package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"milhouse/internal/client"
	"milhouse/internal/domain/catalog"
	"milhouse/internal/domain/loan"
	domainproperties "milhouse/internal/domain/properties"
	"milhouse/internal/domain/shared/money"
	"milhouse/internal/infra/obs"
)

const usage = `usage:
  catalog [query flags]      fetch /api/properties once and print one page
  catalog loan [loan flags]  run the loan calculator
  catalog banks              list the bank rate table`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	args := os.Args[1:]
	var err error
	switch {
	case len(args) > 0 && args[0] == "loan":
		err = runLoan(args[1:], os.Stdout)
	case len(args) > 0 && args[0] == "banks":
		printBanks(os.Stdout)
	case len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help"):
		fmt.Fprintln(os.Stderr, usage)
	default:
		err = runQuery(ctx, args, os.Stdout)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "catalog:", err)
		os.Exit(1)
	}
}

func runQuery(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("catalog", flag.ContinueOnError)
	api := fs.String("api", envOr("MILHOUSE_API", "http://localhost:8080"), "base URL of the Milhouse API")
	q := fs.String("q", "", "free-text search")
	typ := fs.String("type", "", "property type")
	saleType := fs.String("sale-type", "", "sale type (Venta, Alquiler)")
	minRaw := fs.String("min", "", "minimum price, e.g. \"RD$ 1.500.000\"")
	maxRaw := fs.String("max", "", "maximum price")
	sortTok := fs.String("sort", "createdAt-desc", "price|area|createdAt with -asc or -desc")
	pageSize := fs.Int("page-size", catalog.DefaultPageSize, "items per page")
	page := fs.Int("page", 1, "page number")
	timeout := fs.Duration("timeout", 10*time.Second, "request timeout")
	verbose := fs.Bool("v", false, "log skipped documents")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger := obs.Discard()
	if *verbose {
		logger = obs.NewLoggerTo(os.Stderr, "dev")
	}
	c, err := client.New(client.Options{BaseURL: *api, Timeout: *timeout, Logger: logger})
	if err != nil {
		return err
	}
	all, err := c.FetchProperties(ctx)
	if err != nil {
		return err
	}

	state := catalog.DefaultFilterState()
	state.Query = *q
	state.Type = *typ
	state.SaleType = *saleType
	state.Min = money.ParsePtr(*minRaw)
	state.Max = money.ParsePtr(*maxRaw)
	state.SortField, state.SortDirection = catalog.ParseSort(*sortTok)
	state.PageSize = *pageSize
	state.Page = *page

	res := catalog.Query(all, state)
	printPage(out, res)
	return nil
}

func printPage(out io.Writer, res catalog.Result) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tTYPE\tSALE\tPRICE\tAREA")
	for _, p := range res.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", p.ID, p.Title, p.Type, p.SaleType, priceLabel(p), areaLabel(p))
	}
	_ = tw.Flush()
	fmt.Fprintf(out, "\npage %d of %d, %d results\n", res.Page, res.TotalPages, res.TotalCount)
}

func priceLabel(p domainproperties.Property) string {
	price := p.EffectivePrice()
	if math.IsNaN(price) {
		if p.PriceFormatted != "" {
			return p.PriceFormatted
		}
		return "-"
	}
	return money.Format(price, p.Currency)
}

func areaLabel(p domainproperties.Property) string {
	if p.Area == nil {
		return "-"
	}
	return fmt.Sprintf("%.0f m²", *p.Area)
}

func runLoan(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("loan", flag.ContinueOnError)
	priceRaw := fs.String("price", "", "base price, e.g. \"RD$ 3,000,000\"")
	downRaw := fs.String("down", "", "down payment amount")
	downPct := fs.Float64("down-pct", 20, "down payment percent, used when -down is empty")
	bank := fs.String("bank", "popular", "bank id or \"custom\"")
	rate := fs.String("rate", "", "annual rate for the custom bank, e.g. 9,75%")
	years := fs.Int("years", loan.DefaultTermYears, "term in years (1-30)")
	currency := fs.String("currency", money.DefaultCurrency, "currency for display")
	if err := fs.Parse(args); err != nil {
		return err
	}

	base, ok := money.Parse(*priceRaw)
	if !ok {
		return errors.New("a valid -price is required")
	}
	apr, err := loan.SelectRate(*bank, *rate)
	if err != nil {
		return err
	}
	down := base * *downPct / 100
	if strings.TrimSpace(*downRaw) != "" {
		parsed, ok := money.Parse(*downRaw)
		if !ok {
			return fmt.Errorf("invalid -down %q", *downRaw)
		}
		down = parsed
	}

	res := loan.Compute(loan.Input{BasePrice: base, DownPayment: down, AnnualRatePercent: apr, TermYears: loan.ClampTerm(*years)})
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Precio\t%s\n", money.Format(res.BasePrice, *currency))
	fmt.Fprintf(tw, "Inicial\t%s (%.0f%%)\n", money.Format(res.DownPayment, *currency), res.DownPaymentPercent)
	fmt.Fprintf(tw, "Financiamiento\t%s\n", money.Format(res.Principal, *currency))
	fmt.Fprintf(tw, "Tasa anual\t%.2f%%\n", apr)
	fmt.Fprintf(tw, "Plazo\t%d meses\n", res.Months)
	fmt.Fprintf(tw, "Cuota mensual\t%s\n", money.Format(res.MonthlyPayment, *currency))
	fmt.Fprintf(tw, "Total intereses\t%s\n", money.Format(res.TotalInterest, *currency))
	return tw.Flush()
}

func printBanks(out io.Writer) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tBANCO\tTASA")
	for _, b := range loan.Banks() {
		apr := "-"
		if b.APR > 0 {
			apr = fmt.Sprintf("%.2f%%", b.APR)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", b.ID, b.Name, apr)
	}
	_ = tw.Flush()
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
