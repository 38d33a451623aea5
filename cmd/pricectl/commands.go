package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/guttosm/b3yield/internal/calendar"
	"github.com/guttosm/b3yield/internal/domain/dto"
	"github.com/guttosm/b3yield/internal/domain/models"
	"github.com/guttosm/b3yield/internal/numeric"
	"github.com/guttosm/b3yield/internal/service"
	"github.com/guttosm/b3yield/internal/yield"
)

// Commands lists every pricectl subcommand with its group.
func Commands(out io.Writer) map[subcommands.Command]string {
	return map[subcommands.Command]string{
		&scheduleCmd{out: out}:  "instruments",
		&cashFlowsCmd{out: out}: "instruments",
		&priceCmd{out: out}:     "pricing",
		&yieldCmd{out: out}:     "pricing",
		&sweepCmd{out: out}:     "pricing",
	}
}

var (
	truncationPolicy = flag.String("truncation-policy", "total", "Bond truncation granularity (total, flow).")
	decimalPrecision = flag.Int("precision", int(numeric.DecimalPrecision), "Significant digits kept by decimal division and powers.")
)

// newService builds an offline pricing service over the ANBIMA calendar.
func newService() (service.PricingService, error) {
	policy, err := yield.ParseTruncationPolicy(*truncationPolicy)
	if err != nil {
		return nil, err
	}
	if *decimalPrecision > 0 {
		numeric.DecimalPrecision = int32(*decimalPrecision)
	}
	cals := calendar.NewRegistry(calendar.NewANBIMA())
	return service.NewPricingService(nil, cals, service.Options{BondTruncation: policy}), nil
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, err)
	return subcommands.ExitFailure
}

// instrumentFlags are the terms shared by every subcommand.
type instrumentFlags struct {
	req      dto.InstrumentRequest
	rounding int
}

func (i *instrumentFlags) register(f *flag.FlagSet, kind string) {
	f.StringVar(&i.req.Kind, "kind", kind, "Instrument kind (bill, bond).")
	f.StringVar(&i.req.Calendar, "calendar", calendar.ANBIMA, "Business-day calendar.")
	f.StringVar(&i.req.IssueDate, "issue", "", "Issue date (YYYY-MM-DD).")
	f.StringVar(&i.req.MaturityDate, "maturity", "", "Maturity date (YYYY-MM-DD).")
	f.StringVar(&i.req.Face, "face", "1000", "Face value.")
	f.StringVar(&i.req.CouponRate, "coupon", "10", "Coupon rate in percent a year (bonds).")
	f.StringVar(&i.req.Frequency, "freq", "semiannual", "Coupon frequency (annual, semiannual, quarterly, bimonthly, monthly or a count).")
	f.StringVar(&i.req.Stub, "stub", "none", "Stub policy (none, short_front, long_front, short_back, long_back).")
	f.IntVar(&i.rounding, "round", -1, "Round the coupon amount to this many digits (-1 keeps it exact).")
}

func (i *instrumentFlags) spec() (models.InstrumentSpec, error) {
	req := i.req
	if i.rounding >= 0 {
		digits := i.rounding
		req.RoundingDigits = &digits
	}
	return req.ToSpec()
}

func truncationFlag(n int) *int {
	if n < 0 {
		return nil
	}
	return &n
}

type scheduleCmd struct {
	out  io.Writer
	inst instrumentFlags
}

func (*scheduleCmd) Name() string     { return "schedule" }
func (*scheduleCmd) Synopsis() string { return "list the coupon schedule of a bond" }
func (*scheduleCmd) Usage() string {
	return `pricectl schedule -issue <date> -maturity <date> [-freq <frequency>] [-stub <policy>]

  Prints the unadjusted coupon dates from issue to maturity.
`
}

func (c *scheduleCmd) SetFlags(f *flag.FlagSet) { c.inst.register(f, "bond") }

func (c *scheduleCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	spec, err := c.inst.spec()
	if err != nil {
		return fail(err)
	}
	svc, err := newService()
	if err != nil {
		return fail(err)
	}
	res, err := svc.CashFlows(ctx, spec, numeric.KindDecimal)
	if err != nil {
		return fail(err)
	}
	for _, d := range res.Schedule {
		fmt.Fprintln(c.out, d.Format(dto.DateLayout))
	}
	return subcommands.ExitSuccess
}

type cashFlowsCmd struct {
	out     io.Writer
	inst    instrumentFlags
	numeric string
}

func (*cashFlowsCmd) Name() string     { return "cashflows" }
func (*cashFlowsCmd) Synopsis() string { return "list the business-day adjusted payments of an instrument" }
func (*cashFlowsCmd) Usage() string {
	return `pricectl cashflows [-kind bill|bond] -issue <date> -maturity <date> [-numeric decimal|float64]
`
}

func (c *cashFlowsCmd) SetFlags(f *flag.FlagSet) {
	c.inst.register(f, "bond")
	f.StringVar(&c.numeric, "numeric", "decimal", "Numeric representation (decimal, float64).")
}

func (c *cashFlowsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	spec, err := c.inst.spec()
	if err != nil {
		return fail(err)
	}
	kind, err := numeric.ParseKind(c.numeric)
	if err != nil {
		return fail(err)
	}
	svc, err := newService()
	if err != nil {
		return fail(err)
	}
	res, err := svc.CashFlows(ctx, spec, kind)
	if err != nil {
		return fail(err)
	}
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tKIND\tAMOUNT")
	for _, cf := range res.Flows {
		fmt.Fprintf(w, "%s\t%s\t%s\n", cf.PaymentDate.Format(dto.DateLayout), cf.Kind, cf.Amount)
	}
	if err := w.Flush(); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

type priceCmd struct {
	out        io.Writer
	inst       instrumentFlags
	settlement string
	yield      string
	truncation int
	numeric    string
}

func (*priceCmd) Name() string     { return "price" }
func (*priceCmd) Synopsis() string { return "price an instrument at a yield" }
func (*priceCmd) Usage() string {
	return `pricectl price [-kind bill|bond] -issue <date> -maturity <date> -settle <date> -yield <fraction> [-trunc <digits>]

  Prints the settlement price under the ANBIMA convention.
`
}

func (c *priceCmd) SetFlags(f *flag.FlagSet) {
	c.inst.register(f, "bill")
	f.StringVar(&c.settlement, "settle", "", "Settlement date (YYYY-MM-DD).")
	f.StringVar(&c.yield, "yield", "", "Yield as a decimal fraction (0.1436).")
	f.IntVar(&c.truncation, "trunc", 6, "Truncate the price at this many digits (-1 keeps it exact).")
	f.StringVar(&c.numeric, "numeric", "decimal", "Numeric representation (decimal, float64).")
}

func (c *priceCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	spec, err := c.inst.spec()
	if err != nil {
		return fail(err)
	}
	settle, err := dto.ParseDate("settle", c.settlement)
	if err != nil {
		return fail(err)
	}
	kind, err := numeric.ParseKind(c.numeric)
	if err != nil {
		return fail(err)
	}
	svc, err := newService()
	if err != nil {
		return fail(err)
	}
	res, err := svc.Price(ctx, models.PriceRequest{
		Instrument: spec,
		Settlement: settle,
		Yield:      c.yield,
		Truncation: truncationFlag(c.truncation),
		Numeric:    kind,
	})
	if err != nil {
		return fail(err)
	}
	fmt.Fprintf(c.out, "%s\t%s\n", res.Price, dto.FormatBRL(res.Price))
	return subcommands.ExitSuccess
}

type yieldCmd struct {
	out        io.Writer
	inst       instrumentFlags
	settlement string
	price      string
	numeric    string
}

func (*yieldCmd) Name() string     { return "yield" }
func (*yieldCmd) Synopsis() string { return "compute the yield implied by a settlement price" }
func (*yieldCmd) Usage() string {
	return `pricectl yield [-kind bill|bond] -issue <date> -maturity <date> -settle <date> -price <amount>
`
}

func (c *yieldCmd) SetFlags(f *flag.FlagSet) {
	c.inst.register(f, "bill")
	f.StringVar(&c.settlement, "settle", "", "Settlement date (YYYY-MM-DD).")
	f.StringVar(&c.price, "price", "", "Observed settlement price.")
	f.StringVar(&c.numeric, "numeric", "decimal", "Numeric representation (decimal, float64).")
}

func (c *yieldCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	spec, err := c.inst.spec()
	if err != nil {
		return fail(err)
	}
	settle, err := dto.ParseDate("settle", c.settlement)
	if err != nil {
		return fail(err)
	}
	kind, err := numeric.ParseKind(c.numeric)
	if err != nil {
		return fail(err)
	}
	svc, err := newService()
	if err != nil {
		return fail(err)
	}
	res, err := svc.Yield(ctx, models.YieldRequest{
		Instrument: spec,
		Settlement: settle,
		Price:      c.price,
		Numeric:    kind,
	})
	if err != nil {
		return fail(err)
	}
	fmt.Fprintln(c.out, res.Yield)
	return subcommands.ExitSuccess
}

type sweepCmd struct {
	out        io.Writer
	inst       instrumentFlags
	settlement string
	from       string
	to         string
	step       string
	truncation int
}

func (*sweepCmd) Name() string { return "sweep" }
func (*sweepCmd) Synopsis() string {
	return "compare float64 and decimal bill prices over a yield range"
}
func (*sweepCmd) Usage() string {
	return `pricectl sweep -issue <date> -maturity <date> -settle <date> [-from 5] [-to 15] [-step 0.0001]

  Prices a bill at every yield in [from, to] percent in both numeric kinds and
  prints each point where the absolute difference reaches a new maximum.
`
}

func (c *sweepCmd) SetFlags(f *flag.FlagSet) {
	c.inst.register(f, "bill")
	f.StringVar(&c.settlement, "settle", "", "Settlement date (YYYY-MM-DD).")
	f.StringVar(&c.from, "from", "5", "First yield in percent.")
	f.StringVar(&c.to, "to", "15", "Last yield in percent.")
	f.StringVar(&c.step, "step", "0.0001", "Yield step in percent.")
	f.IntVar(&c.truncation, "trunc", 6, "Truncate prices at this many digits (-1 keeps them exact).")
}

func (c *sweepCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	spec, err := c.inst.spec()
	if err != nil {
		return fail(err)
	}
	settle, err := dto.ParseDate("settle", c.settlement)
	if err != nil {
		return fail(err)
	}
	svc, err := newService()
	if err != nil {
		return fail(err)
	}
	res, err := svc.Sweep(ctx, models.SweepRequest{
		Instrument: spec,
		Settlement: settle,
		From:       c.from,
		To:         c.to,
		Step:       c.step,
		Truncation: truncationFlag(c.truncation),
	})
	if err != nil {
		return fail(err)
	}
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "YIELD%\tDECIMAL\tFLOAT64\tABS DIFF")
	for _, p := range res.Records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.YieldPercent, p.Decimal, p.Binary, p.AbsDiff)
	}
	fmt.Fprintf(w, "points=%d\tmax=%s\tat=%s%%\t\n", res.Points, res.MaxAbsDiff, res.MaxAtPercent)
	if err := w.Flush(); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
