package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/mitchellh/colorstring"
	"github.com/schollz/progressbar/v3"

	"github.com/garyjia/quotebook/internal/application/port"
	"github.com/garyjia/quotebook/internal/application/service"
	"github.com/garyjia/quotebook/internal/container"
	"github.com/garyjia/quotebook/internal/domain/entity"
	"github.com/garyjia/quotebook/internal/domain/pricing"
	"github.com/garyjia/quotebook/internal/infrastructure/export"
	"github.com/garyjia/quotebook/internal/storage"
)

// undatedFolder holds exports of quotes without a parseable issue date
const undatedFolder = "undated"

var statusColors = map[entity.QuoteStatus]string{
	entity.StatusDraft:     "yellow",
	entity.StatusFinalized: "blue",
	entity.StatusWon:       "green",
	entity.StatusLost:      "red",
}

// app runs one command against the wired services
type app struct {
	services *container.ServiceBundle
	storage  *container.StorageBundle
	in       *bufio.Reader
	out      io.Writer
	errOut   io.Writer
}

func newApp(services *container.ServiceBundle, st *container.StorageBundle, in io.Reader, out, errOut io.Writer) *app {
	return &app{
		services: services,
		storage:  st,
		in:       bufio.NewReader(in),
		out:      out,
		errOut:   errOut,
	}
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "list":
		return a.list(ctx, args)
	case "totals":
		return a.totals(ctx, args)
	case "export":
		return a.export(ctx, args)
	case "delete":
		return a.delete(ctx, args)
	case "draft":
		return a.draft(ctx, args)
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

func parseStatus(s string) (entity.QuoteStatus, error) {
	if s == "" {
		return "", nil
	}
	status := entity.QuoteStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", entity.ErrInvalidStatus, s)
	}
	return status, nil
}

// findQuote resolves a quote by id or, case-insensitively, by document number
func (a *app) findQuote(ctx context.Context, ref string) (*entity.Quote, error) {
	if q, err := a.services.Quotes.GetQuote(ctx, ref); err == nil {
		return q, nil
	}
	for _, q := range a.services.Quotes.ListQuotes(ctx, service.QuoteFilter{}) {
		if strings.EqualFold(q.Number, ref) {
			return q, nil
		}
	}
	return nil, fmt.Errorf("%q: %w", ref, entity.ErrQuoteNotFound)
}

func (a *app) list(ctx context.Context, args []string) error {
	fs := a.flags("list")
	search := fs.String("search", "", "match client name or number")
	statusFlag := fs.String("status", "", "only quotes with this status")
	noColor := fs.Bool("no-color", false, "disable colored status output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	status, err := parseStatus(*statusFlag)
	if err != nil {
		return err
	}

	colors := colorstring.Colorize{
		Colors:  colorstring.DefaultColors,
		Disable: *noColor,
		Reset:   true,
	}

	quotes := a.services.Quotes.ListQuotes(ctx, service.QuoteFilter{Search: *search, Status: status})
	if len(quotes) == 0 {
		fmt.Fprintln(a.out, "No quotes found.")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NUMBER\tCLIENT\tISSUED\tSTATUS\tTOTAL")
	for _, q := range quotes {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s %s\n",
			q.Number,
			q.ClientName,
			q.IssueDate,
			colors.Color("["+statusColors[q.Status]+"]"+q.Status.String()),
			q.Currency,
			export.Money(pricing.GrandTotal(q.Items)),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	counts := a.services.Quotes.StatusCounts(ctx)
	fmt.Fprintf(a.out, "\n%d quotes: %d draft, %d finalized, %d won, %d lost\n",
		counts.All, counts.Draft, counts.Finalized, counts.Won, counts.Lost)
	return nil
}

func (a *app) totals(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("totals needs exactly one quote id or number")
	}
	q, err := a.findQuote(ctx, args[0])
	if err != nil {
		return err
	}
	totals, err := a.services.Quotes.Totals(ctx, q.ID)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "%s\t%s\t\n", q.Number, q.ClientName)
	fmt.Fprintf(w, "Subtotal\t%s\t\n", export.Money(totals.Subtotal))
	fmt.Fprintf(w, "Discount\t-%s\t\n", export.Money(totals.TotalDiscount))
	fmt.Fprintf(w, "Tax\t%s\t\n", export.Money(totals.TotalTax))
	fmt.Fprintf(w, "Total (%s)\t%s\t\n", q.Currency, export.Money(totals.GrandTotal))
	return w.Flush()
}

// monthFolder groups exports by issue month
func monthFolder(q *entity.Quote) string {
	t := q.IssuedAt()
	if t.IsZero() {
		return undatedFolder
	}
	return t.Format("2006-01")
}

func (a *app) export(ctx context.Context, args []string) error {
	fs := a.flags("export")
	format := fs.String("format", "pdf", "output format: "+strings.Join(a.services.Export.Formats(), ", "))
	statusFlag := fs.String("status", "", "only quotes with this status")
	library := fs.Bool("library", false, "also write the whole library as one workbook")
	if err := fs.Parse(args); err != nil {
		return err
	}
	status, err := parseStatus(*statusFlag)
	if err != nil {
		return err
	}

	quotes := a.services.Quotes.ListQuotes(ctx, service.QuoteFilter{Status: status})
	bar := progressbar.NewOptions(len(quotes),
		progressbar.OptionSetDescription("Exporting quotes"),
		progressbar.OptionSetWriter(a.errOut),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	var exported int
	var failures []string
	for _, q := range quotes {
		if err := a.exportOne(ctx, q, *format); err != nil {
			if errors.Is(err, service.ErrUnknownFormat) {
				return err
			}
			failures = append(failures, fmt.Sprintf("%s: %v", q.Number, err))
		} else {
			exported++
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	fmt.Fprintln(a.errOut)

	if *library {
		art, err := a.services.Export.ExportLibrary(ctx)
		if err != nil {
			return fmt.Errorf("library export: %w", err)
		}
		path := filepath.Join(a.storage.FileStorage.BaseDir(), art.Filename)
		if err := a.storage.FileStorage.SaveFileWithType(path, art.Data, storage.FileTypeExcel); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Library written to %s\n", path)
	}

	fmt.Fprintf(a.out, "Exported %d of %d quotes to %s\n", exported, len(quotes), a.storage.FileStorage.BaseDir())
	for _, f := range failures {
		fmt.Fprintf(a.out, "  failed %s\n", f)
	}
	if len(failures) > 0 {
		return fmt.Errorf("%d exports failed", len(failures))
	}
	return nil
}

func (a *app) exportOne(ctx context.Context, q *entity.Quote, format string) error {
	art, err := a.services.Export.Export(ctx, q.ID, format)
	if err != nil {
		return err
	}
	folder, err := a.storage.FolderManager.CreateFolder(monthFolder(q))
	if err != nil {
		return err
	}
	name := storage.SanitizeName(art.Filename)
	if name == "" {
		name = q.ID + "." + format
	}
	return a.storage.FileStorage.SaveFileWithType(filepath.Join(folder, name), art.Data, storage.FileTypeForExtension(format))
}

func (a *app) delete(ctx context.Context, args []string) error {
	fs := a.flags("delete")
	yes := fs.Bool("yes", false, "delete without asking")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("delete needs exactly one quote id or number")
	}
	q, err := a.findQuote(ctx, fs.Arg(0))
	if err != nil {
		return err
	}

	confirmer := port.ConfirmFunc(func(_ context.Context, message string) bool {
		if *yes {
			return true
		}
		fmt.Fprintf(a.out, "%s [y/N] ", message)
		answer, _ := a.in.ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		return answer == "y" || answer == "yes"
	})

	err = a.services.Quotes.DeleteQuote(ctx, q.ID, confirmer)
	if errors.Is(err, service.ErrDeleteNotConfirmed) {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted %s\n", q.Number)
	return nil
}

func (a *app) draft(ctx context.Context, args []string) error {
	prompt := strings.Join(args, " ")
	items, err := a.services.Draft.DraftItems(ctx, prompt)
	if errors.Is(err, service.ErrDraftingDisabled) {
		return fmt.Errorf("%w: set openai.enabled and OPENAI_API_KEY", err)
	}
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DESCRIPTION\tQTY\tUNIT PRICE\tTAX %")
	for _, item := range items {
		fmt.Fprintf(w, "%s\t%g\t%s\t%g\n", item.Description, item.Quantity, export.Money(item.UnitPrice), item.TaxRate)
	}
	return w.Flush()
}
