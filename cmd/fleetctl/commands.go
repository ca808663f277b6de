package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"fleetdesk-backend/internal/bootstrap"
	"fleetdesk-backend/internal/domain"
	"fleetdesk-backend/internal/money"
	"fleetdesk-backend/internal/referral"
	"fleetdesk-backend/internal/renewal"
	"fleetdesk-backend/internal/schedule"
	"fleetdesk-backend/internal/service"
	"fleetdesk-backend/internal/textblock"
)

type command func(ctx context.Context, app *bootstrap.App, args []string, out io.Writer, in io.Reader) error

var commands = map[string]command{
	"list":         listCmd,
	"show":         showCmd,
	"add":          addCmd,
	"remove":       removeCmd,
	"refer":        referCmd,
	"set-referrer": setReferrerCmd,
	"pay":          payCmd,
	"renew":        renewCmd,
	"status":       statusCmd,
	"import":       importCmd,
	"export":       exportCmd,
	"summary":      summaryCmd,
	"report":       reportCmd,
	"pending":      pendingCmd,
	"settings":     settingsCmd,
	"backup":       backupCmd,
}

func run(ctx context.Context, app *bootstrap.App, args []string, out io.Writer, in io.Reader) error {
	if len(args) == 0 {
		return usagef("missing command")
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return usagef("unknown command %q", args[0])
	}
	return cmd(ctx, app, args[1:], out, in)
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parse(fs *flag.FlagSet, args []string, positional int) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		return nil, usagef("%s: %v", fs.Name(), err)
	}
	if fs.NArg() < positional {
		return nil, usagef("%s: expected %d argument(s), got %d", fs.Name(), positional, fs.NArg())
	}
	return fs.Args(), nil
}

func listCmd(ctx context.Context, app *bootstrap.App, args []string, out io.Writer, _ io.Reader) error {
	fs := newFlagSet("list")
	state := fs.String("state", "all", "all, active or inactive")
	query := fs.String("q", "", "filter by name or login")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}

	views := app.Customers.List(ctx, service.ListFilter{State: service.StateFilter(*state), Query: *query})
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LOGIN\tNOME\tTOTAL\tSEMANAL\tPAGAMENTO\tDEVOLUÇÃO\tDIAS\tINDICADO POR\tATIVO")
	for _, v := range views {
		c := v.Customer
		days := "-"
		if v.Urgency != renewal.LevelUnknown {
			days = fmt.Sprintf("%d (%s)", v.DaysLeft, v.Urgency)
		}
		active := "sim"
		if !c.IsActive() {
			active = "não: " + c.InactiveReason
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			c.LoginID, c.Name, c.TotalPrice, c.WeeklyPrice, v.Payment.Label,
			c.ReturnDate, days, v.ReferrerName, active)
	}
	fmt.Fprintf(tw, "\n%d cadastro(s)\n", len(views))
	return tw.Flush()
}

func showCmd(ctx context.Context, app *bootstrap.App, args []string, out io.Writer, _ io.Reader) error {
	fs := newFlagSet("show")
	asJSON := fs.Bool("json", false, "print the record as JSON")
	rest, err := parse(fs, args, 1)
	if err != nil {
		return err
	}
	c, err := app.Customers.Get(ctx, rest[0])
	if err != nil {
		return err
	}
	if *asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(c)
	}

	fmt.Fprint(out, textblock.Format([]domain.Customer{c}, app.Workspace.Now()))
	fmt.Fprintln(out, "\nPAGAMENTOS:")
	for _, p := range c.Payments {
		fmt.Fprintf(out, "  Semana %d: %-8s %s %s %s\n", p.WeekNumber, p.Status, p.Amount, p.Date, p.Note)
	}
	if len(c.Renewals) > 0 {
		fmt.Fprintln(out, "\nRENOVAÇÕES:")
		for _, r := range c.Renewals {
			fmt.Fprintf(out, "  %s: %s -> %s %s %s\n", r.RenewalTimestamp, r.PreviousReturnDate, r.NewReturnDate, r.CardBrand, r.CardSuffix)
		}
	}
	return nil
}

func addCmd(ctx context.Context, app *bootstrap.App, args []string, out io.Writer, in io.Reader) error {
	fs := newFlagSet("add")
	file := fs.String("file", "", "text-block file, - for stdin")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	data, err := readInput(*file, in)
	if err != nil {
		return err
	}
	customers, err := textblock.Parse(string(data))
	if err != nil {
		return err
	}

	for _, c := range customers {
		referrerID := c.ReferredBy
		c.ReferredBy = ""
		saved, err := app.Customers.Register(ctx, c)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Cadastro salvo: %s (%s)\n", saved.Name, saved.LoginID)
		if referrerID == "" {
			continue
		}
		outcome, err := app.Referrals.ApplyReferral(ctx, referrerID, saved.LoginID)
		if err != nil {
			return err
		}
		printOutcome(out, referrerID, saved.LoginID, outcome)
	}
	return nil
}

func removeCmd(ctx context.Context, app *bootstrap.App, args []string, out io.Writer, _ io.Reader) error {
	rest, err := parse(newFlagSet("remove"), args, 1)
	if err != nil {
		return err
	}
	if err := app.Customers.Remove(ctx, rest[0]); err != nil {
		return err
	}
	fmt.Fprintf(out, "Cadastro removido: %s\n", rest[0])
	return nil
}

func referCmd(ctx context.Context, app *bootstrap.App, args []string, out io.Writer, _ io.Reader) error {
	rest, err := parse(newFlagSet("refer"), args, 2)
	if err != nil {
		return err
	}
	outcome, err := app.Referrals.Refer(ctx, rest[0], rest[1])
	if err != nil {
		return err
	}
	printOutcome(out, rest[0], rest[1], outcome)
	return nil
}

func setReferrerCmd(ctx context.Context, app *bootstrap.App, args []string, out io.Writer, _ io.Reader) error {
	fs := newFlagSet("set-referrer")
	clearLink := fs.Bool("clear", false, "remove the referrer link")
	rest, err := parse(fs, args, 1)
	if err != nil {
		return err
	}
	referrerID := ""
	if !*clearLink {
		if len(rest) < 2 {
			return usagef("set-referrer: expected <customer> <referrer> or -clear <customer>")
		}
		referrerID = rest[1]
	}
	outcome, err := app.Referrals.SetReferrer(ctx, rest[0], referrerID)
	if err != nil {
		return err
	}
	if referrerID == "" {
		fmt.Fprintf(out, "Indicação removida de %s\n", rest[0])
		return nil
	}
	printOutcome(out, referrerID, rest[0], outcome)
	return nil
}

func printOutcome(out io.Writer, referrerID, referredID string, outcome referral.Outcome) {
	if outcome.Applied {
		fmt.Fprintf(out, "Desconto de %s aplicado a %s por indicar %s\n", outcome.Discount, referrerID, referredID)
		return
	}
	fmt.Fprintf(out, "Indicação não aplicada (%s)\n", outcome.Skipped)
}

func payCmd(ctx context.Context, app *bootstrap.App, args []string, out io.Writer, _ io.Reader) error {
	fs := newFlagSet("pay")
	week := fs.Int("week", 0, "week number 1-4; 0 picks the next pending or unpaid week")
	status := fs.String("status", string(domain.PaymentStatusPaid), "pago, pendente or nao_pago")
	amount := fs.String("amount", "", "amount, defaults to the slot amount")
	date := fs.String("date", "", "DD/MM/YYYY, defaults to the next Friday")
	note := fs.String("note", "", "free text")
	rest, err := parse(fs, args, 1)
	if err != nil {
		return err
	}
	loginID := rest[0]

	if *week == 0 {
		next, ok, err := app.Payments.NextSlot(ctx, loginID)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Todas as semanas já estão pagas")
			return nil
		}
		*week = next
	}
	if *amount != "" {
		*amount = money.Format(money.Parse(*amount))
	}

	c, err := app.Payments.UpdateSlot(ctx, loginID, *week, schedule.SlotUpdate{
		Status: domain.PaymentStatus(*status),
		Amount: *amount,
		Date:   *date,
		Note:   *note,
	})
	if err != nil {
		return err
	}
	s := schedule.Summarize(c.Payments)
	fmt.Fprintf(out, "Semana %d de %s: %s (%d/4 pagas, total %s)\n", *week, c.Name, *status, s.Paid, money.Format(s.PaidTotal))
	if domain.PaymentStatus(*status) != domain.PaymentStatusPaid {
		return nil
	}

	next, ok, err := app.Payments.NextSlot(ctx, loginID)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(out, "Todas as semanas já estão pagas")
		return nil
	}
	fmt.Fprintf(out, "Próxima semana em aberto: %d\n", next)
	return nil
}

func renewCmd(ctx context.Context, app *bootstrap.App, args []string, out io.Writer, _ io.Reader) error {
	fs := newFlagSet("renew")
	date := fs.String("date", "", "new return date DD/MM/YYYY HH:MM")
	brand := fs.String("brand", "", "card brand")
	suffix := fs.String("suffix", "", "card suffix, e.g. V1234")
	rest, err := parse(fs, args, 1)
	if err != nil {
		return err
	}
	_, notice, err := app.Renewals.Renew(ctx, rest[0], *date, *brand, *suffix)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, notice)
	return nil
}

func statusCmd(ctx context.Context, app *bootstrap.App, args []string, out io.Writer, _ io.Reader) error {
	fs := newFlagSet("status")
	active := fs.Bool("active", true, "true to activate, false to deactivate")
	reason := fs.String("reason", "", "required when deactivating")
	rest, err := parse(fs, args, 1)
	if err != nil {
		return err
	}
	c, err := app.Customers.SetStatus(ctx, rest[0], *active, *reason)
	if err != nil {
		return err
	}
	if c.IsActive() {
		fmt.Fprintf(out, "%s ativado\n", c.Name)
	} else {
		fmt.Fprintf(out, "%s desativado: %s\n", c.Name, c.InactiveReason)
	}
	return nil
}

func importCmd(ctx context.Context, app *bootstrap.App, args []string, out io.Writer, in io.Reader) error {
	fs := newFlagSet("import")
	format := fs.String("format", "json", "json or text")
	mode := fs.String("mode", string(service.ImportReplace), "replace or merge")
	file := fs.String("file", "", "input file, - for stdin")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	data, err := readInput(*file, in)
	if err != nil {
		return err
	}

	var n int
	switch *format {
	case "json":
		n, err = app.Transfer.ImportJSON(ctx, data, service.ImportMode(*mode))
	case "text":
		n, err = app.Transfer.ImportText(ctx, string(data), service.ImportMode(*mode))
	default:
		return usagef("import: unknown format %q", *format)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%d cadastro(s) importado(s)\n", n)
	return nil
}

func exportCmd(ctx context.Context, app *bootstrap.App, args []string, out io.Writer, _ io.Reader) error {
	fs := newFlagSet("export")
	format := fs.String("format", "json", "json, text or csv")
	path := fs.String("out", "", "output file, stdout when empty")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	switch *format {
	case "json":
		data, err = app.Transfer.ExportJSON(ctx)
	case "text":
		data = []byte(app.Transfer.ExportText(ctx))
	case "csv":
		data, err = app.Transfer.ExportCSV(ctx)
	default:
		return usagef("export: unknown format %q", *format)
	}
	if err != nil {
		return err
	}
	return writeOutput(*path, data, out)
}

func summaryCmd(ctx context.Context, app *bootstrap.App, args []string, out io.Writer, _ io.Reader) error {
	fs := newFlagSet("summary")
	week := fs.Int("week", 1, "week 1-4")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	s, err := app.Finance.Summary(ctx, *week)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Semana %d\n", s.Week)
	fmt.Fprintf(out, "  Recebido:  %s\n", money.Format(s.Received))
	fmt.Fprintf(out, "  Descontos: %s\n", money.Format(s.Discounts))
	fmt.Fprintf(out, "  Líquido:   %s\n", money.Format(s.Net))
	fmt.Fprintf(out, "\nPrevisão semanal: %s\n", money.Format(s.WeeklyTotal))
	fmt.Fprintln(out, "\nPor mês de retirada:")
	for _, m := range s.Months {
		fmt.Fprintf(out, "  %s/%d: %s\n", m.Name, m.Year, money.Format(m.Total))
	}
	fmt.Fprintf(out, "  Total: %s\n", money.Format(s.MonthlyTotal))
	if len(s.Referrers) > 0 {
		fmt.Fprintln(out, "\nIndicadores:")
		for _, r := range s.Referrers {
			names := make([]string, 0, len(r.Referred))
			for _, ref := range r.Referred {
				names = append(names, ref.Name)
			}
			fmt.Fprintf(out, "  %s: %d indicação(ões) %s\n", r.Name, len(r.Referred), strings.Join(names, ", "))
		}
	}
	return nil
}

func reportCmd(ctx context.Context, app *bootstrap.App, args []string, out io.Writer, _ io.Reader) error {
	fs := newFlagSet("report")
	week := fs.Int("week", 1, "week 1-4")
	path := fs.String("out", "relatorio.pdf", "output PDF file")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	pdf, err := app.Finance.ReportPDF(ctx, *week)
	if err != nil {
		return err
	}
	if err := os.WriteFile(*path, pdf, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	fmt.Fprintf(out, "Relatório salvo em %s\n", *path)
	return nil
}

func pendingCmd(ctx context.Context, app *bootstrap.App, args []string, out io.Writer, _ io.Reader) error {
	if len(args) == 0 {
		return usagef("pending: expected add|list|status|convert|remove")
	}
	sub, args := args[0], args[1:]
	switch sub {
	case "add":
		fs := newFlagSet("pending add")
		name := fs.String("name", "", "name")
		contact := fs.String("contact", "", "phone or e-mail")
		login := fs.String("login", "", "loginId, needed to convert later")
		notes := fs.String("notes", "", "notes")
		if _, err := parse(fs, args, 0); err != nil {
			return err
		}
		p, err := app.Pending.Add(ctx, domain.PendingProfile{Name: *name, Contact: *contact, LoginID: *login, Notes: *notes})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Perfil pendente criado: %s\n", p.ID)
	case "list":
		profiles, err := app.Pending.List(ctx)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNOME\tCONTATO\tLOGIN\tSTATUS\tCRIADO EM")
		for _, p := range profiles {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Contact, p.LoginID, p.Status, p.CreatedAt)
		}
		return tw.Flush()
	case "status":
		rest, err := parse(newFlagSet("pending status"), args, 2)
		if err != nil {
			return err
		}
		if err := app.Pending.SetStatus(ctx, rest[0], domain.PendingStatus(rest[1])); err != nil {
			return err
		}
		fmt.Fprintf(out, "Status atualizado: %s\n", rest[1])
	case "convert":
		rest, err := parse(newFlagSet("pending convert"), args, 1)
		if err != nil {
			return err
		}
		c, err := app.Pending.Convert(ctx, rest[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Cadastro criado: %s (%s)\n", c.Name, c.LoginID)
	case "remove":
		rest, err := parse(newFlagSet("pending remove"), args, 1)
		if err != nil {
			return err
		}
		if err := app.Pending.Remove(ctx, rest[0]); err != nil {
			return err
		}
		fmt.Fprintln(out, "Perfil removido")
	default:
		return usagef("pending: unknown subcommand %q", sub)
	}
	return nil
}

func settingsCmd(ctx context.Context, app *bootstrap.App, args []string, out io.Writer, _ io.Reader) error {
	fs := newFlagSet("settings")
	pix := fs.String("pix", "", "PIX key")
	day := fs.String("payment-day", "", "payment weekday")
	company := fs.String("company", "", "company name")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	settings, err := app.Settings.Get(ctx)
	if err != nil {
		return err
	}

	if fs.NFlag() > 0 {
		if *pix != "" {
			settings.PixKey = *pix
		}
		if *day != "" {
			settings.PaymentDay = *day
		}
		if *company != "" {
			settings.CompanyName = *company
		}
		if err := app.Settings.Update(ctx, settings); err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "Empresa: %s\nChave PIX: %s\nDia de pagamento: %s\n", settings.CompanyName, settings.PixKey, settings.PaymentDay)
	return nil
}

func backupCmd(ctx context.Context, app *bootstrap.App, args []string, out io.Writer, _ io.Reader) error {
	if len(args) == 0 {
		return usagef("backup: expected create|list|restore")
	}
	switch args[0] {
	case "create":
		key, err := app.Backup.Snapshot(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Backup criado: %s\n", key)
	case "list":
		objects, err := app.Backup.List(ctx)
		if err != nil {
			return err
		}
		for _, o := range objects {
			fmt.Fprintf(out, "%s\t%d bytes\t%s\n", o.Key, o.Size, o.LastModified.Format("02/01/2006 15:04"))
		}
	case "restore":
		if len(args) < 2 {
			return usagef("backup restore: expected <key>")
		}
		if err := app.Backup.Restore(ctx, args[1]); err != nil {
			return err
		}
		fmt.Fprintf(out, "Backup restaurado: %s\n", args[1])
	default:
		return usagef("backup: unknown subcommand %q", args[0])
	}
	return nil
}

func writeOutput(path string, data []byte, out io.Writer) error {
	if path == "" {
		_, err := out.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(out, "Arquivo salvo em %s\n", path)
	return nil
}
