package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/google/subcommands"
	"github.com/pysugar/account-tabs/internal/account"
	"github.com/pysugar/account-tabs/internal/db/models"
	"github.com/pysugar/account-tabs/internal/importer"
	"github.com/pysugar/account-tabs/internal/parser"
)

type importCmd struct {
	tab  string
	mode string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import account listings from files or URLs into a tab" }
func (*importCmd) Usage() string {
	return `tabsctl import [-tab <tab>] [-mode simple|ordinal] <file-or-url>...

  Parses each listing and appends its complete accounts to the tab. Sources
  are fetched concurrently and stored in the order given.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.tab, "tab", string(models.DefaultGroup), "Target tab (tab1..tab4).")
	f.StringVar(&c.mode, "mode", "", "Record boundary mode, overrides the configured one.")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "import: at least one file or URL is required")
		return subcommands.ExitUsageError
	}
	g, err := parseGroup(c.tab)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.close()

	im := a.importer
	if c.mode != "" {
		mode, err := parser.ParseMode(c.mode)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
		im = importer.New(a.accounts, importer.Options{
			Mode:        mode,
			Timeout:     a.cfg.ImportTimeout(),
			Concurrency: a.cfg.Import.Concurrency,
		}, a.logger)
	}

	results, err := im.ImportSources(ctx, g, f.Args())
	total := 0
	for _, res := range results {
		total += res.Count
		fmt.Fprintf(stdout, "%s: imported %d accounts (%d dropped)\n", importer.SourceName(res.Source), res.Count, res.Dropped)
	}
	fmt.Fprintf(stdout, "Total: %d accounts into %s\n", total, g)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type listCmd struct {
	tab    string
	query  string
	asJSON bool
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list the accounts of a tab, newest first" }
func (*listCmd) Usage() string {
	return `tabsctl list [-tab <tab>] [-q <search>] [-json]
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.tab, "tab", string(models.DefaultGroup), "Tab to list.")
	f.StringVar(&c.query, "q", "", "Only accounts whose username, full name or password contains this text.")
	f.BoolVar(&c.asJSON, "json", false, "Print JSON instead of a table.")
}

func (c *listCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	g, err := parseGroup(c.tab)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.close()

	list, err := a.accounts.Search(ctx, g, c.query)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if c.asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(list); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tPASSWORD\tFULL NAME\tBANK\tBALANCE\tSTATUS\tCREATED")
	for _, acc := range list {
		bank := "-"
		if acc.BankName != nil {
			bank = *acc.BankName
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			acc.ID, acc.Username, acc.Password, acc.FullName, bank,
			account.FormatBalance(acc.Balance), acc.AccountStatus, acc.CreatedAt)
	}
	w.Flush()
	return subcommands.ExitSuccess
}

type updateCmd struct {
	tab     string
	id      int
	balance string
	status  string
	note    string
	bank    string
}

func (*updateCmd) Name() string     { return "update" }
func (*updateCmd) Synopsis() string { return "change balance, status, note or bank of one account" }
func (*updateCmd) Usage() string {
	return `tabsctl update -id <id> [-tab <tab>] [-balance <amount>] [-status idle|in-use|cancelled] [-note <text>] [-bank <name>]

  Only the flags given are changed. An empty -bank clears the bank name.
`
}

func (c *updateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.tab, "tab", string(models.DefaultGroup), "Tab of the account.")
	f.IntVar(&c.id, "id", 0, "Account id.")
	f.StringVar(&c.balance, "balance", "", "New balance.")
	f.StringVar(&c.status, "status", "", "New account status.")
	f.StringVar(&c.note, "note", "", "New note.")
	f.StringVar(&c.bank, "bank", "", "New bank name.")
}

// patch builds the update from the flags that were set on f.
func (c *updateCmd) patch(f *flag.FlagSet) (models.Patch, error) {
	fields := map[string]any{}
	var err error
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "balance":
			v, perr := strconv.ParseFloat(strings.TrimSpace(c.balance), 64)
			if perr != nil {
				err = fmt.Errorf("invalid balance %q", c.balance)
				return
			}
			fields["balance"] = v
		case "status":
			fields["accountStatus"] = c.status
		case "note":
			fields["note"] = c.note
		case "bank":
			if c.bank == "" {
				fields["bankName"] = nil
			} else {
				fields["bankName"] = c.bank
			}
		}
	})
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("nothing to update")
	}
	return models.NewPatch(fields)
}

func (c *updateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	g, err := parseGroup(c.tab)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	patch, err := c.patch(f)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.close()

	updated, err := a.accounts.Update(ctx, g, c.id, patch)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Updated #%d %s: balance %s, status %s\n",
		updated.ID, updated.Username, account.FormatBalance(updated.Balance), updated.AccountStatus)
	return subcommands.ExitSuccess
}

type deleteCmd struct {
	tab string
	id  int
}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "delete one account" }
func (*deleteCmd) Usage() string {
	return `tabsctl delete -id <id> [-tab <tab>]
`
}

func (c *deleteCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.tab, "tab", string(models.DefaultGroup), "Tab of the account.")
	f.IntVar(&c.id, "id", 0, "Account id.")
}

func (c *deleteCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	g, err := parseGroup(c.tab)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.close()

	if err := a.accounts.Delete(ctx, g, c.id); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Deleted #%d from %s\n", c.id, g)
	return subcommands.ExitSuccess
}

type statsCmd struct {
	tab string
}

func (*statsCmd) Name() string     { return "stats" }
func (*statsCmd) Synopsis() string { return "summarize a tab by account status and balance" }
func (*statsCmd) Usage() string {
	return `tabsctl stats [-tab <tab>]
`
}

func (c *statsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.tab, "tab", string(models.DefaultGroup), "Tab to summarize.")
}

func (c *statsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	g, err := parseGroup(c.tab)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.close()

	st, err := a.accounts.Stats(ctx, g)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "%s (%s)\n", a.cfg.Label(g), g)
	fmt.Fprintf(stdout, "  Total:     %d\n", st.Total)
	fmt.Fprintf(stdout, "  Idle:      %d\n", st.ByStatus[models.StatusIdle])
	fmt.Fprintf(stdout, "  In use:    %d\n", st.ByStatus[models.StatusInUse])
	fmt.Fprintf(stdout, "  Cancelled: %d\n", st.ByStatus[models.StatusCancelled])
	if st.Other > 0 {
		fmt.Fprintf(stdout, "  Other:     %d\n", st.Other)
	}
	fmt.Fprintf(stdout, "  Balance:   %s\n", st.BalanceDisplay)
	return subcommands.ExitSuccess
}

type groupsCmd struct{}

func (*groupsCmd) Name() string             { return "groups" }
func (*groupsCmd) Synopsis() string         { return "list the tabs with labels and account counts" }
func (*groupsCmd) Usage() string            { return "tabsctl groups\n" }
func (*groupsCmd) SetFlags(_ *flag.FlagSet) {}

func (c *groupsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.close()

	counts, err := a.accounts.Counts(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TAB\tLABEL\tACCOUNTS")
	for _, g := range models.Groups {
		fmt.Fprintf(w, "%s\t%s\t%d\n", g, a.cfg.Label(g), counts[g])
	}
	w.Flush()
	return subcommands.ExitSuccess
}

type clearCmd struct {
	tab string
	all bool
}

func (*clearCmd) Name() string     { return "clear" }
func (*clearCmd) Synopsis() string { return "delete every account of a tab, or of all tabs" }
func (*clearCmd) Usage() string {
	return `tabsctl clear [-tab <tab> | -all]
`
}

func (c *clearCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.tab, "tab", string(models.DefaultGroup), "Tab to clear.")
	f.BoolVar(&c.all, "all", false, "Clear every tab.")
}

func (c *clearCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var g models.Group
	if !c.all {
		var err error
		if g, err = parseGroup(c.tab); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
	}
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.close()

	var n int
	if c.all {
		n, err = a.accounts.ClearAll(ctx)
	} else {
		n, err = a.accounts.Clear(ctx, g)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if c.all {
		fmt.Fprintf(stdout, "Cleared %d accounts from all tabs\n", n)
	} else {
		fmt.Fprintf(stdout, "Cleared %d accounts from %s\n", n, g)
	}
	return subcommands.ExitSuccess
}
