package cli

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spectools/pkg/catalog"
	errs "github.com/matzehuels/spectools/pkg/errors"
	pkgio "github.com/matzehuels/spectools/pkg/io"
	"github.com/matzehuels/spectools/pkg/table"
)

// entryTable presents catalog entries to the table writers. As JSON it is
// a plain array of entries.
type entryTable []catalog.Entry

var entryHeaders = []string{"Name", "Formula", "Frequency", "Catalog Freq", "Log I", "Lower Energy", "Upper QN", "Lower QN", "Einstein A", "Experiment"}

func (t entryTable) Headers() []string { return entryHeaders }

func (t entryTable) Records() [][]string {
	out := make([][]string, len(t))
	for i, e := range t {
		exp := ""
		if e.Experiment != 0 {
			exp = strconv.Itoa(e.Experiment)
		}
		out[i] = []string{
			e.Name,
			e.Formula,
			optFloat(e.Frequency),
			optFloat(e.CatalogFrequency),
			optFloat(e.CatalogIntensity),
			optFloat(e.LowerEnergy),
			e.UpperQN,
			e.LowerQN,
			optFloat(e.EinsteinA),
			exp,
		}
	}
	return out
}

func optFloat(v float64) string {
	if v == 0 {
		return ""
	}
	return table.FormatFloat(v)
}

var _ table.Tabular = entryTable(nil)

// catalogCommand creates the catalog command.
func (c *CLI) catalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the spectral line catalog",
		Long: `Manage the spectral line catalog.

The catalog stores measured lines (frequency) and predicted lines
(catalog_frequency) per molecule. The backend is a JSON file by default or
MongoDB, selected in the [catalog] section of the config file.`,
	}
	cmd.AddCommand(c.catalogAddCommand())
	cmd.AddCommand(c.catalogAddCatCommand())
	cmd.AddCommand(c.catalogAddTableCommand())
	cmd.AddCommand(c.catalogSearchCommand())
	cmd.AddCommand(c.catalogRemoveCommand())
	return cmd
}

// withCatalog opens the catalog, runs fn and closes it again.
func (c *CLI) withCatalog(ctx context.Context, fn func(*catalog.DB) error) error {
	db, err := c.openCatalog(ctx)
	if err != nil {
		return err
	}
	if err := fn(db); err != nil {
		_ = db.Close(ctx)
		return err
	}
	return db.Close(ctx)
}

func (c *CLI) catalogAddCommand() *cobra.Command {
	var (
		e     catalog.Entry
		noDup bool
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a single measured line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withCatalog(cmd.Context(), func(db *catalog.DB) error {
				ok, err := db.Catalog.AddEntry(cmd.Context(), e, !noDup)
				if err != nil {
					return err
				}
				if ok {
					printSuccess("Added %s at %s MHz", e.Name, table.FormatFloat(e.Frequency))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&e.Name, "name", "", "molecule name")
	cmd.Flags().StringVar(&e.Formula, "formula", "", "molecular formula")
	cmd.Flags().Float64Var(&e.Frequency, "freq", 0, "measured frequency in MHz")
	cmd.Flags().StringVar(&e.UpperQN, "upper", "", "upper state quantum numbers")
	cmd.Flags().StringVar(&e.LowerQN, "lower", "", "lower state quantum numbers")
	cmd.Flags().IntVar(&e.Experiment, "experiment", 0, "experiment ID")
	cmd.Flags().BoolVar(&noDup, "allow-duplicate", false, "skip the duplicate check")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("freq")
	return cmd
}

func (c *CLI) catalogAddCatCommand() *cobra.Command {
	var (
		name, formula string
		extra         []string
	)
	cmd := &cobra.Command{
		Use:   "add-cat <file.cat>",
		Short: "Load an SPCAT .cat file as predicted lines",
		Long: `Load an SPCAT .cat file as predicted lines for a molecule.

Lines whose frequency is already stored for the molecule are skipped.
--extra key=value pairs are attached to every entry.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, err := parseKeyValues(extra)
			if err != nil {
				return err
			}
			return c.withCatalog(cmd.Context(), func(db *catalog.DB) error {
				prog := newProgress(loggerFromContext(cmd.Context()))
				n, err := db.Catalog.AddCatalog(cmd.Context(), args[0], name, formula, meta)
				if err != nil {
					return err
				}
				prog.donef("Added %d lines for %s", n, name)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "molecule name")
	cmd.Flags().StringVar(&formula, "formula", "", "molecular formula")
	cmd.Flags().StringArrayVar(&extra, "extra", nil, "extra key=value metadata (repeatable)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func (c *CLI) catalogAddTableCommand() *cobra.Command {
	var name, formula string
	cmd := &cobra.Command{
		Use:   "add-table <table.json>",
		Short: "Load a computed Einstein table (from 'einstein -f json')",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := pkgio.ImportJSON(args[0])
			if err != nil {
				return err
			}
			return c.withCatalog(cmd.Context(), func(db *catalog.DB) error {
				n, err := db.Catalog.AddTable(cmd.Context(), t, name, formula)
				if err != nil {
					return err
				}
				printSuccess("Added %d of %d rows for %s", n, len(t.Rows), name)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "molecule name")
	cmd.Flags().StringVar(&formula, "formula", "", "molecular formula")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

type catalogSearchOpts struct {
	freq       float64
	prox       float64
	relative   bool
	molecule   string
	formula    string
	experiment int
	format     string
}

func (c *CLI) catalogSearchCommand() *cobra.Command {
	opts := catalogSearchOpts{prox: 0.1}
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search the catalog by frequency, molecule, formula or experiment",
		Long: `Search the catalog.

--freq matches measured or catalog frequencies within --prox MHz of the
given value, or within a fraction --prox of it with --relative.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format == "" {
				opts.format = pkgio.FormatText
			}
			if err := pkgio.ValidateFormat(opts.format); err != nil {
				return err
			}
			return c.withCatalog(cmd.Context(), func(db *catalog.DB) error {
				return c.runCatalogSearch(cmd, db.Catalog, opts)
			})
		},
	}
	cmd.Flags().Float64Var(&opts.freq, "freq", 0, "frequency in MHz")
	cmd.Flags().Float64Var(&opts.prox, "prox", opts.prox, "search window (MHz, or fraction with --relative)")
	cmd.Flags().BoolVar(&opts.relative, "relative", false, "treat --prox as a fraction of --freq")
	cmd.Flags().StringVar(&opts.molecule, "molecule", "", "molecule name")
	cmd.Flags().StringVar(&opts.formula, "formula", "", "molecular formula")
	cmd.Flags().IntVar(&opts.experiment, "experiment", 0, "experiment ID")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: text (default), csv, tsv, json")
	cmd.MarkFlagsMutuallyExclusive("freq", "molecule", "formula", "experiment")
	cmd.MarkFlagsOneRequired("freq", "molecule", "formula", "experiment")
	return cmd
}

func (c *CLI) runCatalogSearch(cmd *cobra.Command, cat *catalog.Catalog, opts catalogSearchOpts) error {
	ctx := cmd.Context()
	flags := cmd.Flags()

	var (
		entries []catalog.Entry
		err     error
	)
	switch {
	case flags.Changed("freq"):
		entries, err = cat.SearchFrequency(ctx, opts.freq, opts.prox, opts.relative)
	case flags.Changed("molecule"):
		entries, err = cat.SearchMolecule(ctx, opts.molecule)
	case flags.Changed("formula"):
		entries, err = cat.SearchFormula(ctx, opts.formula)
	default:
		entries, err = cat.SearchExperiment(ctx, opts.experiment)
	}
	if err != nil {
		return err
	}
	return writeEntries(cmd.OutOrStdout(), entries, opts.format)
}

func writeEntries(w io.Writer, entries []catalog.Entry, format string) error {
	if len(entries) == 0 && format == pkgio.FormatText {
		printInfo("No matching entries")
		return nil
	}
	if entries == nil {
		entries = []catalog.Entry{}
	}
	return pkgio.Write(w, entryTable(entries), format)
}

func (c *CLI) catalogRemoveCommand() *cobra.Command {
	var (
		experiment int
		molecule   string
	)
	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove all entries of an experiment or molecule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withCatalog(cmd.Context(), func(db *catalog.DB) error {
				var (
					n   int
					err error
				)
				if cmd.Flags().Changed("experiment") {
					n, err = db.Catalog.RemoveExperiment(cmd.Context(), experiment)
				} else {
					n, err = db.Catalog.RemoveMolecule(cmd.Context(), molecule)
				}
				if err != nil {
					return err
				}
				printSuccess("Removed %d entries", n)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&experiment, "experiment", 0, "experiment ID")
	cmd.Flags().StringVar(&molecule, "molecule", "", "molecule name")
	cmd.MarkFlagsMutuallyExclusive("experiment", "molecule")
	cmd.MarkFlagsOneRequired("experiment", "molecule")
	return cmd
}

// parseKeyValues parses "key=value" pairs.
func parseKeyValues(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, errs.New(errs.ErrCodeInvalidInput, "expected key=value, got %q", p)
		}
		out[k] = v
	}
	return out, nil
}

// parseConstants parses "name=value" constant pairs.
func parseConstants(pairs []string) (map[string]float64, error) {
	kv, err := parseKeyValues(pairs)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(kv))
	for k, v := range kv {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, errs.New(errs.ErrCodeInvalidInput, "constant %s: %q is not a number", k, v)
		}
		out[k] = f
	}
	return out, nil
}
