package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/spectools/pkg/io"
	"github.com/matzehuels/spectools/pkg/molecule"
	"github.com/matzehuels/spectools/pkg/pipeline"
	"github.com/matzehuels/spectools/pkg/table"
)

// tableOpts holds the flags shared by the table commands.
type tableOpts struct {
	output  string // output file, or directory for several inputs
	format  string // text, csv, tsv, json; empty means from output extension
	noCache bool
	refresh bool
}

func (o *tableOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output file (directory for several inputs); stdout if empty")
	cmd.Flags().StringVarP(&o.format, "format", "f", "", "output format: text (default), csv, tsv, json")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&o.refresh, "refresh", false, "recompute even if cached")
}

func (o *tableOpts) validate() error {
	if o.format == "" {
		return nil
	}
	return pkgio.ValidateFormat(o.format)
}

// einsteinCommand creates the einstein command.
func (c *CLI) einsteinCommand() *cobra.Command {
	var opts tableOpts

	cmd := &cobra.Command{
		Use:   "einstein <file.str>...",
		Short: "Compute Einstein A coefficients from SPCAT .str files",
		Long: `Compute Einstein A coefficients from SPCAT .str files.

Each row's reduced transition dipole is squared into a transition dipole
moment and combined with the frequency into an Einstein A coefficient (s⁻¹).
Rows are sorted by frequency.

Several files are processed concurrently; with -o they are written into the
given directory as <name>.<format>.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			return c.runEinstein(cmd.Context(), cmd.OutOrStdout(), args, opts)
		},
	}
	opts.register(cmd)
	return cmd
}

func (c *CLI) runEinstein(ctx context.Context, w io.Writer, paths []string, opts tableOpts) error {
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	logger := loggerFromContext(ctx)
	prog := newProgress(logger)
	popts := pipeline.Options{Refresh: opts.refresh, Logger: logger}

	if len(paths) == 1 {
		data, err := os.ReadFile(paths[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", paths[0], err)
		}
		t, hit, err := runner.EinsteinWithCacheInfo(ctx, paths[0], data, popts)
		if err != nil {
			return err
		}
		prog.donef("Computed %d Einstein coefficients", len(t.Rows))
		return writeTables(w, []table.Tabular{t}, paths, []bool{hit}, opts)
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Computing %d tables...", len(paths)))
	spinner.Start()
	tables, err := runner.EinsteinMany(ctx, paths, popts)
	if err != nil {
		spinner.StopWithError("Computation failed")
		return err
	}
	spinner.Stop()
	prog.donef("Computed %d tables", len(tables))

	tabs := make([]table.Tabular, len(tables))
	for i, t := range tables {
		tabs[i] = t
	}
	return writeTables(w, tabs, paths, nil, opts)
}

// linestrengthCommand creates the linestrength command.
func (c *CLI) linestrengthCommand() *cobra.Command {
	var (
		opts    tableOpts
		q, temp float64
		molPath string
	)

	cmd := &cobra.Command{
		Use:   "linestrength <file.cat>",
		Short: "Compute linestrengths and Einstein A from an SPCAT .cat file",
		Long: `Compute linestrengths and Einstein A coefficients from an SPCAT .cat file.

The catalog's log10 intensities are converted to linestrengths using the
partition function Q at temperature T. Q is given directly with --q or
derived from a molecule file's rotational constants with --molecule.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			temp = c.temperature(cmd, temp)
			return c.runLineStrength(cmd.Context(), cmd.OutOrStdout(), args[0], q, temp, molPath, opts)
		},
	}
	opts.register(cmd)
	cmd.Flags().Float64Var(&q, "q", 0, "partition function at the given temperature")
	cmd.Flags().Float64VarP(&temp, "temperature", "T", 300, "temperature in K")
	cmd.Flags().StringVarP(&molPath, "molecule", "m", "", "molecule YAML file to derive Q from")
	cmd.MarkFlagsMutuallyExclusive("q", "molecule")
	cmd.MarkFlagsOneRequired("q", "molecule")
	return cmd
}

func (c *CLI) runLineStrength(ctx context.Context, w io.Writer, path string, q, temp float64, molPath string, opts tableOpts) error {
	logger := loggerFromContext(ctx)
	if molPath != "" {
		mol, err := molecule.Load(molPath)
		if err != nil {
			return err
		}
		model, err := mol.PartitionModel()
		if err != nil {
			return fmt.Errorf("%s: %w", molPath, err)
		}
		if q, err = model.Q(temp); err != nil {
			return err
		}
		logger.Info("partition function", "molecule", mol.Name, "model", model, "T", temp, "Q", q)
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	prog := newProgress(logger)
	t, hit, err := runner.LineStrengthWithCacheInfo(ctx, path, data, pipeline.Options{
		Q:           q,
		Temperature: temp,
		Refresh:     opts.refresh,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	prog.donef("Computed %d linestrengths", len(t.Rows))
	return writeTables(w, []table.Tabular{t}, []string{path}, []bool{hit}, opts)
}

// writeTables writes each table to w, to opts.output, or into the
// opts.output directory when there are several.
func writeTables(w io.Writer, tables []table.Tabular, sources []string, hits []bool, opts tableOpts) error {
	if opts.output == "" {
		format := opts.format
		if format == "" {
			format = pkgio.FormatText
		}
		for i, t := range tables {
			if len(tables) > 1 && format == pkgio.FormatText {
				fmt.Fprintln(w, StyleTitle.Render(sources[i]))
			}
			if err := pkgio.Write(w, t, format); err != nil {
				return err
			}
		}
		return nil
	}

	if len(tables) == 1 {
		if err := pkgio.Export(tables[0], opts.output, opts.format); err != nil {
			return err
		}
		printSuccess("Wrote %s", sources[0])
		printTableStats(sources[0], len(tables[0].Records()), len(hits) > 0 && hits[0])
		printFile(opts.output)
		return nil
	}

	format := opts.format
	if format == "" {
		format = pkgio.FormatCSV
	}
	if err := os.MkdirAll(opts.output, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", opts.output, err)
	}
	printSuccess("Wrote %d tables", len(tables))
	for i, t := range tables {
		base := strings.TrimSuffix(filepath.Base(sources[i]), filepath.Ext(sources[i]))
		path := filepath.Join(opts.output, base+"."+format)
		if err := pkgio.Export(t, path, format); err != nil {
			return err
		}
		printFile(path)
	}
	return nil
}
