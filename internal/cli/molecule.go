package cli

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spectools/pkg/catalog"
	pkgio "github.com/matzehuels/spectools/pkg/io"
	"github.com/matzehuels/spectools/pkg/molecule"
	"github.com/matzehuels/spectools/pkg/pickett"
	"github.com/matzehuels/spectools/pkg/table"
)

// moleculeTable presents molecules to the table writers, one column per
// constant name found in any of them.
type moleculeTable []molecule.Molecule

func (t moleculeTable) constantNames() []string {
	var names []string
	for _, m := range t {
		for k := range m.Constants {
			if !slices.Contains(names, k) {
				names = append(names, k)
			}
		}
	}
	slices.Sort(names)
	return names
}

func (t moleculeTable) Headers() []string {
	return append([]string{"Name", "Formula", "SMILES", "Sigma"}, t.constantNames()...)
}

func (t moleculeTable) Records() [][]string {
	names := t.constantNames()
	out := make([][]string, len(t))
	for i, m := range t {
		rec := []string{m.Name, m.Formula, m.Smiles, optFloat(m.Sigma)}
		for _, n := range names {
			v, ok := m.Constants[n]
			if !ok {
				rec = append(rec, "")
				continue
			}
			rec = append(rec, table.FormatFloat(v))
		}
		out[i] = rec
	}
	return out
}

// moleculeCommand creates the molecule command.
func (c *CLI) moleculeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "molecule",
		Short: "Manage the molecule database and Pickett identifiers",
	}
	cmd.AddCommand(c.moleculeAddCommand())
	cmd.AddCommand(c.moleculeFindCommand())
	cmd.AddCommand(c.moleculeMatchCommand())
	cmd.AddCommand(c.moleculePickettCommand())
	return cmd
}

func (c *CLI) moleculeAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <mol.yml>...",
		Short: "Add molecule files to the database",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withCatalog(cmd.Context(), func(db *catalog.DB) error {
				for _, path := range args {
					mol, err := db.Molecules.AddMoleculeYAML(cmd.Context(), path)
					if err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
					printSuccess("Added %s", mol.Name)
					printDetail("md5 %s", mol.MD5)
				}
				return nil
			})
		},
	}
}

func (c *CLI) moleculeFindCommand() *cobra.Command {
	var (
		formula, smiles, field, value, format string
		sanitize                              bool
	)
	cmd := &cobra.Command{
		Use:   "find",
		Short: "Look up molecules by formula, SMILES or any field",
		Long: `Look up molecules by formula, SMILES or any field.

--field accepts dotted paths into the constants, e.g. --field constants.B
--value 4549.0586. Numeric values are compared as numbers.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = pkgio.FormatText
			}
			if err := pkgio.ValidateFormat(format); err != nil {
				return err
			}
			return c.withCatalog(cmd.Context(), func(db *catalog.DB) error {
				ctx := cmd.Context()
				var (
					mols []molecule.Molecule
					err  error
				)
				switch {
				case formula != "":
					mols, err = db.Molecules.GetFormula(ctx, formula, sanitize)
				case smiles != "":
					mols, err = db.Molecules.GetSmiles(ctx, smiles)
				default:
					mols, err = db.Molecules.GetQuery(ctx, field, parseValue(value))
				}
				if err != nil {
					return err
				}
				return writeMolecules(cmd.OutOrStdout(), mols, format)
			})
		},
	}
	cmd.Flags().StringVar(&formula, "formula", "", "molecular formula")
	cmd.Flags().BoolVar(&sanitize, "sanitize", false, "strip whitespace and separators from --formula")
	cmd.Flags().StringVar(&smiles, "smiles", "", "SMILES string")
	cmd.Flags().StringVar(&field, "field", "", "field name or dotted path")
	cmd.Flags().StringVar(&value, "value", "", "value for --field")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: text (default), csv, tsv, json")
	cmd.MarkFlagsMutuallyExclusive("formula", "smiles", "field")
	cmd.MarkFlagsOneRequired("formula", "smiles", "field")
	cmd.MarkFlagsRequiredTogether("field", "value")
	return cmd
}

func (c *CLI) moleculeMatchCommand() *cobra.Command {
	var (
		tol      float64
		matchAny bool
		format   string
	)
	cmd := &cobra.Command{
		Use:   "match <name=value>...",
		Short: "Find molecules whose constants match within a tolerance",
		Long: `Find molecules whose constants match within a fractional tolerance.

Each argument names a constant and its value in MHz, e.g. B=4549 A=158000.
By default every constant must match; --any accepts a single match.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			constants, err := parseConstants(args)
			if err != nil {
				return err
			}
			if format == "" {
				format = pkgio.FormatText
			}
			if err := pkgio.ValidateFormat(format); err != nil {
				return err
			}
			return c.withCatalog(cmd.Context(), func(db *catalog.DB) error {
				mols, err := db.Molecules.MatchConstants(cmd.Context(), tol, !matchAny, constants)
				if err != nil {
					return err
				}
				return writeMolecules(cmd.OutOrStdout(), mols, format)
			})
		},
	}
	cmd.Flags().Float64Var(&tol, "tol", 0.01, "fractional tolerance")
	cmd.Flags().BoolVar(&matchAny, "any", false, "match any constant instead of all")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: text (default), csv, tsv, json")
	return cmd
}

func writeMolecules(w io.Writer, mols []molecule.Molecule, format string) error {
	if len(mols) == 0 && format == pkgio.FormatText {
		printInfo("No matching molecules")
		return nil
	}
	return pkgio.Write(w, moleculeTable(mols), format)
}

func (c *CLI) moleculePickettCommand() *cobra.Command {
	var (
		reduction string
		linear    bool
		nuclei    int
		list      bool
	)
	cmd := &cobra.Command{
		Use:   "pickett <parameter>...",
		Short: "Print SPFIT/SPCAT identifiers for Hamiltonian parameters",
		Args: func(cmd *cobra.Command, args []string) error {
			if list {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.MinimumNArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if list {
				fmt.Fprintln(out, strings.Join(pickett.Names(), "\n"))
				return nil
			}
			for _, name := range args {
				id, err := pickett.Identifier(name, reduction, linear, nuclei)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s\t%s\n", name, id)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&reduction, "reduction", "A", "Watson reduction: A or S")
	cmd.Flags().BoolVar(&linear, "linear", false, "linear molecule")
	cmd.Flags().IntVar(&nuclei, "nuclei", 1, "nucleus index for quadrupole terms")
	cmd.Flags().BoolVar(&list, "list", false, "list known parameter names")
	return cmd
}

// parseValue interprets a command-line value as a number when it parses as
// one, so numeric fields compare numerically.
func parseValue(s string) any {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
