package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spectools/pkg/spcat"
)

// spcatCommand creates the spcat command wrapping the external programs.
func (c *CLI) spcatCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spcat",
		Short: "Run SPCAT, SPFIT and calbak on a job",
		Long: `Run Pickett's SPCAT, SPFIT and calbak programs on a job basename.

The programs must be on PATH (names are configurable in the [spcat] section
of the config file). A basename "runs/hc3n" refers to runs/hc3n.int,
runs/hc3n.var and so on.`,
	}

	type step struct {
		use, short string
		run        func(*spcat.Runner, context.Context, string) error
	}
	for _, s := range []step{
		{"run", "Simulate a catalog with SPCAT", (*spcat.Runner).RunSPCAT},
		{"fit", "Fit parameters with SPFIT", (*spcat.Runner).RunSPFIT},
		{"calbak", "Regenerate the .lin file with calbak", (*spcat.Runner).RunCalbak},
	} {
		cmd.AddCommand(&cobra.Command{
			Use:   s.use + " <basename>",
			Short: s.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.runSPCATStep(cmd.Context(), s.use, args[0], s.run)
			},
		})
	}

	cmd.AddCommand(c.spcatBackupCommand())
	cmd.AddCommand(c.spcatNextRunCommand())
	return cmd
}

func (c *CLI) runSPCATStep(ctx context.Context, name, base string, run func(*spcat.Runner, context.Context, string) error) error {
	r := c.newSPCATRunner()
	r.Logger = loggerFromContext(ctx)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Running %s on %s...", name, base))
	spinner.Start()
	if err := run(r, ctx, base); err != nil {
		spinner.StopWithError(fmt.Sprintf("%s failed", name))
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("%s finished", name))
	return nil
}

func (c *CLI) spcatBackupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "backup <name> <dir>",
		Short: "Copy a job's SPCAT files into a directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			copied, err := spcat.BackupFiles(args[0], args[1])
			if err != nil {
				return err
			}
			if len(copied) == 0 {
				printWarning("No files found for %s", args[0])
				return nil
			}
			printSuccess("Backed up %d files", len(copied))
			for _, p := range copied {
				printFile(p)
			}
			return nil
		},
	}
}

func (c *CLI) spcatNextRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "next-run <root>",
		Short: "Create the next numbered run directory under root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, dir, err := spcat.NextRunDir(args[0])
			if err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("created run directory", "run", n)
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
