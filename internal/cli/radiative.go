package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/spectools/pkg/molecule"
	"github.com/matzehuels/spectools/pkg/radiative"
	"github.com/matzehuels/spectools/pkg/units"
)

// partitionCommand creates the partition command.
func (c *CLI) partitionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "partition",
		Short: "Approximate rotational partition functions",
		Long: `Approximate rotational partition functions from rotational constants
(MHz) in the high-temperature limit.`,
	}
	cmd.AddCommand(c.partitionLinearCommand())
	cmd.AddCommand(c.partitionTopCommand())
	cmd.AddCommand(c.partitionMoleculeCommand())
	return cmd
}

func (c *CLI) partitionLinearCommand() *cobra.Command {
	var b, temp float64
	cmd := &cobra.Command{
		Use:   "linear",
		Short: "Partition function of a linear molecule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			temp = c.temperature(cmd, temp)
			return printPartition(radiative.Linear{B: b}, temp)
		},
	}
	cmd.Flags().Float64Var(&b, "b", 0, "rotational constant B in MHz")
	cmd.Flags().Float64VarP(&temp, "temperature", "T", radiative.DefaultTemperature, "temperature in K")
	_ = cmd.MarkFlagRequired("b")
	return cmd
}

func (c *CLI) partitionTopCommand() *cobra.Command {
	var a, b, cc, sigma, temp float64
	cmd := &cobra.Command{
		Use:   "top",
		Short: "Partition function of a symmetric or asymmetric top",
		Long: `Partition function of a symmetric or asymmetric top.

Omitting --c uses the prolate approximation C = B; pass --c equal to --a for
an oblate top.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			temp = c.temperature(cmd, temp)
			return printPartition(radiative.NewSymmetricTop(a, b, cc, sigma), temp)
		},
	}
	cmd.Flags().Float64Var(&a, "a", 0, "rotational constant A in MHz")
	cmd.Flags().Float64Var(&b, "b", 0, "rotational constant B in MHz")
	cmd.Flags().Float64Var(&cc, "c", 0, "rotational constant C in MHz (default B)")
	cmd.Flags().Float64Var(&sigma, "sigma", 1, "rotational symmetry number")
	cmd.Flags().Float64VarP(&temp, "temperature", "T", radiative.DefaultTemperature, "temperature in K")
	_ = cmd.MarkFlagRequired("a")
	_ = cmd.MarkFlagRequired("b")
	return cmd
}

func (c *CLI) partitionMoleculeCommand() *cobra.Command {
	var temp float64
	cmd := &cobra.Command{
		Use:   "molecule <mol.yml>",
		Short: "Partition function from a molecule file's constants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			temp = c.temperature(cmd, temp)
			mol, err := molecule.Load(args[0])
			if err != nil {
				return err
			}
			model, err := mol.PartitionModel()
			if err != nil {
				return err
			}
			printKeyValue("Molecule", mol.Name)
			return printPartition(model, temp)
		},
	}
	cmd.Flags().Float64VarP(&temp, "temperature", "T", radiative.DefaultTemperature, "temperature in K")
	return cmd
}

func printPartition(m radiative.PartitionModel, temp float64) error {
	q, err := m.Q(temp)
	if err != nil {
		return err
	}
	printKeyValue("Model", m.String())
	printResult("Temperature", temp, "K")
	printResult("Q", q, "")
	return nil
}

// temperature returns the flag value when set, otherwise the configured
// default.
func (c *CLI) temperature(cmd *cobra.Command, flag float64) float64 {
	if cmd.Flags().Changed("temperature") {
		return flag
	}
	return c.cfg().Radiative.Temperature
}

// energyCommand creates the energy command.
func (c *CLI) energyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "energy",
		Short: "State energies and Boltzmann factors",
	}
	cmd.AddCommand(c.energyUpperCommand())
	cmd.AddCommand(c.energyBoltzmannCommand())
	return cmd
}

func (c *CLI) energyUpperCommand() *cobra.Command {
	var freq, elower float64
	cmd := &cobra.Command{
		Use:   "upper",
		Short: "Upper-state energy of a transition",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := radiative.UpperStateEnergy(freq, elower)
			printResult("Upper energy", e, "cm⁻¹")
			printResult("", units.WavenumberToKelvin(e), "K")
			return nil
		},
	}
	cmd.Flags().Float64Var(&freq, "freq", 0, "transition frequency in MHz")
	cmd.Flags().Float64Var(&elower, "elower", 0, "lower-state energy in cm⁻¹")
	_ = cmd.MarkFlagRequired("freq")
	return cmd
}

func (c *CLI) energyBoltzmannCommand() *cobra.Command {
	var e, temp float64
	cmd := &cobra.Command{
		Use:   "boltzmann",
		Short: "Boltzmann factor exp(-E/kT) of a state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			temp = c.temperature(cmd, temp)
			f, err := radiative.BoltzmannFactor(e, temp)
			if err != nil {
				return err
			}
			printResult("Temperature", temp, "K")
			printResult("Boltzmann", f, "")
			return nil
		},
	}
	cmd.Flags().Float64Var(&e, "e", 0, "state energy in cm⁻¹")
	cmd.Flags().Float64VarP(&temp, "temperature", "T", radiative.DefaultTemperature, "temperature in K")
	_ = cmd.MarkFlagRequired("e")
	return cmd
}
