package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yunginnanet/ads1263/pkg/ads1263"
)

var regsCmd = &cobra.Command{
	Use:   "regs",
	Short: "Dump the register file next to the driver's mirror",
	Args:  cobra.NoArgs,
	RunE:  runRegs,
}

func init() {
	regsCmd.Flags().Bool("verify", false, "fail if any hardware register differs from the mirror")
	rootCmd.AddCommand(regsCmd)
}

func runRegs(cmd *cobra.Command, _ []string) error {
	verify, _ := cmd.Flags().GetBool("verify")
	if verify {
		if err := session.adc.VerifyRegisters(); err != nil {
			return err
		}
	}

	mirror := session.adc.Registers()
	hw, err := session.adc.ReadAllRegisters()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-9s %4s %6s\n", "REGISTER", "HW", "MIRROR")
	for r := ads1263.Register(0); r < ads1263.NumRegisters; r++ {
		mark := ""
		if hw[r] != mirror[r] {
			mark = " *"
		}
		fmt.Fprintf(out, "%-9s 0x%02X   0x%02X%s\n", r, hw[r], mirror[r], mark)
	}
	if verify {
		fmt.Fprintln(out, "registers match")
	}
	return nil
}
