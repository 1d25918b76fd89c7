package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yunginnanet/ads1263/pkg/ads1263"
)

var calibrateCmd = &cobra.Command{
	Use:   "calibrate <self-offset|system-offset|system-gain>",
	Short: "Run an offset or gain calibration",
	Long: `Run one of the converter's calibration commands and print the resulting calibration registers.

System calibrations measure whatever the current input mux selects: apply zero (offset) or
full-scale (gain) to that input first. Use --channel to pick it.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"self-offset", "system-offset", "system-gain"},
	RunE:      runCalibrate,
}

var calibrationKinds = map[string]ads1263.CalibrationKind{
	"self-offset":   ads1263.SelfOffset,
	"system-offset": ads1263.SystemOffset,
	"system-gain":   ads1263.SystemGain,
}

func init() {
	f := calibrateCmd.Flags()
	f.Int("adc", 1, "converter to calibrate, 1 or 2")
	f.Int("channel", -1, "input to select before a system calibration")
	rootCmd.AddCommand(calibrateCmd)
}

func runCalibrate(cmd *cobra.Command, args []string) error {
	kind, err := lookup("calibration", args[0], calibrationKinds)
	if err != nil {
		return err
	}
	n, _ := cmd.Flags().GetInt("adc")
	a := ads1263.ADC(n)
	if a != ads1263.ADC1 && a != ads1263.ADC2 {
		return fmt.Errorf("--adc must be 1 or 2, got %d", n)
	}

	adc := session.adc
	if ch, _ := cmd.Flags().GetInt("channel"); ch >= 0 {
		// A conversion leaves the mux on the selected input.
		read := adc.GetChannelValue
		if a == ads1263.ADC2 {
			read = adc.GetChannelValueADC2
		}
		if _, err = read(uint8(ch)); err != nil {
			return fmt.Errorf("select channel %d: %w", ch, err)
		}
	}

	session.log.Info().Stringer("adc", a).Stringer("kind", kind).Msg("calibrating")
	if err = adc.Calibrate(a, kind); err != nil {
		return err
	}

	first, last := ads1263.RegOFCAL0, ads1263.RegFSCAL2
	if a == ads1263.ADC2 {
		first, last = ads1263.RegADC2OFC0, ads1263.RegADC2FSC1
	}
	regs := adc.Registers()
	out := cmd.OutOrStdout()
	for r := first; r <= last; r++ {
		fmt.Fprintf(out, "%-9s 0x%02X\n", r, regs[r])
	}
	return nil
}
