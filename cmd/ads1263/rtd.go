package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yunginnanet/ads1263/pkg/ads1263"
)

var rtdCmd = &cobra.Command{
	Use:   "rtd",
	Short: "Measure a 2-wire PT100 ratiometrically",
	Long: `Drive both excitation current sources, convert the sensor voltage against the reference
resistor on AIN4/AIN5, then switch the sources off again. The sensor sits on AIN7-AIN6.`,
	Args: cobra.NoArgs,
	RunE: runRTD,
}

func init() {
	f := rtdCmd.Flags()
	f.Float64("rtd-rref", 2000, "reference resistor in ohms")
	f.String("rtd-current", "", "excitation current, 50uA to 3000uA (default 250uA)")
	f.String("rtd-settle", "", "settle time after enabling excitation: 0, 1ms, 5ms, 10ms, 50ms, 100ms (default 10ms)")
	rootCmd.AddCommand(rtdCmd)
}

func runRTD(cmd *cobra.Command, _ []string) error {
	rc, err := rtdConfig(session.cfg)
	if err != nil {
		return err
	}
	r, err := session.adc.ReadRTD(rc)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "raw         %d\n", r.Raw)
	fmt.Fprintf(out, "resistance  %.4f ohm\n", r.Resistance)
	fmt.Fprintf(out, "temperature %.3f °C\n", r.Celsius)
	fmt.Fprintf(out, "linear      %.3f °C\n", ads1263.PT100ToCelsiusLinear(r.Resistance))
	return nil
}
