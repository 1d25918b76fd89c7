package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/yunginnanet/ads1263/pkg/ads1263"
)

var readCmd = &cobra.Command{
	Use:   "read [channel...]",
	Short: "Read ADC1 channels",
	Long: `Run one ADC1 conversion per channel. In single-ended mode a channel is AINn against AINCOM
(0-10), in differential mode it is the pair index n selecting AIN2n-AIN2n+1 (0-4).`,
	Args: cobra.ArbitraryArgs,
	RunE: runRead,
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Read every ADC1 input once",
	Args:  cobra.NoArgs,
	RunE:  runScan,
}

var adc2Cmd = &cobra.Command{
	Use:   "adc2 [channel...]",
	Short: "Read ADC2 channels, or all of them",
	Long: `Run ADC2 conversions. ADC2 has no ready line, so every result is polled through the STATUS byte
(or a full conversion period when the STATUS byte is off). Without arguments every input is read.`,
	RunE: runADC2,
}

func init() {
	rootCmd.AddCommand(readCmd, scanCmd, adc2Cmd)
}

func parseChannels(args []string) ([]uint8, error) {
	chs := make([]uint8, 0, len(args))
	for _, a := range args {
		n, err := strconv.ParseUint(a, 0, 8)
		if err != nil {
			return nil, fmt.Errorf("bad channel %q: %w", a, err)
		}
		chs = append(chs, uint8(n))
	}
	return chs, nil
}

func printSample(w io.Writer, a ads1263.ADC, ch uint8, raw int32) {
	adc := session.adc
	label := strconv.Itoa(int(ch))
	if sel, err := ads1263.SelectorFor(adc.State().Settings(a).Mode, ch); err == nil {
		label = sel.String()
	}
	fmt.Fprintf(w, "%s %-12s %11d  %+.7f V\n", a, label, raw, adc.Voltage(a, raw))
}

func runRead(cmd *cobra.Command, args []string) error {
	chs, err := parseChannels(args)
	if err != nil {
		return err
	}
	if len(chs) == 0 {
		chs = []uint8{0}
	}
	for _, ch := range chs {
		raw, err := session.adc.GetChannelValue(ch)
		if err != nil {
			return fmt.Errorf("channel %d: %w", ch, err)
		}
		printSample(cmd.OutOrStdout(), ads1263.ADC1, ch, raw)
	}
	return nil
}

func allChannels(a ads1263.ADC) []uint8 {
	n := 11
	if a == ads1263.ADC2 {
		n = 10
	}
	if session.adc.State().Settings(a).Mode == ads1263.DifferentialMode {
		n = 5
	}
	chs := make([]uint8, n)
	for i := range chs {
		chs[i] = uint8(i)
	}
	return chs
}

func runScan(cmd *cobra.Command, _ []string) error {
	chs := allChannels(ads1263.ADC1)
	vals, err := session.adc.GetAll(chs)
	for i, raw := range vals {
		printSample(cmd.OutOrStdout(), ads1263.ADC1, chs[i], raw)
	}
	return err
}

func runADC2(cmd *cobra.Command, args []string) error {
	chs, err := parseChannels(args)
	if err != nil {
		return err
	}
	if len(chs) == 0 {
		vals, err := session.adc.GetAllADC2()
		for i, raw := range vals {
			printSample(cmd.OutOrStdout(), ads1263.ADC2, uint8(i), raw)
		}
		return err
	}
	for _, ch := range chs {
		raw, err := session.adc.GetChannelValueADC2(ch)
		if err != nil {
			return fmt.Errorf("channel %d: %w", ch, err)
		}
		printSample(cmd.OutOrStdout(), ads1263.ADC2, ch, raw)
	}
	return nil
}
