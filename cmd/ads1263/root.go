package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/warthog618/config"

	"github.com/yunginnanet/ads1263/pkg/ads1263"
)

// session is what PersistentPreRunE hands to the subcommands.
var session struct {
	cfg *config.Config
	log zerolog.Logger
	adc *ads1263.ADS1263
}

var rootCmd = &cobra.Command{
	Use:   "ads1263",
	Short: "Read and configure a TI ADS1262/ADS1263",
	Long: `Drive an ADS1263 dual delta-sigma ADC over spidev, bit-bashed GPIO or an FT232H,
or against the built-in simulator.

Configuration is layered: flags, then ADS1263_* environment variables (ADS1263_ADC1_RATE
for adc1.rate), then the JSON config file, then defaults.

Examples:
  ads1263 read 0 1 2                      # ADC1 single-ended AIN0..AIN2 on the simulator
  ads1263 -b spidev scan --adc1-rate 20   # all ADC1 inputs at 20 SPS
  ads1263 -b softspi rtd                  # PT100 on AIN7-AIN6
  ads1263 -b ft232h regs --verify         # compare hardware registers to the mirror`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringP("backend", "b", "", "transport: sim, spidev, softspi, ft232h (default sim)")
	pf.StringP("config-file", "c", "", "JSON config file (default ads1263.json)")
	pf.String("log-level", "", "trace, debug, info, warn or error (default info)")

	pf.String("adc1-rate", "", "ADC1 data rate in SPS (default 400)")
	pf.Int("adc1-gain", 1, "ADC1 PGA gain")
	pf.String("adc1-filter", "", "ADC1 filter: sinc1..sinc4, fir (default fir)")
	pf.String("adc1-delay", "", "ADC1 conversion start delay (default 35us)")
	pf.String("adc1-reference", "", "ADC1 reference: internal, ain01, ain23, ain45, avdd (default avdd)")
	pf.Float64("adc1-vref", 5.0, "volts across the ADC1 reference")
	pf.Bool("adc1-bypass", true, "bypass the ADC1 PGA when gain is 1")
	pf.String("adc1-mode", "", "single or diff (default single)")

	pf.String("adc2-rate", "", "ADC2 data rate in SPS: 10, 100, 400, 800 (default 100)")
	pf.Int("adc2-gain", 1, "ADC2 PGA gain")
	pf.String("adc2-reference", "", "ADC2 reference (default avdd)")
	pf.Float64("adc2-vref", 0, "volts across the ADC2 reference, 0 to follow ADC1")
	pf.String("adc2-mode", "", "single or diff (default single)")

	pf.String("check", "", "conversion check byte: off, checksum, crc (default checksum)")
	pf.Bool("status", true, "prepend the STATUS byte to conversion data")
}

func newLogger(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("bad log level: %w", err)
	}
	cw := zerolog.ConsoleWriter{Out: w}
	return zerolog.New(cw).Level(lvl).With().Timestamp().Logger(), nil
}

func setup(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig(cmd.Flags())
	log, err := newLogger(cmd.ErrOrStderr(), cfg.MustGet("log.level").String())
	if err != nil {
		return err
	}

	dc, err := driverConfig(cfg)
	if err != nil {
		return err
	}

	t, err := openTransport(cfg, log)
	if err != nil {
		return err
	}

	adc := ads1263.NewADS1263(t)
	adc.SetLogger(log)

	log.Debug().Any("config", dc).Msg("initializing ADS1263")
	if err = adc.Initialize(dc); err != nil {
		return errors.Join(fmt.Errorf("failed to initialize: %w", err), t.Close())
	}
	log.Info().Uint8("device", adc.Device()).Msg("initialized")

	session.cfg, session.log, session.adc = cfg, log, adc
	return nil
}

// execute runs the command line and always releases the converter, even when a subcommand fails.
func execute(args []string) error {
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	if session.adc != nil {
		if cerr := session.adc.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("failed to close: %w", cerr))
		}
		session.adc = nil
	}
	return err
}

func main() {
	if err := execute(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
