package main

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/warthog618/config"
	"github.com/warthog618/config/blob"
	"github.com/warthog618/config/blob/decoder/json"
	"github.com/warthog618/config/dict"
	"github.com/warthog618/config/env"

	"github.com/yunginnanet/ads1263/pkg/ads1263"
)

var defaultConfig = map[string]interface{}{
	"backend":   "sim",
	"log.level": "info",

	"adc1.rate":      "400",
	"adc1.gain":      1,
	"adc1.filter":    "fir",
	"adc1.delay":     "35us",
	"adc1.reference": "avdd",
	"adc1.vref":      "5.0",
	"adc1.bypass":    true,
	"adc1.mode":      "single",

	"adc2.rate":      "100",
	"adc2.gain":      1,
	"adc2.reference": "avdd",
	"adc2.vref":      "0",
	"adc2.mode":      "single",

	"check":  "checksum",
	"status": true,

	"rtd.rref":    "2000",
	"rtd.current": "250uA",
	"rtd.settle":  "10ms",

	"spidev.port":  "",
	"spidev.speed": 2000000,
	"spidev.cs":    "GPIO22",
	"spidev.drdy":  "GPIO17",
	"spidev.reset": "GPIO18",

	"softspi.chip":  "gpiochip0",
	"softspi.tclk":  "1us",
	"softspi.sclk":  11,
	"softspi.mosi":  10,
	"softspi.miso":  9,
	"softspi.cs":    22,
	"softspi.drdy":  17,
	"softspi.reset": 18,

	"ft232h.index":  0,
	"ft232h.serial": "",
	"ft232h.cs":     0x10,
	"ft232h.drdy":   0x01,
	"ft232h.reset":  0x40,
}

// flagGetter exposes the cobra flags the user actually set, so they take precedence
// over the environment and the config file. Key "adc1.rate" is flag "adc1-rate".
type flagGetter struct {
	fs *pflag.FlagSet
}

func (g flagGetter) Get(key string) (interface{}, bool) {
	f := g.fs.Lookup(strings.ReplaceAll(key, ".", "-"))
	if f == nil || !f.Changed {
		return nil, false
	}
	return f.Value.String(), true
}

func loadConfig(fs *pflag.FlagSet) *config.Config {
	def := dict.New(dict.WithMap(defaultConfig))
	cfg := config.New(
		flagGetter{fs: fs},
		env.New(env.WithEnvPrefix("ADS1263_")),
		config.WithDefault(def))
	cfg.Append(
		blob.NewConfigFile(cfg, "config.file", "ads1263.json", json.NewDecoder()))
	return cfg.GetConfig("", config.WithMust)
}

func lookup[T comparable](kind, s string, table map[string]T) (T, error) {
	v, ok := table[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		var zero T
		names := slices.Sorted(maps.Keys(table))
		return zero, fmt.Errorf("unknown %s %q (one of %s)", kind, s, strings.Join(names, ", "))
	}
	return v, nil
}

var (
	filters = map[string]ads1263.Filter{
		"sinc1": ads1263.FilterSinc1, "sinc2": ads1263.FilterSinc2, "sinc3": ads1263.FilterSinc3,
		"sinc4": ads1263.FilterSinc4, "fir": ads1263.FilterFIR,
	}
	references = map[string]ads1263.Reference{
		"internal": ads1263.RefInternal2_5V, "ain01": ads1263.RefExternalAIN01,
		"ain23": ads1263.RefExternalAIN23, "ain45": ads1263.RefExternalAIN45, "avdd": ads1263.RefAVDD,
	}
	modes = map[string]ads1263.InputMode{
		"single": ads1263.SingleEndedMode, "diff": ads1263.DifferentialMode,
		"differential": ads1263.DifferentialMode,
	}
	checkModes = map[string]ads1263.CheckMode{
		"off": ads1263.CheckOff, "checksum": ads1263.CheckChecksum, "crc": ads1263.CheckCRC, "crc8": ads1263.CheckCRC,
	}
	currents = map[string]ads1263.IDACCurrent{
		"50ua": ads1263.IDAC50uA, "100ua": ads1263.IDAC100uA, "250ua": ads1263.IDAC250uA,
		"500ua": ads1263.IDAC500uA, "750ua": ads1263.IDAC750uA, "1000ua": ads1263.IDAC1000uA,
		"1500ua": ads1263.IDAC1500uA, "2000ua": ads1263.IDAC2000uA, "2500ua": ads1263.IDAC2500uA,
		"3000ua": ads1263.IDAC3000uA,
	}
	rates = map[string]ads1263.DataRate{}
)

func init() {
	for r := ads1263.Rate2_5SPS; r <= ads1263.Rate38400SPS; r++ {
		rates[strings.TrimSuffix(r.String(), " SPS")] = r
	}
}

// lookupDuration matches a duration string against the durations of a preset list.
func lookupDuration[T ~uint8](kind, s string, last T, dur func(T) time.Duration) (T, error) {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("bad %s %q: %w", kind, s, err)
	}
	for v := T(0); v <= last; v++ {
		if dur(v) == d {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unsupported %s %s", kind, d)
}

// driverConfig resolves the ADC and framing keys into an [ads1263.Config].
func driverConfig(cfg *config.Config) (c ads1263.Config, err error) {
	c = ads1263.DefaultConfig()

	if c.DataRate, err = lookup("ADC1 data rate", cfg.MustGet("adc1.rate").String(), rates); err != nil {
		return c, err
	}
	if c.Filter, err = lookup("filter", cfg.MustGet("adc1.filter").String(), filters); err != nil {
		return c, err
	}
	if c.Delay, err = lookupDuration("delay", cfg.MustGet("adc1.delay").String(), ads1263.Delay8_8ms, ads1263.Delay.Duration); err != nil {
		return c, err
	}
	if c.Reference, err = lookup("reference", cfg.MustGet("adc1.reference").String(), references); err != nil {
		return c, err
	}
	if c.Mode, err = lookup("input mode", cfg.MustGet("adc1.mode").String(), modes); err != nil {
		return c, err
	}
	if c.ADC2DataRate, err = lookup("ADC2 data rate", cfg.MustGet("adc2.rate").String(), rates); err != nil {
		return c, err
	}
	if c.ADC2Reference, err = lookup("reference", cfg.MustGet("adc2.reference").String(), references); err != nil {
		return c, err
	}
	if c.ADC2Mode, err = lookup("input mode", cfg.MustGet("adc2.mode").String(), modes); err != nil {
		return c, err
	}
	if c.CheckMode, err = lookup("check mode", cfg.MustGet("check").String(), checkModes); err != nil {
		return c, err
	}

	c.Gain = ads1263.Gain(cfg.MustGet("adc1.gain").Int())
	c.ADC2Gain = ads1263.Gain(cfg.MustGet("adc2.gain").Int())
	c.ReferenceVoltage = cfg.MustGet("adc1.vref").Float()
	c.ADC2ReferenceVoltage = cfg.MustGet("adc2.vref").Float()
	c.PGABypass = cfg.MustGet("adc1.bypass").Bool() && c.Gain == ads1263.Gain1
	c.StatusByte = cfg.MustGet("status").Bool()
	return c, nil
}

// rtdConfig resolves the rtd keys over the default wiring.
func rtdConfig(cfg *config.Config) (ads1263.RTDConfig, error) {
	c := ads1263.DefaultRTDConfig()
	var err error
	if c.Current, err = lookup("excitation current", cfg.MustGet("rtd.current").String(), currents); err != nil {
		return c, err
	}
	if c.Settle, err = lookupDuration("settle delay", cfg.MustGet("rtd.settle").String(), ads1263.Settle100ms, ads1263.SettleDelay.Duration); err != nil {
		return c, err
	}
	c.ReferenceResistor = cfg.MustGet("rtd.rref").Float()
	return c, nil
}
