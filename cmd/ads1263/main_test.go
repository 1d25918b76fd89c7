package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yunginnanet/ads1263/pkg/ads1263"
)

// writeConfig drops a JSON config file into a temp dir and returns its path.
func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ads1263.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// resetFlags puts every flag back to its default, cobra keeps both value and Changed between runs.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	err := execute(args)
	if session.adc != nil {
		t.Errorf("converter left open after %v", args)
	}
	t.Logf("log output:\n%s", errOut.String())
	return out.String(), err
}

func TestCommandsE2E(t *testing.T) {
	cfgFile := writeConfig(t, `{}`)

	tests := []struct {
		name        string
		args        []string
		wantErr     error
		wantContain []string
	}{
		{
			name:        "read default channel",
			args:        []string{"read"},
			wantContain: []string{"ADC1 AIN0-AINCOM", "0  +0.0000000 V"},
		},
		{
			name: "read channels",
			args: []string{"read", "1", "2"},
			wantContain: []string{
				"ADC1 AIN1-AINCOM     67108864  +0.1562500 V",
				"ADC1 AIN2-AINCOM    134217728  +0.3125000 V",
			},
		},
		{
			name:        "read differential",
			args:        []string{"read", "--adc1-mode", "diff", "0"},
			wantContain: []string{"ADC1 AIN0-AIN1", "-33554432  -0.0781250 V"},
		},
		{
			name:        "scan",
			args:        []string{"scan"},
			wantContain: []string{"AIN0-AINCOM", "AIN9-AINCOM", "AINCOM-AINCOM"},
		},
		{
			name:        "adc2 channel",
			args:        []string{"adc2", "1"},
			wantContain: []string{"ADC2 AIN1-AINCOM", "262144  +0.1562500 V"},
		},
		{
			name:        "adc2 all",
			args:        []string{"adc2"},
			wantContain: []string{"ADC2 AIN0-AINCOM", "ADC2 AIN9-AINCOM"},
		},
		{
			name:        "adc2 crc without status",
			args:        []string{"adc2", "--check", "crc", "--status=false", "3"},
			wantContain: []string{"ADC2 AIN3-AINCOM", "786432"},
		},
		{
			name: "rtd",
			args: []string{"rtd"},
			wantContain: []string{
				"raw         58913345",
				"resistance  109.7347 ohm",
				"temperature 25.000 °C",
			},
		},
		{
			name:        "regs verify",
			args:        []string{"regs", "--verify"},
			wantContain: []string{"REGISTER", "ID        0x21   0x21", "registers match"},
		},
		{
			name:        "regs gain",
			args:        []string{"regs", "--adc1-gain", "4", "--adc1-rate", "1200"},
			wantContain: []string{"MODE2     0x29   0x29"},
		},
		{
			name:        "calibrate gain",
			args:        []string{"calibrate", "system-gain"},
			wantContain: []string{"OFCAL0", "FSCAL2    0x40"},
		},
		{
			name:        "calibrate adc2",
			args:        []string{"calibrate", "--adc", "2", "--channel", "0", "self-offset"},
			wantContain: []string{"ADC2OFC0", "ADC2FSC1"},
		},
		{
			name:    "unknown backend",
			args:    []string{"-b", "nope", "read"},
			wantErr: errors.New("unknown backend"),
		},
		{
			name:    "channel out of range",
			args:    []string{"read", "11"},
			wantErr: ads1263.ErrInvalidChannel,
		},
		{
			name:    "differential pair out of range",
			args:    []string{"read", "--adc1-mode", "diff", "5"},
			wantErr: ads1263.ErrInvalidChannel,
		},
		{
			name:    "bad channel",
			args:    []string{"read", "x"},
			wantErr: errors.New("bad channel"),
		},
		{
			name:    "bad rate",
			args:    []string{"read", "--adc1-rate", "123"},
			wantErr: errors.New("unknown ADC1 data rate"),
		},
		{
			name:        "bypass dropped with gain",
			args:        []string{"read", "--adc1-gain", "2", "--adc1-bypass", "1"},
			wantContain: []string{"ADC1 AIN1-AINCOM", "+0.0781250 V"},
		},
		{
			name:    "bad calibration",
			args:    []string{"calibrate", "full"},
			wantErr: errors.New("unknown calibration"),
		},
		{
			name:    "bad adc",
			args:    []string{"calibrate", "--adc", "3", "self-offset"},
			wantErr: errors.New("--adc must be 1 or 2"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--config-file", cfgFile, "--log-level", "debug"}, tt.args...)
			out, err := run(t, args...)

			if tt.wantErr != nil {
				switch {
				case err == nil:
					t.Fatalf("expected error %q, got none\nOutput: %s", tt.wantErr, out)
				case errors.Is(err, tt.wantErr):
				case !strings.Contains(err.Error(), tt.wantErr.Error()):
					t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v\nOutput: %s", err, out)
			}
			for _, want := range tt.wantContain {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q\nOutput:\n%s", want, out)
				}
			}
		})
	}
}

func newFlagSet(t *testing.T, cfgFile string, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("config-file", "", "")
	fs.String("adc1-rate", "", "")
	fs.String("adc1-filter", "", "")
	fs.Int("adc1-gain", 1, "")
	if err := fs.Parse(append([]string{"--config-file", cfgFile}, args...)); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}
	return fs
}

func TestConfigLayers(t *testing.T) {
	cfgFile := writeConfig(t, `{"adc1": {"filter": "sinc4", "rate": "60", "delay": "8.8ms"}, "check": "crc"}`)
	t.Setenv("ADS1263_ADC1_RATE", "20")
	t.Setenv("ADS1263_ADC2_RATE", "800")

	fs := newFlagSet(t, cfgFile, "--adc1-gain", "8")
	c, err := driverConfig(loadConfig(fs))
	if err != nil {
		t.Fatalf("driverConfig: %v", err)
	}

	t.Run("Default", func(t *testing.T) {
		if c.Reference != ads1263.RefAVDD || c.ReferenceVoltage != 5.0 {
			t.Errorf("reference = %v %gV, want AVDD 5V", c.Reference, c.ReferenceVoltage)
		}
		if !c.StatusByte {
			t.Error("status byte should default on")
		}
	})
	t.Run("File", func(t *testing.T) {
		if c.Filter != ads1263.FilterSinc4 {
			t.Errorf("filter = %v, want sinc4", c.Filter)
		}
		if c.Delay != ads1263.Delay8_8ms {
			t.Errorf("delay = %v, want 8.8ms", c.Delay)
		}
		if c.CheckMode != ads1263.CheckCRC {
			t.Errorf("check = %v, want CRC", c.CheckMode)
		}
	})
	t.Run("EnvOverFile", func(t *testing.T) {
		if c.DataRate != ads1263.Rate20SPS {
			t.Errorf("rate = %v, want 20 SPS", c.DataRate)
		}
		if c.ADC2DataRate != ads1263.Rate800SPS {
			t.Errorf("adc2 rate = %v, want 800 SPS", c.ADC2DataRate)
		}
	})
	t.Run("Flag", func(t *testing.T) {
		if c.Gain != ads1263.Gain8 {
			t.Errorf("gain = %v, want 8", c.Gain)
		}
		if c.PGABypass {
			t.Error("bypass must be dropped when gain is above 1")
		}
	})
	t.Run("FlagOverEnv", func(t *testing.T) {
		fs := newFlagSet(t, cfgFile, "--adc1-rate", "1200")
		c, err := driverConfig(loadConfig(fs))
		if err != nil {
			t.Fatalf("driverConfig: %v", err)
		}
		if c.DataRate != ads1263.Rate1200SPS {
			t.Errorf("rate = %v, want 1200 SPS", c.DataRate)
		}
	})
}

func TestRTDConfig(t *testing.T) {
	cfgFile := writeConfig(t, `{"rtd": {"current": "500uA", "settle": "50ms", "rref": "4000"}}`)
	rc, err := rtdConfig(loadConfig(newFlagSet(t, cfgFile)))
	if err != nil {
		t.Fatalf("rtdConfig: %v", err)
	}
	if rc.Current != ads1263.IDAC500uA {
		t.Errorf("current = %v, want 500uA", rc.Current)
	}
	if rc.Settle != ads1263.Settle50ms {
		t.Errorf("settle = %v, want 50ms", rc.Settle)
	}
	if rc.ReferenceResistor != 4000 {
		t.Errorf("rref = %g, want 4000", rc.ReferenceResistor)
	}
}

func TestLookup(t *testing.T) {
	t.Run("CaseInsensitive", func(t *testing.T) {
		f, err := lookup("filter", " FIR ", filters)
		if err != nil || f != ads1263.FilterFIR {
			t.Errorf("lookup(FIR) = %v, %v", f, err)
		}
	})
	t.Run("Unknown", func(t *testing.T) {
		_, err := lookup("filter", "sinc5", filters)
		if err == nil || !strings.Contains(err.Error(), "fir, sinc1, sinc2, sinc3, sinc4") {
			t.Errorf("expected sorted choices in error, got %v", err)
		}
	})
	t.Run("FractionalRate", func(t *testing.T) {
		r, err := lookup("rate", "2.5", rates)
		if err != nil || r != ads1263.Rate2_5SPS {
			t.Errorf("lookup(2.5) = %v, %v", r, err)
		}
	})
	t.Run("Duration", func(t *testing.T) {
		for in, want := range map[string]ads1263.Delay{
			"0s": ads1263.Delay0, "8.7us": ads1263.Delay8_7us, "35µs": ads1263.Delay35us, "69us": ads1263.Delay69us,
			"1.1ms": ads1263.Delay1_1ms,
		} {
			got, err := lookupDuration("delay", in, ads1263.Delay8_8ms, ads1263.Delay.Duration)
			if err != nil || got != want {
				t.Errorf("lookupDuration(%q) = %v, %v; want %v", in, got, err, want)
			}
		}
		if _, err := lookupDuration("delay", "36us", ads1263.Delay8_8ms, ads1263.Delay.Duration); err == nil {
			t.Error("expected unsupported delay error")
		}
		if _, err := lookupDuration("delay", "soon", ads1263.Delay8_8ms, ads1263.Delay.Duration); err == nil {
			t.Error("expected parse error")
		}
	})
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := newLogger(&buf, "warn")
	if err != nil {
		t.Fatal(err)
	}
	log.Info().Msg("quiet")
	log.Warn().Msg("loud")
	if out := buf.String(); strings.Contains(out, "quiet") || !strings.Contains(out, "loud") {
		t.Errorf("unexpected log output %q", out)
	}
	if _, err = newLogger(&buf, "chatty"); err == nil {
		t.Error("expected bad log level error")
	}
}

func TestLogsFollowCommandWriter(t *testing.T) {
	cfgFile := writeConfig(t, `{}`)
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	if err := execute([]string{"--config-file", cfgFile, "read"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(errOut.String(), "initialized") {
		t.Errorf("expected startup log on the error writer, got %q", errOut.String())
	}
	if strings.Contains(out.String(), "initialized") {
		t.Error("log lines leaked into command output")
	}
}
