package ads1263

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// ADS1263 provides high-level control over a TI ADS1263 (or ADS1262) ADC.
//
// It talks to the converter through a [Transport] and keeps an explicit [DeviceState]
// mirroring every register it has written. An ADS1263 is not safe for concurrent use:
// it owns the bus, and callers sharing it across goroutines must serialize access themselves.
type ADS1263 struct {
	t      Transport
	log    zerolog.Logger
	state  DeviceState
	device uint8
}

// Config represents user-level configuration parameters applied by [ADS1263.Initialize].
type Config struct {
	DataRate         DataRate  // ADC1 rate, one of Rate2_5SPS ... Rate38400SPS except Rate800SPS
	Gain             Gain      // ADC1 gain, 1 through 64
	Filter           Filter    // ADC1 digital filter
	Delay            Delay     // ADC1 conversion start delay
	Reference        Reference // ADC1 reference pair
	ReferenceVoltage float64   // Volts across the ADC1 reference
	PGABypass        bool      // Bypass the ADC1 PGA (gain must be 1)
	Mode             InputMode // How GetChannelValue interprets channel numbers

	ADC2DataRate         DataRate // 10, 100, 400 or 800 SPS
	ADC2Gain             Gain     // 1 through 128
	ADC2Reference        Reference
	ADC2ReferenceVoltage float64 // Zero means same as ReferenceVoltage
	ADC2Mode             InputMode

	CheckMode  CheckMode // Integrity byte appended to conversion data
	StatusByte bool      // Prepend the STATUS byte to conversion data
}

// DefaultConfig provides default config. You can adjust as needed
func DefaultConfig() Config {
	return Config{
		DataRate:         Rate400SPS,
		Gain:             Gain1,
		Filter:           FilterFIR,
		Delay:            Delay35us,
		Reference:        RefAVDD,
		ReferenceVoltage: 5.0,
		PGABypass:        true,
		Mode:             SingleEndedMode,

		ADC2DataRate:  Rate100SPS,
		ADC2Gain:      Gain1,
		ADC2Reference: RefAVDD,
		ADC2Mode:      SingleEndedMode,

		CheckMode:  CheckChecksum,
		StatusByte: true,
	}
}

// NewADS1263 constructs an ADS1263 object with the given Transport.
// The mirror starts at the datasheet power-on values.
func NewADS1263(t Transport) *ADS1263 {
	return &ADS1263{
		t:      t,
		log:    zerolog.Nop(),
		state:  newDeviceState(),
		device: DeviceADS1263,
	}
}

// SetLogger sets the logger used for debug events.
func (adc *ADS1263) SetLogger(l zerolog.Logger) {
	adc.log = l.With().Str("driver", "ads1263").Logger()
}

// State returns a copy of the current configuration state.
func (adc *ADS1263) State() DeviceState {
	return adc.state
}

// Device returns the device id read by [ADS1263.ReadChipID] ([DeviceADS1262] or [DeviceADS1263]).
func (adc *ADS1263) Device() uint8 {
	return adc.device
}

func (adc *ADS1263) checkADC(a ADC) error {
	if !a.valid() {
		return fmt.Errorf("%w: unknown converter %d", ErrInvalidConfiguration, uint8(a))
	}
	if a == ADC2 && adc.device == DeviceADS1262 {
		return fmt.Errorf("%w: ADS1262 has no ADC2", ErrInvalidConfiguration)
	}
	return nil
}

// Initialize resets the device, checks its identity, and applies cfg through the ordinary setters.
// Call it once at start-up.
func (adc *ADS1263) Initialize(cfg Config) error {
	if err := adc.Reset(); err != nil {
		return err
	}

	id, err := adc.ReadChipID()
	if err != nil {
		return err
	}
	adc.log.Info().Uint8("id", id).Msg("chip id verified")

	if err = adc.Stop(ADC1); err != nil {
		return err
	}
	if err = adc.SetCheckMode(cfg.CheckMode, cfg.StatusByte); err != nil {
		return err
	}
	if err = adc.SetReference(ADC1, cfg.Reference); err != nil {
		return err
	}
	if err = adc.SetDelay(cfg.Delay); err != nil {
		return err
	}
	if err = adc.SetFilter(ADC1, cfg.Filter); err != nil {
		return err
	}
	if err = adc.SetGain(ADC1, cfg.Gain); err != nil {
		return err
	}
	if err = adc.SetPGABypass(cfg.PGABypass); err != nil {
		return err
	}
	if err = adc.SetDataRate(ADC1, cfg.DataRate); err != nil {
		return err
	}
	if err = adc.SetMode(ADC1, cfg.Mode); err != nil {
		return err
	}
	if cfg.ReferenceVoltage > 0 {
		if err = adc.SetReferenceVoltage(ADC1, cfg.ReferenceVoltage); err != nil {
			return err
		}
	}

	if adc.device == DeviceADS1262 {
		adc.log.Info().Stringer("rate", cfg.DataRate).Msg("ADC1 initialized")
		return nil
	}

	if err = adc.Stop(ADC2); err != nil {
		return err
	}
	if err = adc.SetDataRate(ADC2, cfg.ADC2DataRate); err != nil {
		return err
	}
	if err = adc.SetGain(ADC2, cfg.ADC2Gain); err != nil {
		return err
	}
	if err = adc.SetReference(ADC2, cfg.ADC2Reference); err != nil {
		return err
	}
	if err = adc.SetMode(ADC2, cfg.ADC2Mode); err != nil {
		return err
	}
	vref2 := cfg.ADC2ReferenceVoltage
	if vref2 == 0 {
		vref2 = cfg.ReferenceVoltage
	}
	if vref2 > 0 {
		if err = adc.SetReferenceVoltage(ADC2, vref2); err != nil {
			return err
		}
	}

	adc.log.Info().
		Stringer("rate", cfg.DataRate).
		Stringer("adc2_rate", cfg.ADC2DataRate).
		Msg("ADC1 and ADC2 initialized")
	return nil
}

// Reset pulses the reset line and returns the mirror to the power-on values.
func (adc *ADS1263) Reset() error {
	adc.log.Debug().Msg("performing hardware reset")
	if err := adc.t.PulseReset(); err != nil {
		return transportErr("reset", err)
	}
	adc.state.reset()
	return nil
}

// ReadChipID reads the ID register and returns the device id (bits 7-5).
// It fails with [ErrUnsupportedDevice] unless the part is an ADS1262 or ADS1263.
func (adc *ADS1263) ReadChipID() (uint8, error) {
	id, err := adc.readRegister(RegID)
	if err != nil {
		return 0, err
	}
	dev := id >> 5
	if dev != DeviceADS1262 && dev != DeviceADS1263 {
		return dev, fmt.Errorf("%w: id register 0x%02X", ErrUnsupportedDevice, id)
	}
	adc.device = dev
	adc.state.regs[RegID] = id
	return dev, nil
}

// Close stops both converters and asks the transport for its idle state (reset low, chip-select high).
func (adc *ADS1263) Close() error {
	err := adc.sendCommand(CMDSTOP1)
	if adc.device == DeviceADS1263 {
		err = errors.Join(err, adc.sendCommand(CMDSTOP2))
	}
	return errors.Join(err, transportErr("close", adc.t.Close()))
}

// delay waits on the transport's clock.
func (adc *ADS1263) delay(d time.Duration) {
	if d > 0 {
		adc.t.Delay(d)
	}
}
