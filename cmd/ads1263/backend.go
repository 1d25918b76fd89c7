package main

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/warthog618/config"
	"periph.io/x/conn/v3/physic"

	"github.com/yunginnanet/ads1263/pkg/ads1263"
	"github.com/yunginnanet/ads1263/pkg/adssim"
	"github.com/yunginnanet/ads1263/pkg/ft232h"
	"github.com/yunginnanet/ads1263/pkg/softspi"
	"github.com/yunginnanet/ads1263/pkg/spidev"
)

// simRTDCode is what a PT100 at 25°C reads through the default RTD wiring (2k reference).
const simRTDCode = 58913345

// newSim returns a simulator with a distinct code on every input so the output is recognisable.
func newSim() (*adssim.Device, error) {
	d := adssim.New()
	for ch := ads1263.CH_AIN0; ch <= ads1263.CH_AIN9; ch++ {
		if err := d.SetCode(ads1263.ADC1, ads1263.SingleEnded(ch), int32(ch)<<26); err != nil {
			return nil, err
		}
		if err := d.SetCode(ads1263.ADC2, ads1263.SingleEnded(ch), int32(ch)<<18); err != nil {
			return nil, err
		}
	}
	for n := ads1263.Channel(0); n <= 4; n++ {
		pair := ads1263.Differential(2*n, 2*n+1)
		if err := d.SetCode(ads1263.ADC1, pair, -int32(n+1)<<25); err != nil {
			return nil, err
		}
		if err := d.SetCode(ads1263.ADC2, pair, -int32(n+1)<<17); err != nil {
			return nil, err
		}
	}
	rtd := ads1263.DefaultRTDConfig().Input
	if err := d.SetCode(ads1263.ADC1, rtd, simRTDCode); err != nil {
		return nil, err
	}
	return d, nil
}

// openTransport builds the backend named by "backend". The choice is made once, here.
func openTransport(cfg *config.Config, log zerolog.Logger) (ads1263.Transport, error) {
	switch name := cfg.MustGet("backend").String(); name {
	case "sim":
		d, err := newSim()
		if err != nil {
			return nil, err
		}
		d.SetLogger(log)
		return d, nil

	case "spidev":
		t, err := spidev.Open(spidev.Config{
			Port:  cfg.MustGet("spidev.port").String(),
			Speed: physic.Frequency(cfg.MustGet("spidev.speed").Int()) * physic.Hertz,
			CS:    cfg.MustGet("spidev.cs").String(),
			DRDY:  cfg.MustGet("spidev.drdy").String(),
			Reset: cfg.MustGet("spidev.reset").String(),
		})
		if err != nil {
			return nil, err
		}
		t.SetLogger(log)
		return t, nil

	case "softspi":
		t, err := softspi.Open(softspi.Config{
			Chip:  cfg.MustGet("softspi.chip").String(),
			Tclk:  cfg.MustGet("softspi.tclk").Duration(),
			Sclk:  cfg.MustGet("softspi.sclk").Int(),
			Mosi:  cfg.MustGet("softspi.mosi").Int(),
			Miso:  cfg.MustGet("softspi.miso").Int(),
			CS:    cfg.MustGet("softspi.cs").Int(),
			DRDY:  cfg.MustGet("softspi.drdy").Int(),
			Reset: cfg.MustGet("softspi.reset").Int(),
		})
		if err != nil {
			return nil, err
		}
		t.SetLogger(log)
		return t, nil

	case "ft232h":
		desc := ft232h.ByIndex(cfg.MustGet("ft232h.index").Int())
		if serial := cfg.MustGet("ft232h.serial").String(); serial != "" {
			desc = ft232h.BySerial(serial)
		}
		ft, err := ft232h.ConnectFT232h(desc)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to FT232H: %w", err)
		}
		log.Info().Any("info", ft.Info()).Msgf("connected to FT232H: %s", ft)
		t, err := ft232h.Open(ft, ft232h.Pins{
			CS:    uint(cfg.MustGet("ft232h.cs").Int()),
			DRDY:  uint(cfg.MustGet("ft232h.drdy").Int()),
			Reset: uint(cfg.MustGet("ft232h.reset").Int()),
		})
		if err != nil {
			return nil, errors.Join(err, ft.Close())
		}
		t.SetLogger(log)
		return t, nil

	default:
		return nil, fmt.Errorf("unknown backend %q (one of sim, spidev, softspi, ft232h)", name)
	}
}
