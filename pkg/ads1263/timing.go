package ads1263

import "time"

// readyBudget is the longest wait for a settled conversion after START, per data rate.
//
// Each entry covers the first-conversion latency of the slowest filter at that rate
// (sinc4: five data periods, FIR at 2.5-20 SPS) plus 20% and a 2 ms floor for bus and
// scheduler overhead. The MODE0 conversion delay is added on top, see ConversionBudget.
var readyBudget = map[ADC]map[DataRate]time.Duration{
	ADC1: {
		Rate2_5SPS:   2400 * time.Millisecond,
		Rate5SPS:     1200 * time.Millisecond,
		Rate10SPS:    600 * time.Millisecond,
		Rate16_6SPS:  365 * time.Millisecond,
		Rate20SPS:    300 * time.Millisecond,
		Rate50SPS:    122 * time.Millisecond,
		Rate60SPS:    102 * time.Millisecond,
		Rate100SPS:   62 * time.Millisecond,
		Rate400SPS:   17 * time.Millisecond,
		Rate1200SPS:  7 * time.Millisecond,
		Rate2400SPS:  5 * time.Millisecond,
		Rate4800SPS:  4 * time.Millisecond,
		Rate7200SPS:  3 * time.Millisecond,
		Rate14400SPS: 3 * time.Millisecond,
		Rate19200SPS: 3 * time.Millisecond,
		Rate38400SPS: 3 * time.Millisecond,
	},
	// ADC2 is a fixed sinc3: three data periods.
	ADC2: {
		Rate10SPS:  362 * time.Millisecond,
		Rate100SPS: 38 * time.Millisecond,
		Rate400SPS: 11 * time.Millisecond,
		Rate800SPS: 7 * time.Millisecond,
	},
}

// ConversionBudget returns the ready-line timeout for one conversion of adc at rate with
// the given start delay. Unsupported rates get the slowest budget of that ADC.
func ConversionBudget(adc ADC, rate DataRate, delay Delay) time.Duration {
	budget, ok := readyBudget[adc][rate]
	if !ok {
		for _, b := range readyBudget[adc] {
			budget = max(budget, b)
		}
	}
	return budget + delay.Duration()
}

// calibrationConversions is how many conversion periods a calibration command averages over.
const calibrationConversions = 16

// calibrationBudget bounds a calibration command at the configured rate.
func calibrationBudget(adc ADC, rate DataRate, delay Delay) time.Duration {
	return calibrationConversions * ConversionBudget(adc, rate, delay)
}

// adc2PollInterval is the spacing of STATUS polls while waiting for ADC2 (which has no ready line).
const adc2PollInterval = time.Millisecond
