package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitude of the one-sided FFT of data,
// zero-padded to the next power of two. Bin i corresponds to
// i / (len(padded)·Ts) Hz.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}

	n := nextPow2(len(data))
	padded := make([]float64, n)
	copy(padded, data)

	spectrum := fft.FFTReal(padded)
	ps := make([]float64, n/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency returns the frequency in Hz of the strongest non-DC
// bin of data sampled every ts seconds, and its magnitude. The mean is
// removed first so a constant offset never wins.
func DominantFrequency(data []float64, ts float64) (freq, power float64) {
	if len(data) < 2 || ts <= 0 {
		return 0, 0
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	ps := PowerSpectrum(centered)
	n := nextPow2(len(data))

	best := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > power {
			power = ps[i]
			best = i
		}
	}
	return float64(best) / (float64(n) * ts), power
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
