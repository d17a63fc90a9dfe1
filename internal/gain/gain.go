// Package gain normalizes a resampled speech signal and applies short
// boundary fades so concatenated clips do not click.
package gain

const (
	// PeakCeiling is the maximum peak amplitude any clip may reach
	// after gain is applied. The ceiling leaves headroom for clips
	// that are mixed with music or effects downstream.
	PeakCeiling = 0.6

	// fadeDuration is the ramp length at each clip boundary, in seconds.
	fadeDuration = 0.005

	// maxFadeSamples caps the ramp regardless of sample rate.
	maxFadeSamples = 120
)

// Plan holds the scalar gain and fade ramp length computed once per clip.
type Plan struct {
	Gain        float64
	FadeSamples int
}

// ComputePlan derives the gain for a clip with the observed peak and the
// caller's volume multiplier. The multiplier is honored as long as the
// resulting peak stays at or below PeakCeiling; past that, the gain is
// recomputed so the output peak lands exactly on the ceiling. A silent
// clip (peak == 0) keeps the multiplier as-is and stays silent.
func ComputePlan(peak, volume float64, sampleRate int) Plan {
	gain := volume
	if peak > 0 && peak*volume > PeakCeiling {
		gain = PeakCeiling / peak
	}

	fade := int(float64(sampleRate) * fadeDuration)
	if fade > maxFadeSamples {
		fade = maxFadeSamples
	}

	return Plan{Gain: gain, FadeSamples: fade}
}

// Apply scales samples in place by the plan's gain and applies a linear
// fade-in over the first FadeSamples and a symmetric fade-out over the
// last FadeSamples.
func Apply(samples []float64, plan Plan) {
	n := len(samples)
	for i := range samples {
		s := samples[i] * plan.Gain

		if plan.FadeSamples > 0 {
			if i < plan.FadeSamples {
				s *= float64(i) / float64(plan.FadeSamples)
			}
			if tail := n - 1 - i; tail < plan.FadeSamples {
				s *= float64(tail) / float64(plan.FadeSamples)
			}
		}

		samples[i] = s
	}
}
