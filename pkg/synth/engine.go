package synth

import (
	"context"
	"time"
)

// SampleRate is the native output rate of the Kokoro engine.
const SampleRate = 24000

// Segment is one chunk emitted by the engine while it walks the input text.
type Segment struct {
	Graphemes string
	Phonemes  string
	Samples   []float32
}

// Engine is the external synthesis collaborator.
// Init loads the model and is called at most once per Synthesizer.
type Engine interface {
	Init(ctx context.Context) error
	Generate(ctx context.Context, text, voice string) ([]Segment, error)
}

type Waveform struct {
	Samples    []float32
	SampleRate int
}

func (w *Waveform) Duration() time.Duration {
	if w.SampleRate <= 0 {
		return 0
	}

	return time.Duration(len(w.Samples)) * time.Second / time.Duration(w.SampleRate)
}

// Concat joins segment samples in emission order into one buffer.
func Concat(segments []Segment) *Waveform {
	total := 0
	for _, seg := range segments {
		total += len(seg.Samples)
	}

	samples := make([]float32, 0, total)
	for _, seg := range segments {
		samples = append(samples, seg.Samples...)
	}

	return &Waveform{
		Samples:    samples,
		SampleRate: SampleRate,
	}
}
