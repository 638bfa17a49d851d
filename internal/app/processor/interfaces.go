package processor

import (
	"context"
	"io"

	"kokorotts/pkg/artifacts"
	"kokorotts/pkg/synth"
)

// Synthesizer turns text into a finished waveform.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string) (*synth.Waveform, error)
}

// ArtifactStore defines the lifecycle manager operations used by the service.
type ArtifactStore interface {
	Create(ctx context.Context, samples []float32, sampleRate int, text, voice string) (string, error)
	Get(id string) (artifacts.Location, error)
	GetMetadataForDownload(id string) (artifacts.Metadata, error)
	Read(ctx context.Context, loc artifacts.Location) (io.ReadCloser, error)
}
