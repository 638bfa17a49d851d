package synth_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"kokorotts/pkg/synth"

	"github.com/stretchr/testify/require"
)

type stubEngine struct {
	initCalls atomic.Int32
	initDelay time.Duration
	initErr   error

	generate func(text, voice string) ([]synth.Segment, error)
}

func (e *stubEngine) Init(context.Context) error {
	e.initCalls.Add(1)
	time.Sleep(e.initDelay)

	return e.initErr
}

func (e *stubEngine) Generate(_ context.Context, text, voice string) ([]synth.Segment, error) {
	return e.generate(text, voice)
}

func logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func segments(text, voice string) ([]synth.Segment, error) {
	return []synth.Segment{
		{Graphemes: "Hello", Phonemes: "həlˈO", Samples: []float32{0.1, 0.2, 0.3}},
		{Graphemes: "world", Phonemes: "wˈɜɹld", Samples: []float32{-0.1}},
		{Graphemes: "!", Samples: []float32{}},
		{Graphemes: "again", Samples: []float32{0.5, 0.6}},
	}, nil
}

func TestSynthesizeConcatenatesInOrder(t *testing.T) {
	s := synth.New(logger(), &stubEngine{generate: segments}, 0)

	wf, err := s.Synthesize(context.Background(), "Hello world", "af_heart")
	require.NoError(t, err)

	require.Equal(t, synth.SampleRate, wf.SampleRate)
	require.Equal(t, []float32{0.1, 0.2, 0.3, -0.1, 0.5, 0.6}, wf.Samples)
}

func TestSynthesizeDeterministic(t *testing.T) {
	s := synth.New(logger(), &stubEngine{generate: segments}, 0)

	a, err := s.Synthesize(context.Background(), "Hello world", "af_heart")
	require.NoError(t, err)

	b, err := s.Synthesize(context.Background(), "Hello world", "af_heart")
	require.NoError(t, err)

	require.Equal(t, a, b)
}

func TestSynthesizeNoSegments(t *testing.T) {
	s := synth.New(logger(), &stubEngine{generate: func(string, string) ([]synth.Segment, error) {
		return nil, nil
	}}, 0)

	_, err := s.Synthesize(context.Background(), "Hello", "af_heart")
	require.ErrorIs(t, err, synth.ErrSynthesisFailed)
}

func TestSynthesizeEmptyText(t *testing.T) {
	engine := &stubEngine{generate: segments}
	s := synth.New(logger(), engine, 0)

	_, err := s.Synthesize(context.Background(), "", "af_heart")
	require.ErrorIs(t, err, synth.ErrSynthesisFailed)
	require.Zero(t, engine.initCalls.Load())
}

func TestSynthesisFailureIsNotSticky(t *testing.T) {
	fail := atomic.Bool{}
	fail.Store(true)

	s := synth.New(logger(), &stubEngine{generate: func(text, voice string) ([]synth.Segment, error) {
		if fail.Load() {
			return nil, errors.New("cuda oom")
		}

		return segments(text, voice)
	}}, 0)

	_, err := s.Synthesize(context.Background(), "Hello", "af_heart")
	require.ErrorIs(t, err, synth.ErrSynthesisFailed)
	require.ErrorContains(t, err, "cuda oom")

	fail.Store(false)

	_, err = s.Synthesize(context.Background(), "Hello", "af_heart")
	require.NoError(t, err)
}

func TestInitFailureIsSticky(t *testing.T) {
	generated := atomic.Int32{}

	engine := &stubEngine{
		initErr: errors.New("model not found"),
		generate: func(text, voice string) ([]synth.Segment, error) {
			generated.Add(1)
			return segments(text, voice)
		},
	}
	s := synth.New(logger(), engine, 0)

	for i := 0; i < 3; i++ {
		_, err := s.Synthesize(context.Background(), "Hello", "af_heart")
		require.ErrorIs(t, err, synth.ErrEngineInitFailed)
		require.ErrorContains(t, err, "model not found")
	}

	require.EqualValues(t, 1, engine.initCalls.Load())
	require.Zero(t, generated.Load())
}

func TestInitRunsOnceUnderRace(t *testing.T) {
	engine := &stubEngine{initDelay: 20 * time.Millisecond, generate: segments}
	s := synth.New(logger(), engine, 0)

	wg := sync.WaitGroup{}
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := s.Synthesize(context.Background(), "Hello", "af_heart")
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	require.EqualValues(t, 1, engine.initCalls.Load())
}

func TestInitSurvivesCancelledCaller(t *testing.T) {
	engine := &ctxEngine{}
	s := synth.New(logger(), engine, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, s.Init(ctx))
}

type ctxEngine struct{}

func (ctxEngine) Init(ctx context.Context) error {
	return ctx.Err()
}

func (ctxEngine) Generate(context.Context, string, string) ([]synth.Segment, error) {
	return nil, nil
}

func TestWaveformDuration(t *testing.T) {
	wf := &synth.Waveform{Samples: make([]float32, synth.SampleRate*3/2), SampleRate: synth.SampleRate}
	require.Equal(t, 1500*time.Millisecond, wf.Duration())

	require.Zero(t, (&synth.Waveform{}).Duration())
}
