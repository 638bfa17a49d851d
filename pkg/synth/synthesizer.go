package synth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

var (
	ErrEngineInitFailed = errors.New("engine init failed")
	ErrSynthesisFailed  = errors.New("synthesis failed")
)

type Synthesizer struct {
	logger *slog.Logger
	engine Engine

	initTimeout time.Duration

	initOnce sync.Once
	initErr  error
}

func New(logger *slog.Logger, engine Engine, initTimeout time.Duration) *Synthesizer {
	return &Synthesizer{
		logger:      logger,
		engine:      engine,
		initTimeout: initTimeout,
	}
}

// Init loads the engine once. Concurrent callers block until the first attempt
// finishes, and a failed attempt is remembered for the process lifetime.
func (s *Synthesizer) Init(ctx context.Context) error {
	s.initOnce.Do(func() {
		// a cancelled request must not poison the engine for everyone else
		ctx := context.WithoutCancel(ctx)
		if s.initTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.initTimeout)
			defer cancel()
		}

		s.logger.Info("initializing synthesis engine")
		start := time.Now()

		if err := s.engine.Init(ctx); err != nil {
			metrics.Errors.WithLabelValues("init").Inc()
			s.logger.Error("failed to initialize synthesis engine", "err", err)
			s.initErr = fmt.Errorf("%w: %w", ErrEngineInitFailed, err)

			return
		}

		metrics.InitSeconds.Set(time.Since(start).Seconds())
		s.logger.Info("synthesis engine initialized", "took", time.Since(start))
	})

	return s.initErr
}

func (s *Synthesizer) Synthesize(ctx context.Context, text, voice string) (*Waveform, error) {
	if len(text) == 0 {
		return nil, fmt.Errorf("%w: empty text", ErrSynthesisFailed)
	}

	if err := s.Init(ctx); err != nil {
		return nil, err
	}

	start := time.Now()

	segments, err := s.engine.Generate(ctx, text, voice)
	if err != nil {
		metrics.Errors.WithLabelValues("generate").Inc()
		return nil, fmt.Errorf("%w: %w", ErrSynthesisFailed, err)
	}

	if len(segments) == 0 {
		metrics.Errors.WithLabelValues("empty").Inc()
		return nil, fmt.Errorf("%w: engine returned no segments", ErrSynthesisFailed)
	}

	for i, seg := range segments {
		s.logger.Debug("generated segment", "i", i, "graphemes", seg.Graphemes, "phonemes", seg.Phonemes, "samples", len(seg.Samples))
	}

	wf := Concat(segments)

	metrics.RequestSeconds.Observe(time.Since(start).Seconds())
	metrics.AudioSeconds.Observe(wf.Duration().Seconds())

	return wf, nil
}
