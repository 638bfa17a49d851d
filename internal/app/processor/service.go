package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"kokorotts/pkg/artifacts"
)

var ErrEmptyText = errors.New("empty text")

const DefaultVoice = "af_heart"

type Config struct {
	DefaultVoice string   `yaml:"default_voice" env:"DEFAULT_VOICE"`
	Voices       []string `yaml:"voices" env:"VOICES" envSeparator:","`
}

type Service struct {
	cfg *Config

	logger    *slog.Logger
	synth     Synthesizer
	artifacts ArtifactStore

	now func() time.Time
}

func NewService(cfg *Config, logger *slog.Logger, synthesizer Synthesizer, store ArtifactStore) *Service {
	return &Service{
		cfg:       cfg,
		logger:    logger,
		synth:     synthesizer,
		artifacts: store,
		now:       time.Now,
	}
}

// Generate validates input, synthesizes it and stores the result. Empty text
// is rejected before the engine or storage are touched.
func (s *Service) Generate(ctx context.Context, text, voice string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyText
	}

	voice = strings.TrimSpace(voice)
	if voice == "" {
		voice = s.defaultVoice()
	}

	s.logger.Info("generating audio", "voice", voice, "text_len", len(text))

	wf, err := s.synth.Synthesize(ctx, text, voice)
	if err != nil {
		return "", err
	}

	id, err := s.artifacts.Create(ctx, wf.Samples, wf.SampleRate, text, voice)
	if err != nil {
		return "", err
	}

	s.logger.Info("audio generated", "id", id, "duration", wf.Duration())

	return id, nil
}

// Fetch returns the artifact bytes, encoded as artifacts.ContentType.
func (s *Service) Fetch(ctx context.Context, id string) (io.ReadCloser, error) {
	loc, err := s.artifacts.Get(id)
	if err != nil {
		return nil, err
	}

	return s.artifacts.Read(ctx, loc)
}

type Download struct {
	Body     io.ReadCloser
	Filename string
}

func (s *Service) Download(ctx context.Context, id string) (*Download, error) {
	meta, err := s.artifacts.GetMetadataForDownload(id)
	if err != nil {
		return nil, err
	}

	body, err := s.artifacts.Read(ctx, meta.Location)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", id, err)
	}

	return &Download{
		Body:     body,
		Filename: meta.Filename(),
	}, nil
}

type Health struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *Service) Health() Health {
	return Health{
		Status:    "healthy",
		Timestamp: s.now(),
	}
}

type Voices struct {
	Default string   `json:"default"`
	Voices  []string `json:"voices"`
}

func (s *Service) Voices() Voices {
	voices := slices.Clone(s.cfg.Voices)
	def := s.defaultVoice()

	if !slices.Contains(voices, def) {
		voices = append([]string{def}, voices...)
	}

	return Voices{
		Default: def,
		Voices:  voices,
	}
}

func (s *Service) defaultVoice() string {
	if s.cfg.DefaultVoice != "" {
		return s.cfg.DefaultVoice
	}

	return DefaultVoice
}

// IsNotFound reports lookup misses, which are a normal outcome for unknown or expired ids.
func IsNotFound(err error) bool {
	return errors.Is(err, artifacts.ErrNotFound)
}
