package artifacts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultTTL             = time.Hour
	DefaultReclaimInterval = 30 * time.Minute

	filePrefix = "tts_"
	fileExt    = ".wav"
)

type Config struct {
	Backend         string        `yaml:"backend" env:"STORAGE_BACKEND"`
	TempDir         string        `yaml:"temp_dir" env:"TEMP_DIR"`
	TTL             time.Duration `yaml:"ttl" env:"ARTIFACT_TTL"`
	ReclaimInterval time.Duration `yaml:"reclaim_interval" env:"RECLAIM_INTERVAL"`
}

const (
	BackendFS = "fs"
	BackendS3 = "s3"
)

type Option func(*Manager)

// WithClock replaces time.Now, used for TTL checks and CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// Manager owns every tracked artifact. The index is only touched under lock,
// store I/O always happens outside of it.
type Manager struct {
	logger *slog.Logger
	store  Store
	ttl    time.Duration
	now    func() time.Time

	lock    sync.Mutex
	records map[string]*Record
}

func NewManager(logger *slog.Logger, store Store, ttl time.Duration, opts ...Option) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	m := &Manager{
		logger:  logger,
		store:   store,
		ttl:     ttl,
		now:     time.Now,
		records: make(map[string]*Record, 16),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Create stores the waveform and publishes a new record. The record becomes
// visible only after its bytes are fully written. Expired records are reclaimed
// before Create returns.
func (m *Manager) Create(ctx context.Context, samples []float32, sampleRate int, text, voice string) (string, error) {
	if len(samples) == 0 {
		return "", ErrEmptyWaveform
	}

	loc, size, err := m.store.Put(ctx, filePrefix+uuid.NewString()+fileExt, func(w io.WriteSeeker) error {
		return EncodeWAV(w, samples, sampleRate)
	})
	if err != nil {
		metrics.CreateErrors.Inc()
		return "", fmt.Errorf("failed to store audio: %w", err)
	}

	rec := &Record{
		ID:        uuid.NewString(),
		Location:  loc,
		CreatedAt: m.now(),
		Size:      size,
		Text:      text,
		Voice:     voice,
	}

	m.lock.Lock()
	if _, ok := m.records[rec.ID]; ok {
		m.lock.Unlock()

		m.deleteBytes(ctx, rec)

		return "", fmt.Errorf("artifact id collision: %s", rec.ID)
	}
	m.records[rec.ID] = rec
	tracked := len(m.records)
	m.lock.Unlock()

	metrics.Created.Inc()
	metrics.Tracked.Set(float64(tracked))
	metrics.StoredBytes.Observe(float64(size))

	m.logger.Info("artifact created", "id", rec.ID, "voice", voice, "text_len", len(text), "bytes", size)

	m.ReclaimExpired(ctx, m.now(), m.ttl)

	return rec.ID, nil
}

// Get does not distinguish unknown ids from reclaimed ones.
func (m *Manager) Get(id string) (Location, error) {
	rec, err := m.lookup(id)
	if err != nil {
		return "", err
	}

	return rec.Location, nil
}

func (m *Manager) GetMetadataForDownload(id string) (Metadata, error) {
	rec, err := m.lookup(id)
	if err != nil {
		return Metadata{}, err
	}

	return Metadata{
		Location:  rec.Location,
		Voice:     rec.Voice,
		CreatedAt: rec.CreatedAt,
	}, nil
}

// Read opens a location returned by Get. A location can lose its bytes to a
// concurrent reclaim right after Get, any read failure is reported as ErrNotFound.
func (m *Manager) Read(ctx context.Context, loc Location) (io.ReadCloser, error) {
	rc, err := m.store.Open(ctx, loc)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			m.logger.Warn("failed to open artifact bytes", "location", loc, "err", err)
		}

		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	return rc, nil
}

// ReclaimExpired drops every record older than ttl and deletes its bytes.
// Index entries go first so that no new lookup can return them, the bytes are
// deleted after the lock is released. Per-record delete failures are logged
// and never stop the pass. Returns the number of records dropped.
func (m *Manager) ReclaimExpired(ctx context.Context, now time.Time, ttl time.Duration) int {
	m.lock.Lock()
	var expired []*Record
	for id, rec := range m.records {
		if rec.Expired(now, ttl) {
			expired = append(expired, rec)
			delete(m.records, id)
		}
	}
	tracked := len(m.records)
	m.lock.Unlock()

	metrics.Tracked.Set(float64(tracked))

	if len(expired) == 0 {
		return 0
	}

	// index entries are already gone, the bytes must go too even if the caller gives up
	ctx = context.WithoutCancel(ctx)

	for _, rec := range expired {
		m.deleteBytes(ctx, rec)
	}

	metrics.Reclaimed.Add(float64(len(expired)))

	return len(expired)
}

// Purge drops every record regardless of age. Used on shutdown since the
// index does not survive a restart.
func (m *Manager) Purge(ctx context.Context) int {
	m.lock.Lock()
	all := make([]*Record, 0, len(m.records))
	for _, rec := range m.records {
		all = append(all, rec)
	}
	m.records = make(map[string]*Record, 16)
	m.lock.Unlock()

	metrics.Tracked.Set(0)

	for _, rec := range all {
		m.deleteBytes(ctx, rec)
	}

	return len(all)
}

func (m *Manager) Len() int {
	m.lock.Lock()
	defer m.lock.Unlock()

	return len(m.records)
}

func (m *Manager) lookup(id string) (*Record, error) {
	m.lock.Lock()
	rec, ok := m.records[id]
	m.lock.Unlock()

	if !ok {
		return nil, ErrNotFound
	}

	return rec, nil
}

func (m *Manager) deleteBytes(ctx context.Context, rec *Record) {
	if err := m.store.Delete(ctx, rec.Location); err != nil {
		metrics.ReclaimErrors.Inc()
		m.logger.Warn("failed to delete artifact bytes", "id", rec.ID, "location", rec.Location, "err", err)

		return
	}

	m.logger.Info("artifact reclaimed", "id", rec.ID, "location", rec.Location, "age", m.now().Sub(rec.CreatedAt).Round(time.Second))
}
