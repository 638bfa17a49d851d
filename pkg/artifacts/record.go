package artifacts

import (
	"fmt"
	"time"

	"kokorotts/pkg/tools"
)

// Location is an opaque handle into a Store.
type Location string

// Record is immutable once it is published in the index.
type Record struct {
	ID        string
	Location  Location
	CreatedAt time.Time
	Size      int64

	Text  string
	Voice string
}

func (r *Record) Age(now time.Time) time.Duration {
	return now.Sub(r.CreatedAt)
}

// Expired reports whether the record is strictly older than ttl.
func (r *Record) Expired(now time.Time, ttl time.Duration) bool {
	return r.Age(now) > ttl
}

type Metadata struct {
	Location  Location
	Voice     string
	CreatedAt time.Time
}

const filenameTimeLayout = "20060102_150405"

// Filename builds the suggested download name, e.g. kokoro_af_heart_20240101_120000.wav.
func (m Metadata) Filename() string {
	return DownloadFilename(m.Voice, m.CreatedAt)
}

func DownloadFilename(voice string, createdAt time.Time) string {
	return fmt.Sprintf("kokoro_%s_%s.wav", tools.SafeFilePart(voice, "voice"), createdAt.UTC().Format(filenameTimeLayout))
}
