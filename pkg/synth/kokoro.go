package synth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"kokorotts/pkg/tools"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type KokoroConfig struct {
	URL      string        `yaml:"url" env:"KOKORO_URL"`
	LangCode string        `yaml:"lang_code" env:"KOKORO_LANG_CODE"`
	Speed    float64       `yaml:"speed" env:"KOKORO_SPEED"`
	Timeout  time.Duration `yaml:"timeout" env:"KOKORO_TIMEOUT"`

	InitTimeout time.Duration `yaml:"init_timeout" env:"KOKORO_INIT_TIMEOUT"`
	// Warmup loads the pipeline at startup instead of on the first request.
	Warmup bool `yaml:"warmup" env:"KOKORO_WARMUP"`
}

// KokoroClient talks to a Kokoro pipeline sidecar over HTTP.
type KokoroClient struct {
	cfg        *KokoroConfig
	httpClient HTTPClient
}

func NewKokoroClient(httpClient HTTPClient, cfg *KokoroConfig) *KokoroClient {
	return &KokoroClient{
		httpClient: httpClient,
		cfg:        cfg,
	}
}

type initReq struct {
	LangCode string `json:"lang_code"`
}

type generateReq struct {
	Text  string  `json:"text"`
	Voice string  `json:"voice"`
	Speed float64 `json:"speed"`
}

type segmentResp struct {
	Graphemes string    `json:"graphemes"`
	Phonemes  string    `json:"phonemes"`
	Audio     []float32 `json:"audio"`
}

type generateResp struct {
	SampleRate int           `json:"sample_rate"`
	Segments   []segmentResp `json:"segments"`
}

func (c *KokoroClient) Init(ctx context.Context) error {
	langCode := c.cfg.LangCode
	if langCode == "" {
		langCode = "a"
	}

	if err := c.post(ctx, "/init", &initReq{LangCode: langCode}, nil); err != nil {
		return fmt.Errorf("failed to load kokoro pipeline: %w", err)
	}

	return nil
}

func (c *KokoroClient) Generate(ctx context.Context, text, voice string) ([]Segment, error) {
	speed := c.cfg.Speed
	if speed <= 0 {
		speed = 1
	}

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	resp := &generateResp{}
	if err := c.post(ctx, "/generate", &generateReq{Text: text, Voice: voice, Speed: speed}, resp); err != nil {
		return nil, err
	}

	if resp.SampleRate != 0 && resp.SampleRate != SampleRate {
		return nil, fmt.Errorf("unexpected sample rate %d, want %d", resp.SampleRate, SampleRate)
	}

	segments := make([]Segment, 0, len(resp.Segments))
	for _, seg := range resp.Segments {
		segments = append(segments, Segment{
			Graphemes: seg.Graphemes,
			Phonemes:  seg.Phonemes,
			Samples:   seg.Audio,
		})
	}

	return segments, nil
}

func (c *KokoroClient) post(ctx context.Context, path string, reqBody any, respBody any) error {
	data, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := strings.TrimRight(c.cfg.URL, "/") + path

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	request.Header.Add("Content-Type", "application/json")

	resp, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("failed to post to kokoro server: %w", err)
	}
	defer tools.DrainAndClose(resp.Body)

	respData, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read body: %w", err)
	}

	if resp.StatusCode > 299 {
		metrics.Errors.WithLabelValues("http_" + strconv.Itoa(resp.StatusCode)).Inc()
		return fmt.Errorf("status code %d, err - %s", resp.StatusCode, string(respData))
	}

	if respBody == nil {
		return nil
	}

	if err := json.Unmarshal(respData, respBody); err != nil {
		return fmt.Errorf("failed to unmarshal kokoro resp data: %w", err)
	}

	return nil
}
