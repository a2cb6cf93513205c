package backend

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"image/png"
	"math/rand/v2"
	"sync"
	"time"
)

// SyntheticConfig tunes the stand-in backend.
type SyntheticConfig struct {
	// Delay simulates model latency for every call.
	Delay time.Duration

	// Images is the number of candidates per generation.
	Images int

	// Size is the edge length in pixels of each generated tile.
	Size int

	// Seed makes detection scores reproducible. Zero seeds from the clock.
	Seed uint64
}

// DefaultSyntheticConfig mirrors the reference stand-in: four images and a
// noticeable pause.
func DefaultSyntheticConfig() SyntheticConfig {
	return SyntheticConfig{
		Delay:  7 * time.Second,
		Images: 4,
		Size:   64,
	}
}

// Synthetic is a stand-in Generator and Detector returning generated tiles
// and random similarity scores.
type Synthetic struct {
	cfg SyntheticConfig

	mu  sync.Mutex
	rng *rand.Rand
}

var (
	_ Generator = (*Synthetic)(nil)
	_ Detector  = (*Synthetic)(nil)
)

// NewSynthetic creates a stand-in backend.
func NewSynthetic(cfg SyntheticConfig) *Synthetic {
	if cfg.Images <= 0 {
		cfg.Images = 4
	}
	if cfg.Size <= 0 {
		cfg.Size = 64
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Synthetic{
		cfg: cfg,
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

func (s *Synthetic) Name() string { return "synthetic" }

// Generate waits for the configured delay and returns PNG tiles whose colours
// derive from the prompt, so the same prompt yields the same candidates.
func (s *Synthetic) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	resp := &GenerateResponse{Images: make([]GeneratedImage, 0, s.cfg.Images)}
	for i := range s.cfg.Images {
		data, err := renderTile(req.Prompt, i, s.cfg.Size)
		if err != nil {
			return nil, fmt.Errorf("render tile %d: %w", i, err)
		}
		resp.Images = append(resp.Images, GeneratedImage{
			ImageData: base64.StdEncoding.EncodeToString(data),
		})
	}
	return resp, nil
}

// Detect waits for the configured delay and returns a random integer
// similarity in [0, 100], echoing the image back as the detected image.
func (s *Synthetic) Detect(ctx context.Context, req DetectRequest) (*DetectResponse, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	score := s.rng.IntN(101)
	s.mu.Unlock()

	return &DetectResponse{
		SimilarityScore: float64(score),
		DetectedImage:   req.ImageBase64,
	}, nil
}

func (s *Synthetic) wait(ctx context.Context) error {
	if s.cfg.Delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.cfg.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// renderTile draws a size×size PNG: a background colour hashed from the
// prompt and the tile index, crossed by diagonal stripes.
func renderTile(prompt string, index, size int) ([]byte, error) {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s#%d", prompt, index)
	sum := h.Sum64()

	bg := color.RGBA{R: uint8(sum), G: uint8(sum >> 8), B: uint8(sum >> 16), A: 0xff}
	fg := color.RGBA{R: ^bg.R, G: ^bg.G, B: ^bg.B, A: 0xff}
	stripe := int(sum>>24)%6 + 3

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := range size {
		for x := range size {
			if (x+y)/stripe%2 == 0 {
				img.Set(x, y, bg)
			} else {
				img.Set(x, y, fg)
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
