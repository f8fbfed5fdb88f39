// Package services provides external service integrations and technical concerns like notifications and tokens
package services

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wenlng/go-captcha/v2/rotate"
)

// CaptchaService guards the admin login with a rotate captcha.
// Generate hands the frontend a challenge id plus master and thumb
// images; the user rotates the thumb and submits the angle, which
// Verify checks against the stored target within a tolerance. A
// challenge is single-use and expires after its TTL.
type CaptchaService interface {
	GenerateRotate(ctx context.Context) (*RotateChallenge, error)
	VerifyRotate(ctx context.Context, challengeID string, userAngle float64) bool
}

// RotateChallenge carries the assets the frontend needs to render one
// rotate captcha round.
type RotateChallenge struct {
	ID                string
	MasterImageBase64 string
	ThumbImageBase64  string
}

type rotateCaptchaService struct {
	rotator rotate.Captcha
	store   *challengeStore
	padding int // accepted angle drift in degrees
}

// NewCaptchaServiceRotate builds the rotate captcha service. Challenges
// stay valid for ttl, userAngle may be off by up to padding degrees,
// and images are rendered as imgSizePx squares.
func NewCaptchaServiceRotate(ttl time.Duration, padding int, imgSizePx int) (CaptchaService, error) {
	if imgSizePx <= 0 {
		imgSizePx = 220
	}

	builder := rotate.NewBuilder(
		rotate.WithImageSquareSize(imgSizePx),
	)
	builder.SetResources(
		rotate.WithImages(captchaBackgrounds(3, imgSizePx)),
	)

	return &rotateCaptchaService{
		rotator: builder.Make(),
		store:   newChallengeStore(ttl),
		padding: padding,
	}, nil
}

func (s *rotateCaptchaService) GenerateRotate(ctx context.Context) (*RotateChallenge, error) {
	captData, err := s.rotator.Generate()
	if err != nil {
		return nil, err
	}
	block := captData.GetData()
	if block == nil {
		return nil, err
	}

	masterB64, err := captData.GetMasterImage().ToBase64()
	if err != nil {
		return nil, err
	}
	thumbB64, err := captData.GetThumbImage().ToBase64()
	if err != nil {
		return nil, err
	}

	challengeID := uuid.New().String()
	s.store.Put(challengeID, block.Angle)

	return &RotateChallenge{
		ID:                challengeID,
		MasterImageBase64: masterB64,
		ThumbImageBase64:  thumbB64,
	}, nil
}

func (s *rotateCaptchaService) VerifyRotate(ctx context.Context, challengeID string, userAngle float64) bool {
	targetAngle, ok := s.store.Take(challengeID)
	if !ok {
		return false
	}
	return rotate.Validate(int(math.Round(userAngle)), targetAngle, s.padding)
}

// challengeStore holds pending challenges in memory with a TTL. A
// lookup consumes the entry, so every challenge answers exactly once.
type challengeStore struct {
	mu      sync.Mutex
	pending map[string]pendingChallenge
	ttl     time.Duration
}

type pendingChallenge struct {
	targetAngle int
	expiresAt   time.Time
}

func newChallengeStore(ttl time.Duration) *challengeStore {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	cs := &challengeStore{
		pending: make(map[string]pendingChallenge),
		ttl:     ttl,
	}
	go cs.sweep()
	return cs
}

func (cs *challengeStore) Put(id string, targetAngle int) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.pending[id] = pendingChallenge{
		targetAngle: targetAngle,
		expiresAt:   time.Now().Add(cs.ttl),
	}
}

// Take removes and returns the target angle for a live challenge.
func (cs *challengeStore) Take(id string) (int, bool) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	entry, ok := cs.pending[id]
	if !ok {
		return 0, false
	}
	delete(cs.pending, id)
	if time.Now().After(entry.expiresAt) {
		return 0, false
	}
	return entry.targetAngle, true
}

func (cs *challengeStore) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		now := time.Now()
		cs.mu.Lock()
		for id, entry := range cs.pending {
			if now.After(entry.expiresAt) {
				delete(cs.pending, id)
			}
		}
		cs.mu.Unlock()
	}
}

// captchaBackgrounds renders a few synthetic backdrops so the service
// needs no image assets on disk.
func captchaBackgrounds(n int, size int) []image.Image {
	if n <= 0 {
		n = 1
	}
	imgs := make([]image.Image, 0, n)
	for i := 0; i < n; i++ {
		imgs = append(imgs, noiseGradient(size, size))
	}
	return imgs
}

func noiseGradient(w, h int) image.Image {
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx := float64(x - w/2)
			dy := float64(y - h/2)
			t := math.Sqrt(dx*dx+dy*dy) / float64(w/2)
			if t > 1 {
				t = 1
			}
			base := uint8(200 - int(150*t))
			noise := uint8(rand.Intn(30))
			rgba.Set(x, y, color.RGBA{R: base + noise/3, G: base, B: 255 - base/2, A: 255})
		}
	}
	fillRect(rgba, 10, 10, w/3, h/12, color.RGBA{R: 255, G: 255, B: 255, A: 32})
	fillRect(rgba, w/2, h/3, w/3, h/10, color.RGBA{A: 24})
	return rgba
}

func fillRect(dst *image.RGBA, x, y, w, h int, c color.RGBA) {
	rect := image.Rect(x, y, x+w, y+h)
	draw.Draw(dst, rect, &image.Uniform{C: c}, image.Point{}, draw.Over)
}
