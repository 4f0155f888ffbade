package location

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"sync"
)

// MaxJitter bounds the per-axis offset, in degrees, of synthesized points.
const MaxJitter = 0.0025

// Reference is the canonical campus point (Politeknik Merlimau). Every
// fallback and every synthesized coordinate is anchored here.
var Reference = Point{Lat: 2.167381021030418, Lng: 102.4304150369611}

// ErrUnavailable reports that the position source was denied or is missing.
var ErrUnavailable = errors.New("location: geolocation unavailable")

type Point struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

type Locator interface {
	Locate(ctx context.Context) (Point, error)
}

// Resolve asks the locator for a position and falls back to Reference when
// none is available.
func Resolve(ctx context.Context, l Locator) Point {
	if l == nil {
		return Reference
	}

	p, err := l.Locate(ctx)
	if err != nil || !p.Valid() {
		return Reference
	}

	return p
}

// Static is a Locator over a position the caller already knows, for example
// coordinates a browser attached to a request. A nil Point means unavailable.
type Static struct {
	Point *Point
}

func (s Static) Locate(context.Context) (Point, error) {
	if s.Point == nil {
		return Point{}, ErrUnavailable
	}

	return *s.Point, nil
}

// ParsePoint parses a latitude/longitude pair. Both empty means the client
// sent no position and yields ErrUnavailable.
func ParsePoint(lat, lng string) (*Point, error) {
	if lat == "" && lng == "" {
		return nil, ErrUnavailable
	}

	latV, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude %q: %w", lat, err)
	}

	lngV, err := strconv.ParseFloat(lng, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude %q: %w", lng, err)
	}

	p := &Point{Lat: latV, Lng: lngV}
	if !p.Valid() {
		return nil, fmt.Errorf("coordinates out of range: %v, %v", latV, lngV)
	}

	return p, nil
}

// Synthesizer places reports near an origin with bounded random jitter. It
// stands in for real geolocation; pass a fixed rand.Source to make it
// deterministic.
type Synthesizer struct {
	mu     sync.Mutex
	rnd    *rand.Rand
	origin Point
}

func NewSynthesizer(origin Point, src rand.Source) *Synthesizer {
	return &Synthesizer{rnd: rand.New(src), origin: origin}
}

func (s *Synthesizer) Near() Point {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Point{
		Lat: s.origin.Lat + (s.rnd.Float64()-0.5)*2*MaxJitter,
		Lng: s.origin.Lng + (s.rnd.Float64()-0.5)*2*MaxJitter,
	}
}
