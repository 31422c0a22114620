// Package geocode turns typed addresses into coordinates and back for the
// booking form. It wraps the Google Geocoding API and caches answers in
// Redis. Nothing in the fare engine depends on it.
package geocode

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"googlemaps.github.io/maps"

	"hirebook/internal/types"
)

const (
	defaultRegion = "lk"
	defaultLimit  = 5
)

var (
	ErrDisabled   = errors.New("geocoding is not configured")
	ErrBadRequest = errors.New("bad geocoding request")
	ErrNotFound   = errors.New("no address found")
)

// Place is one geocoding candidate.
type Place struct {
	Address  string      `json:"address"`
	Location types.Point `json:"location"`
	PlaceID  string      `json:"placeId,omitempty"`
}

// Client is the subset of *maps.Client the service calls.
type Client interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
	ReverseGeocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// Cache stores geocoding answers by key. A miss is (nil, false, nil).
type Cache interface {
	Get(ctx context.Context, key string) ([]Place, bool, error)
	Set(ctx context.Context, key string, places []Place) error
}

// Logger is a printf-style logging function, e.g. log.Printf.
type Logger func(format string, args ...any)

type Service struct {
	client Client
	cache  Cache
	region string
	limit  int
	logger Logger
}

type Option func(*Service)

// WithRegion biases results towards a ccTLD region code.
func WithRegion(region string) Option {
	return func(s *Service) { s.region = region }
}

// WithLimit caps the number of forward geocoding candidates.
func WithLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.limit = n
		}
	}
}

// WithLogger sets the logger used for cache failures; nil is silent.
func WithLogger(l Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService builds the service. A nil client disables it and a nil cache
// turns caching off.
func NewService(client Client, cache Cache, opts ...Option) *Service {
	s := &Service{client: client, cache: cache, region: defaultRegion, limit: defaultLimit}
	for _, o := range opts {
		o(s)
	}
	return s
}

// NewGoogleClient creates a Geocoding API client for apiKey.
func NewGoogleClient(apiKey string) (*maps.Client, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return client, nil
}

// Enabled reports whether a geocoding backend is configured.
func (s *Service) Enabled() bool {
	return s.client != nil
}

// Geocode returns up to the configured number of candidates for address.
// No match is an empty list, not an error.
func (s *Service) Geocode(ctx context.Context, address string) ([]Place, error) {
	if !s.Enabled() {
		return nil, ErrDisabled
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, fmt.Errorf("%w: empty address", ErrBadRequest)
	}

	key := forwardKey(address)
	if places, ok := s.cached(ctx, key); ok {
		return places, nil
	}

	results, err := s.client.Geocode(ctx, &maps.GeocodingRequest{Address: address, Region: s.region})
	if err != nil {
		return nil, fmt.Errorf("geocoding api error: %w", err)
	}
	places := toPlaces(results, s.limit)
	s.store(ctx, key, places)
	return places, nil
}

// Reverse returns the best formatted address for p.
func (s *Service) Reverse(ctx context.Context, p types.Point) (string, error) {
	if !s.Enabled() {
		return "", ErrDisabled
	}
	if !p.IsSet() || p.Lat < -90 || p.Lat > 90 || p.Lng < -180 || p.Lng > 180 {
		return "", fmt.Errorf("%w: invalid coordinates %v,%v", ErrBadRequest, p.Lat, p.Lng)
	}

	key := reverseKey(p)
	if places, ok := s.cached(ctx, key); ok && len(places) > 0 {
		return places[0].Address, nil
	}

	results, err := s.client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng: &maps.LatLng{Lat: p.Lat, Lng: p.Lng},
		Region: s.region,
	})
	if err != nil {
		return "", fmt.Errorf("reverse geocoding api error: %w", err)
	}
	places := toPlaces(results, 1)
	if len(places) == 0 {
		return "", ErrNotFound
	}
	s.store(ctx, key, places)
	return places[0].Address, nil
}

func (s *Service) cached(ctx context.Context, key string) ([]Place, bool) {
	if s.cache == nil {
		return nil, false
	}
	places, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logf("geocode: cache read %s: %v", key, err)
		return nil, false
	}
	return places, ok
}

func (s *Service) store(ctx context.Context, key string, places []Place) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, places); err != nil {
		s.logf("geocode: cache write %s: %v", key, err)
	}
}

func (s *Service) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger(format, args...)
	}
}

func toPlaces(results []maps.GeocodingResult, limit int) []Place {
	places := make([]Place, 0, min(len(results), limit))
	for _, r := range results {
		if len(places) == limit {
			break
		}
		places = append(places, Place{
			Address:  r.FormattedAddress,
			Location: types.Point{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng},
			PlaceID:  r.PlaceID,
		})
	}
	return places
}
