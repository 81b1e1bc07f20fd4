package datasource

import (
	"context"
	"fmt"
	"hash/fnv"
	"log/slog"
	"math"
	"math/rand"

	"povdash/pkg/contracts/domain"
)

// Kind identifies a data source. The set is closed: Load resolves each
// kind through an exhaustive switch to a typed generator, so an unknown
// kind is a parse-time error rather than a runtime missing-key fault.
type Kind string

const (
	KindWorldBankPoverty    Kind = "world-bank-poverty"
	KindIndiaPoverty        Kind = "india-poverty"
	KindIndiaMultiIndicator Kind = "india-multi-indicator"
)

// ParseKind validates a source kind identifier from an external caller.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindWorldBankPoverty, KindIndiaPoverty, KindIndiaMultiIndicator:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown data source kind %q", s)
}

// Request selects what a Load call fetches. Zero years default to the
// loader's configured range; empty lists mean the full panel.
type Request struct {
	Kind      Kind
	Indicator string
	StartYear int
	EndYear   int
	Countries []string
	States    []string
	AreaType  string
}

// LoaderConfig bounds the served year range and fixes the generator
// seed so repeated loads return identical synthetic panels.
type LoaderConfig struct {
	StartYear int
	EndYear   int
	Seed      int64
}

// DefaultLoaderConfig returns the standard 2000–2024 panel.
func DefaultLoaderConfig() LoaderConfig {
	return LoaderConfig{StartYear: 2000, EndYear: 2024, Seed: 42}
}

// Loader serves observation datasets. The current generators are
// synthetic API placeholders shaped like their real counterparts
// (World Bank indicator API, India state statistics); swapping in live
// fetchers changes only this package.
type Loader struct {
	logger *slog.Logger
	config LoaderConfig
}

// NewLoader creates a loader, filling zero config fields with defaults.
func NewLoader(logger *slog.Logger, config LoaderConfig) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultLoaderConfig()
	if config.StartYear == 0 {
		config.StartYear = def.StartYear
	}
	if config.EndYear == 0 {
		config.EndYear = def.EndYear
	}
	if config.Seed == 0 {
		config.Seed = def.Seed
	}
	return &Loader{logger: logger, config: config}
}

// Load fetches the dataset for the request, dispatching on the closed
// kind enum.
func (l *Loader) Load(ctx context.Context, req Request) (domain.Dataset, error) {
	req = l.applyDefaults(req)
	if req.StartYear > req.EndYear {
		return nil, fmt.Errorf("invalid year range %d-%d", req.StartYear, req.EndYear)
	}

	var (
		data domain.Dataset
		err  error
	)
	switch req.Kind {
	case KindWorldBankPoverty:
		data = l.worldBankPoverty(req)
	case KindIndiaPoverty:
		data = l.indiaPoverty(req)
	case KindIndiaMultiIndicator:
		data = l.indiaMultiIndicator(req)
	default:
		err = fmt.Errorf("unknown data source kind %q", req.Kind)
	}
	if err != nil {
		return nil, err
	}

	l.logger.DebugContext(ctx, "loaded dataset",
		slog.String("kind", string(req.Kind)),
		slog.String("indicator", req.Indicator),
		slog.Int("start_year", req.StartYear),
		slog.Int("end_year", req.EndYear),
		slog.Int("rows", len(data)))
	return data, nil
}

// LoadCountryMetadata returns the World Bank country reference panel.
func (l *Loader) LoadCountryMetadata(ctx context.Context) ([]domain.CountryMeta, error) {
	out := make([]domain.CountryMeta, len(countryMetadata))
	copy(out, countryMetadata)
	return out, nil
}

// LoadStateDemographics returns census-style data for the given states,
// or for every state when none are named.
func (l *Loader) LoadStateDemographics(ctx context.Context, states []string) ([]domain.StateDemographics, error) {
	if len(states) == 0 {
		states = IndianStates
	}
	out := make([]domain.StateDemographics, 0, len(states))
	for _, state := range states {
		rng := l.entityRand("demographics", state)
		out = append(out, domain.StateDemographics{
			State:              state,
			Population:         5_000_000 + rng.Int63n(195_000_000),
			RuralPopulationPct: round2(uniform(rng, 30, 80)),
			UrbanPopulationPct: round2(uniform(rng, 20, 70)),
			LiteracyRate:       round2(uniform(rng, 60, 95)),
			GDPPerCapita:       round2(uniform(rng, 50_000, 300_000)),
		})
	}
	return out, nil
}

func (l *Loader) applyDefaults(req Request) Request {
	if req.StartYear == 0 {
		req.StartYear = l.config.StartYear
	}
	if req.EndYear == 0 {
		req.EndYear = l.config.EndYear
	}
	if req.AreaType == "" {
		req.AreaType = domain.AreaTypeAll
	}
	return req
}

// entityRand returns a generator whose stream is fixed by the loader
// seed and the entity identity, so each country or state series is
// stable across requests.
func (l *Loader) entityRand(parts ...string) *rand.Rand {
	h := fnv.New64a()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return rand.New(rand.NewSource(l.config.Seed ^ int64(h.Sum64())))
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
