// Package srs assembles and serializes a univariate KZG structured
// reference string over BN254.
//
// A run samples one secret s and produces three sequences of n = 2^k
// points from it: [s^i]G1 (monomial basis), [L_i(s)]G1 (Lagrange basis over
// the order-n subgroup of roots of unity) and [s^i]G2. The Lagrange
// scalars come from an inverse FFT over the scalar power series, not over
// the points, which keeps the transform at O(n log n) field
// multiplications.
package srs

import (
	"io"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/sifnoc/plonkish/crypto/fft"
	"github.com/sifnoc/plonkish/crypto/field"
	"github.com/sifnoc/plonkish/crypto/group"
	"github.com/sifnoc/plonkish/crypto/msm"
	"github.com/sifnoc/plonkish/log"
	"github.com/sifnoc/plonkish/metrics"
)

// SRS is an in-memory reference string. Every sequence has 2^K points.
type SRS struct {
	K        uint32
	Monomial []bn254.G1Affine
	Lagrange []bn254.G1Affine
	PowersG2 []bn254.G2Affine
}

// Size returns the domain size 2^K.
func (s *SRS) Size() int { return 1 << s.K }

// Generator runs the pipeline. It is not safe for concurrent use; create one
// per run.
type Generator struct {
	rng     io.Reader
	log     *log.Logger
	metrics *metrics.Registry
	workers int
	window  int
	onStage func(Stage)
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger; the default is log.Default().Module("srs").
func WithLogger(l *log.Logger) Option {
	return func(g *Generator) { g.log = l }
}

// WithMetrics sets the registry stage timings are recorded into.
func WithMetrics(r *metrics.Registry) Option {
	return func(g *Generator) { g.metrics = r }
}

// WithWorkers bounds the goroutines used inside each stage.
func WithWorkers(n int) Option {
	return func(g *Generator) { g.workers = n }
}

// WithWindowSize fixes the MSM window width; 0 derives it from the domain.
func WithWindowSize(w int) Option {
	return func(g *Generator) { g.window = w }
}

// WithStageHook registers fn to be called as each stage starts.
func WithStageHook(fn func(Stage)) Option {
	return func(g *Generator) { g.onStage = fn }
}

// New returns a Generator drawing the secret from rng.
func New(rng io.Reader, opts ...Option) *Generator {
	g := &Generator{
		rng:     rng,
		log:     log.Default().Module("srs"),
		metrics: metrics.NewRegistry(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Metrics returns the registry the generator records into.
func (g *Generator) Metrics() *metrics.Registry { return g.metrics }

func (g *Generator) stage(st Stage, fn func() error) error {
	if g.onStage != nil {
		g.onStage(st)
	}
	g.log.Debug("Stage started", "stage", st)
	timer := metrics.NewTimer(g.metrics.Histogram("srs/stage/" + st.String()))
	if err := fn(); err != nil {
		timer.Stop()
		g.log.Error("Stage failed", "stage", st, "err", err)
		return &StageError{Stage: st, Err: err}
	}
	g.log.Info("Stage complete", "stage", st, "elapsed", timer.Stop())
	return nil
}

// Generate samples a fresh secret and builds the three point sequences for
// a domain of size 2^k. The secret and its power series are cleared before
// Generate returns, on success and on failure.
func (g *Generator) Generate(k uint32) (*SRS, error) {
	if err := field.CheckDomain(k); err != nil {
		return nil, err
	}
	n := 1 << k
	w := g.window
	if w == 0 {
		w = msm.WindowSize(n)
	}
	g.metrics.Gauge("srs/window").Set(int64(w))
	g.log.Info("Generating SRS", "k", k, "n", n, "window", w, "workers", g.workers)

	g1, g2 := group.Generators()
	out := &SRS{K: k}

	var (
		secret   fr.Element
		powers   []fr.Element
		lagrange []fr.Element
		tableG1  *msm.TableG1
	)
	defer func() {
		secret.SetZero()
		field.Zeroize(powers)
		field.Zeroize(lagrange)
	}()

	err := g.stage(StageSampleSecret, func() error {
		var err error
		if secret, err = field.RandomScalar(g.rng); err != nil {
			return err
		}
		powers = field.Powers(secret, n)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = g.stage(StageMonomialG1, func() error {
		var err error
		if tableG1, err = msm.NewTableG1(w, &g1, g.workers); err != nil {
			return err
		}
		g.log.Debug("Window table built", "group", "g1", "entries", tableG1.Entries())
		out.Monomial = group.BatchToAffineG1(tableG1.Mul(powers, g.workers), g.workers)
		g.metrics.Counter("srs/points").Add(int64(n))
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = g.stage(StageLagrange, func() error {
		lagrange = make([]fr.Element, n)
		copy(lagrange, powers)
		return fft.InverseFFT(lagrange, k, g.workers)
	})
	if err != nil {
		return nil, err
	}

	err = g.stage(StageLagrangeG1, func() error {
		out.Lagrange = group.BatchToAffineG1(tableG1.Mul(lagrange, g.workers), g.workers)
		g.metrics.Counter("srs/points").Add(int64(n))
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = g.stage(StagePowersG2, func() error {
		tableG2, err := msm.NewTableG2(w, &g2, g.workers)
		if err != nil {
			return err
		}
		g.log.Debug("Window table built", "group", "g2", "entries", tableG2.Entries())
		out.PowersG2 = group.BatchToAffineG2(tableG2.Mul(powers, g.workers), g.workers)
		g.metrics.Counter("srs/points").Add(int64(n))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Run validates cfg, generates a reference string and writes it to
// cfg.Path(). Nothing is written when validation or generation fails; a
// failed write may leave a truncated file behind.
func Run(cfg Config, rng io.Reader, opts ...Option) (*Artifact, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts = append([]Option{WithWorkers(cfg.Workers), WithWindowSize(cfg.WindowSize)}, opts...)
	g := New(rng, opts...)

	s, err := g.Generate(cfg.K)
	if err != nil {
		return nil, err
	}

	var art *Artifact
	err = g.stage(StageSerialize, func() error {
		var err error
		art, err = s.WriteFile(cfg.Path())
		return err
	})
	if err != nil {
		return nil, err
	}
	if g.onStage != nil {
		g.onStage(StageDone)
	}
	g.log.Info("SRS written", "path", art.Path, "bytes", art.Bytes, "digest", art.DigestHex())
	return art, nil
}
