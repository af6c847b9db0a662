package crack

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/RowanDark/monocrack/internal/cipher"
	"github.com/RowanDark/monocrack/internal/lang"
	"github.com/RowanDark/monocrack/internal/score"
)

const (
	DefaultRestarts   = 20
	DefaultIterations = 3000
	DefaultFrontier   = 8
)

// Upper bounds on a single search. Requests beyond them fail with
// ErrInvalidBudget before anything is allocated.
const (
	MaxRestarts   = 10_000
	MaxIterations = 1_000_000
	MaxFrontier   = 1_024
	MaxWorkers    = 256
)

// ErrInvalidBudget is returned for search settings outside the supported
// range.
var ErrInvalidBudget = errors.New("invalid search budget")

// CheckBudget reports settings above the Max* bounds. Zero and negative
// values are left to the defaults.
func CheckBudget(restarts, iterations, frontier, workers int) error {
	limits := []struct {
		name  string
		value int
		max   int
	}{
		{"restarts", restarts, MaxRestarts},
		{"iterations", iterations, MaxIterations},
		{"frontier", frontier, MaxFrontier},
		{"workers", workers, MaxWorkers},
	}
	for _, l := range limits {
		if l.value > l.max {
			return fmt.Errorf("%w: %s %d exceeds %d", ErrInvalidBudget, l.name, l.value, l.max)
		}
	}
	return nil
}

// Progress reports a new best candidate across all restarts.
type Progress struct {
	Restart   int
	Score     float64
	Plaintext string
}

// Observer is told about every improvement of the global best. Calls are
// serialised. Observers only watch; they cannot steer the search.
type Observer interface {
	Observe(Progress)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Progress)

func (f ObserverFunc) Observe(p Progress) { f(p) }

// MultiObserver forwards progress to every non-nil observer in order.
func MultiObserver(observers ...Observer) Observer {
	var out multiObserver
	for _, o := range observers {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

type multiObserver []Observer

func (m multiObserver) Observe(p Progress) {
	for _, o := range m {
		o.Observe(p)
	}
}

// Config tunes the hill climber. Zero values select the defaults.
type Config struct {
	Model    *lang.Model
	Restarts int
	// Iterations is the number of swaps tried per restart. A negative value
	// disables climbing and keeps the random starting points.
	Iterations int
	// Frontier is the number of candidates kept per restart.
	Frontier int
	// Workers is the number of restarts run concurrently.
	Workers    int
	Seed       uint64
	NgramOrder int
	Observer   Observer
}

func (c Config) withDefaults() Config {
	if c.Model == nil {
		c.Model = lang.Default()
	}
	if c.Restarts <= 0 {
		c.Restarts = DefaultRestarts
	}
	if c.Iterations < 0 {
		c.Iterations = 0
	} else if c.Iterations == 0 {
		c.Iterations = DefaultIterations
	}
	if c.Frontier <= 0 {
		c.Frontier = DefaultFrontier
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.NgramOrder <= 0 {
		c.NgramOrder = score.DefaultNgramOrder
	}
	return c
}

// SubstitutionResult is the best mapping found by the climber. Key is the
// encryption mapping, so cipher.Decrypt(ciphertext, Key) == Plaintext for
// the case folded ciphertext.
type SubstitutionResult struct {
	Key       cipher.Mapping `json:"-"`
	Plaintext string         `json:"plaintext"`
	Score     float64        `json:"score"`
	Restart   int            `json:"restart"`
}

// Climber breaks generic substitution ciphers by stochastic hill climbing
// over n-gram scores.
type Climber struct {
	cfg Config
}

// NewClimber returns a climber with the defaults filled in.
func NewClimber(cfg Config) *Climber {
	return &Climber{cfg: cfg.withDefaults()}
}

// Config returns the effective configuration.
func (c *Climber) Config() Config { return c.cfg }

// CrackSubstitution runs a climber built from cfg.
func CrackSubstitution(ctx context.Context, ciphertext string, cfg Config) (SubstitutionResult, error) {
	return NewClimber(cfg).Crack(ctx, ciphertext)
}

// Crack searches for the decryption of ciphertext. The outcome depends only
// on the ciphertext and the configuration: the same seed gives the same
// result for any number of workers. ctx is checked between restarts.
func (c *Climber) Crack(ctx context.Context, ciphertext string) (SubstitutionResult, error) {
	cfg := c.cfg
	if err := CheckBudget(cfg.Restarts, cfg.Iterations, cfg.Frontier, cfg.Workers); err != nil {
		return SubstitutionResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return SubstitutionResult{}, err
	}
	scorer, err := score.ForModel(cfg.Model, cfg.NgramOrder)
	if err != nil {
		return SubstitutionResult{}, fmt.Errorf("substitution crack: %w", err)
	}
	alphabet := cfg.Model.Alphabet()
	text := cipher.Normalize(ciphertext, alphabet)
	idx := alphabet.Indices(text)

	// winner is the lowest-index restart holding the best score, whatever
	// order the workers finish in.
	var (
		mu       sync.Mutex
		winner   candidate
		winnerAt int
		haveBest bool
	)
	report := func(restart int, best candidate) {
		mu.Lock()
		defer mu.Unlock()
		improved := !haveBest || best.score < winner.score
		if improved || (best.score == winner.score && restart < winnerAt) {
			winner, winnerAt = best, restart
		}
		haveBest = true
		if !improved {
			return
		}
		if cfg.Observer != nil {
			cfg.Observer.Observe(Progress{
				Restart:   restart,
				Score:     best.score,
				Plaintext: cipher.Decrypt(text, encryptionMapping(best.perm, alphabet)),
			})
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for r := 0; r < cfg.Restarts; r++ {
		if err := gctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report(r, climb(scorer, idx, alphabet.Len(), cfg, r))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return SubstitutionResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return SubstitutionResult{}, err
	}

	key := encryptionMapping(winner.perm, alphabet)
	return SubstitutionResult{
		Key:       key,
		Plaintext: cipher.Decrypt(text, key),
		Score:     winner.score,
		Restart:   winnerAt,
	}, nil
}

// climbState is one restart in progress. Its random stream depends only on
// the seed and the restart index.
type climbState struct {
	scorer *score.NgramScorer
	idx    []int
	plain  []int
	n      int
	rng    *rand.Rand
	front  *frontier
}

func newClimbState(scorer *score.NgramScorer, idx []int, n int, cfg Config, restart int) *climbState {
	s := &climbState{
		scorer: scorer,
		idx:    idx,
		plain:  make([]int, len(idx)),
		n:      n,
		rng:    rand.New(rand.NewPCG(cfg.Seed, uint64(restart))),
		front:  newFrontier(cfg.Frontier),
	}
	start := s.rng.Perm(n)
	s.front.insert(candidate{score: s.evaluate(start), perm: start})
	return s
}

func (s *climbState) evaluate(perm []int) float64 {
	for i, c := range s.idx {
		s.plain[i] = perm[c]
	}
	return s.scorer.ScoreIndices(s.plain)
}

// step swaps two symbols of the current best and offers the result to the
// frontier. Alphabets of fewer than two symbols have nothing to swap.
func (s *climbState) step() {
	if s.n < 2 {
		return
	}
	next := append([]int(nil), s.front.best().perm...)
	x := s.rng.IntN(s.n)
	y := s.rng.IntN(s.n - 1)
	if y >= x {
		y++
	}
	next[x], next[y] = next[y], next[x]
	s.front.insert(candidate{score: s.evaluate(next), perm: next})
}

// climb runs one restart to completion.
func climb(scorer *score.NgramScorer, idx []int, n int, cfg Config, restart int) candidate {
	s := newClimbState(scorer, idx, n, cfg, restart)
	for i := 0; i < cfg.Iterations && n >= 2; i++ {
		s.step()
	}
	return s.front.best()
}

// encryptionMapping turns a decryption permutation into the mapping from
// plaintext symbols to ciphertext symbols.
func encryptionMapping(perm []int, a lang.Alphabet) cipher.Mapping {
	m := make(cipher.Mapping, len(perm))
	for c, p := range perm {
		m[a.At(p)] = a.At(c)
	}
	return m
}
