// Package synth provides the deterministic pseudo-random source used to
// generate sample grid data.
package synth

// Park–Miller minimal standard generator constants.
const (
	modulus    = 2147483647
	multiplier = 16807
)

// Rand is a Park–Miller generator. The same seed always yields the same
// sequence, so sample data is reproducible.
type Rand struct {
	state int64
}

// NewRand returns a generator for seed. Seeds outside [1, modulus-1] are
// folded into range; a seed that is zero or negative has modulus-1 added.
func NewRand(seed int) *Rand {
	s := int64(seed) % modulus
	if s <= 0 {
		s += modulus - 1
	}
	return &Rand{state: s}
}

// Next advances the generator and returns a value in [0, 1).
func (r *Rand) Next() float64 {
	r.state = r.state * multiplier % modulus
	return float64(r.state-1) / float64(modulus-1)
}

// Intn returns a value in [0, n). It returns 0 when n <= 0.
func (r *Rand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Next() * float64(n))
}

// State returns the current internal state.
func (r *Rand) State() int64 {
	return r.state
}
