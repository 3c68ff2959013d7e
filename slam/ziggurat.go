package slam

import "math"

// Ziggurat constants from Marsaglia & Tsang's rectangle-wedge-tail method,
// reproduced exactly as spec'd so the generated tables (and therefore every
// draw) are bit-for-bit reproducible across implementations for a fixed
// seed.
const (
	zigM1  = 2147483648.0 // 2^31, used to scale the integer tables
	zigDN0 = 3.442619855899
	zigVN  = 9.91256303526217e-3
	zigR   = 3.442620
)

// tableSize is the number of rectangles/wedges in the ziggurat.
const tableSize = 128

// Ziggurat is a fast Gaussian sampler backed by a 32-bit SHR3 xorshift
// generator. It is used only by the RMHC matcher; determinism under a
// fixed seed is a load-bearing, tested property, not an implementation
// detail.
type Ziggurat struct {
	seed uint32
	kn   [tableSize]uint32
	fn   [tableSize]float32
	wn   [tableSize]float32
}

// NewZiggurat builds a Ziggurat seeded with seed and precomputes its
// rectangle/wedge tables. Spec allows either recomputing at construction
// (as here) or embedding precomputed static tables; behavioral equivalence
// is the only requirement, and construction-time computation keeps the
// constants (zigDN0, zigVN, zigR) visibly tied to the tables they produce.
func NewZiggurat(seed uint32) *Ziggurat {
	z := &Ziggurat{seed: seed}
	z.buildTables()
	return z
}

func (z *Ziggurat) buildTables() {
	dn := zigDN0
	tn := dn
	vn := zigVN

	q := vn / math.Exp(-0.5*dn*dn)
	z.kn[0] = uint32((dn / q) * zigM1)
	z.kn[1] = 0

	z.wn[0] = float32(q / zigM1)
	z.wn[tableSize-1] = float32(dn / zigM1)

	z.fn[0] = 1.0
	z.fn[tableSize-1] = float32(math.Exp(-0.5 * dn * dn))

	for i := tableSize - 2; i >= 1; i-- {
		dn = math.Sqrt(-2 * math.Log(vn/dn+math.Exp(-0.5*dn*dn)))
		z.kn[i+1] = uint32((dn / tn) * zigM1)
		tn = dn
		z.fn[i] = float32(math.Exp(-0.5 * dn * dn))
		z.wn[i] = float32(dn / zigM1)
	}
}

// shr3 advances the 32-bit xorshift state and returns the sum of the state
// before and after the shift sequence (Marsaglia's original SHR3 macro:
// jz=jsr, jsr^=jsr<<13, jsr^=jsr>>17, jsr^=jsr<<5, return jz+jsr), all with
// wrapping uint32 arithmetic.
func (z *Ziggurat) shr3() uint32 {
	prev := z.seed
	s := z.seed
	s ^= s << 13
	s ^= s >> 17
	s ^= s << 5
	z.seed = s
	return prev + s
}

// uniform draws a value spread across (0, 1) from the same SHR3 stream the
// Gaussian sampler's rejection steps consume.
func (z *Ziggurat) uniform() float64 {
	return 0.5 + float64(int32(z.shr3()))*2.328306437080797e-10
}

func absInt32(v int32) int32 {
	if v == math.MinInt32 {
		return math.MaxInt32
	}
	if v < 0 {
		return -v
	}
	return v
}

// Normal draws one sample from a standard normal distribution.
func (z *Ziggurat) Normal() float64 {
	hz := int32(z.shr3())
	iz := int(uint32(hz) & (tableSize - 1))

	for {
		if uint32(absInt32(hz)) < z.kn[iz] {
			return float64(hz) * float64(z.wn[iz])
		}

		if iz == 0 {
			var x, y float64
			for {
				x = -math.Log(z.uniform()) / 0.2904764
				y = -math.Log(z.uniform())
				if x*x <= 2*y {
					break
				}
			}
			if hz > 0 {
				return zigR + x
			}
			return -(zigR + x)
		}

		x := float64(hz) * float64(z.wn[iz])
		if float64(z.fn[iz])+z.uniform()*(float64(z.fn[iz-1])-float64(z.fn[iz])) < math.Exp(-0.5*x*x) {
			return x
		}

		hz = int32(z.shr3())
		iz = int(uint32(hz) & (tableSize - 1))
	}
}

// NormalScaled draws a sample from N(mu, sigma).
func (z *Ziggurat) NormalScaled(mu, sigma float64) float64 {
	return mu + sigma*z.Normal()
}
