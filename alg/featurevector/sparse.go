package featurevector

// Sparse maps feature ids to weights. A missing id weighs zero.
type Sparse map[int]float64

// DotProductFeatures sums the weights of the given feature ids; a repeated
// id counts each time
func (v Sparse) DotProductFeatures(f []int) float64 {
	var result float64
	for _, val := range f {
		result += v[val]
	}
	return result
}

func NewSparse() Sparse {
	return make(Sparse)
}
