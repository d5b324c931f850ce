package search

import (
	"hash/fnv"
	"math"
)

// Vectorize maps text to a unit-length hashed bag-of-words vector of the
// given dimension. Each non-stop-word token adds ±1 to one bucket; the sign
// comes from the hash. Text without significant tokens yields a zero vector.
func Vectorize(text string, dim int) []float32 {
	vec := make([]float32, dim)
	if dim <= 0 {
		return vec
	}

	for _, tok := range tokens(text) {
		if len([]rune(tok)) < 2 || stopWords[tok] {
			continue
		}
		h := fnv.New32a()
		h.Write([]byte(tok))
		sum := h.Sum32()

		bucket := int(sum % uint32(dim))
		if sum&(1<<31) != 0 {
			vec[bucket]--
		} else {
			vec[bucket]++
		}
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return vec
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}
	return vec
}

func isZero(vec []float32) bool {
	for _, v := range vec {
		if v != 0 {
			return false
		}
	}
	return true
}
