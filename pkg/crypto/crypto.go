package crypto

import (
	"crypto/rand"
	"math/big"
)

// RandIntn returns a uniform value in [0, n) read from crypto/rand. It panics
// when n <= 0.
func RandIntn(n int) int {
	r, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(err)
	}

	return int(r.Int64())
}
