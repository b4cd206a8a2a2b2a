// Package draw selects winners from a pool of entries.
package draw

import "fmt"

// Sample returns k distinct indices of [0, n) in selection order. Every
// k-subset, and every ordering of it, is equally likely as long as randIntn
// is uniform. The first index is rank 1.
//
// It panics if k is negative or greater than n.
func Sample(n, k int, randIntn func(int) int) []int {
	if k < 0 || k > n {
		panic(fmt.Sprintf("draw: cannot sample %d of %d", k, n))
	}

	pool := make([]int, n)
	for i := range pool {
		pool[i] = i
	}

	// Partial Fisher-Yates: after step i, pool[:i+1] holds the selection.
	for i := 0; i < k; i++ {
		j := i + randIntn(n-i)
		pool[i], pool[j] = pool[j], pool[i]
	}

	return pool[:k]
}

// Pick applies Sample to a slice of candidates.
func Pick[T any](candidates []T, k int, randIntn func(int) int) []T {
	indices := Sample(len(candidates), k, randIntn)
	picked := make([]T, 0, len(indices))
	for _, i := range indices {
		picked = append(picked, candidates[i])
	}

	return picked
}
