// Package ordering maintains dense 1-based positions over a sequence.
package ordering

// Insert returns seq with item placed at 1-based position. Positions below
// 1 count back from the end, so 0 lands before the last element; anything
// still before the front inserts first and positions past the end append.
func Insert[T any](seq []T, item T, position int) []T {
	idx := clamp(position-1, len(seq))
	out := make([]T, 0, len(seq)+1)
	out = append(out, seq[:idx]...)
	out = append(out, item)
	out = append(out, seq[idx:]...)
	return out
}

// Move removes every element matching isTarget, then inserts item at
// position as Insert does.
func Move[T any](seq []T, isTarget func(T) bool, item T, position int) []T {
	rest := make([]T, 0, len(seq))
	for _, v := range seq {
		if isTarget != nil && isTarget(v) {
			continue
		}
		rest = append(rest, v)
	}
	return Insert(rest, item, position)
}

// Positions returns the dense 1..n positions for a sequence of length n.
func Positions(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// Dense reports whether positions is a permutation of 1..len(positions).
func Dense(positions []int) bool {
	seen := make([]bool, len(positions)+1)
	for _, p := range positions {
		if p < 1 || p > len(positions) || seen[p] {
			return false
		}
		seen[p] = true
	}
	return true
}

// clamp resolves a 0-based index against a sequence of length n. Negative
// indexes are offsets from the end.
func clamp(idx, n int) int {
	if idx < 0 {
		idx += n
	}
	if idx < 0 {
		return 0
	}
	if idx > n {
		return n
	}
	return idx
}
