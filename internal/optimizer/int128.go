package optimizer

import "math/bits"

// int128 is a minimal signed 128-bit accumulator used by the constant
// folder and the closed-form loop reductions to detect i64 overflow
// before a fold is committed (SPEC's resolution of the upstream's
// native-__int128-or-nothing behavior: emulate instead of disabling).
//
// Only the operations the optimizer actually needs are implemented:
// add, sub, mul (all with overflow awareness via bits.Mul64/Add64) and
// a fits-in-i64 check. No division is needed beyond modulus reduction,
// which is done in plain i64 since the modulus m is always a small
// positive i64 literal.
type int128 struct {
	hi int64  // sign-extended high word
	lo uint64 // low word
}

func i128FromInt64(v int64) int128 {
	hi := int64(0)
	if v < 0 {
		hi = -1
	}
	return int128{hi: hi, lo: uint64(v)}
}

func (a int128) add(b int128) int128 {
	lo, carry := bits.Add64(a.lo, b.lo, 0)
	hi := a.hi + b.hi + int64(carry)
	return int128{hi: hi, lo: lo}
}

func (a int128) neg() int128 {
	lo, carry := bits.Add64(^a.lo, 1, 0)
	hi := ^a.hi + int64(carry)
	return int128{hi: hi, lo: lo}
}

func (a int128) sub(b int128) int128 { return a.add(b.neg()) }

// mul multiplies two signed 128-bit values that are each known to fit
// within an i64's worth of real magnitude (the only case the optimizer
// ever constructs), so a 64x64->128 unsigned multiply of the absolute
// values plus sign-fixup is sufficient.
func (a int128) mul(b int128) int128 {
	negResult := (a.hi < 0) != (b.hi < 0)
	au := a.abs64()
	bu := b.abs64()
	hi, lo := bits.Mul64(au, bu)
	res := int128{hi: int64(hi), lo: lo}
	if negResult {
		res = res.neg()
	}
	return res
}

func (a int128) abs64() uint64 {
	if a.hi < 0 {
		return (^a.lo) + 1
	}
	return a.lo
}

// fitsInt64 reports whether a's value can be represented exactly as an
// int64, i.e. the high word is just the sign-extension of the low
// word's top bit.
func (a int128) fitsInt64() bool {
	if a.hi == 0 {
		return a.lo>>63 == 0
	}
	if a.hi == -1 {
		return a.lo>>63 == 1
	}
	return false
}

func (a int128) toInt64() int64 { return int64(a.lo) }

func addI64Checked(a, b int64) (int64, bool) {
	r := i128FromInt64(a).add(i128FromInt64(b))
	if !r.fitsInt64() {
		return 0, false
	}
	return r.toInt64(), true
}

func subI64Checked(a, b int64) (int64, bool) {
	r := i128FromInt64(a).sub(i128FromInt64(b))
	if !r.fitsInt64() {
		return 0, false
	}
	return r.toInt64(), true
}

func mulI64Checked(a, b int64) (int64, bool) {
	r := i128FromInt64(a).mul(i128FromInt64(b))
	if !r.fitsInt64() {
		return 0, false
	}
	return r.toInt64(), true
}

// sumSeries returns a+（a+1)+...+(a+n-1), the arithmetic series sum used
// by the affine/polynomial closed forms, computed in 128-bit arithmetic
// and reported as unrepresentable if it overflows i64.
func sumSeries(first int64, n int64) (int64, bool) {
	if n <= 0 {
		return 0, true
	}
	last := first + (n - 1)
	sumPair, ok := addI64Checked(first, last)
	if !ok {
		return 0, false
	}
	total := i128FromInt64(sumPair).mul(i128FromInt64(n))
	half, rem := divmod128By2(total)
	_ = rem
	if !half.fitsInt64() {
		return 0, false
	}
	return half.toInt64(), true
}

// divmod128By2 divides a 128-bit value by 2 (the series-sum formula
// always has an even numerator by construction of n*(first+last)).
func divmod128By2(a int128) (int128, int64) {
	neg := a.hi < 0
	u := a
	if neg {
		u = u.neg()
	}
	rem := int64(u.lo & 1)
	lo := (u.lo >> 1) | (uint64(u.hi&1) << 63)
	hi := u.hi >> 1
	res := int128{hi: hi, lo: lo}
	if neg {
		res = res.neg()
	}
	return res, rem
}

// sumSquaresSeries returns i^2+(i+1)^2+...+((i+n-1))^2 by direct
// accumulation in 128-bit arithmetic (O(n), capped at
// maxClosedFormFoldIterations; no closed-form identity is used), so the
// polynomial-degree-2 reduction can detect overflow.
func sumSquaresSeries(first, n int64) (int64, bool) {
	if n <= 0 {
		return 0, true
	}
	if n > maxClosedFormFoldIterations {
		return 0, false
	}
	var total int128
	// Add each square of first..first+n-1 into the 128-bit total; overflow
	// of int64 is detected once, after the loop.
	i := first
	for k := int64(0); k < n; k++ {
		sq := i128FromInt64(i).mul(i128FromInt64(i))
		total = total.add(sq)
		if !total.fitsInt64() && k < n-1 {
			// still might overflow further; keep accumulating in 128-bit,
			// only the final fitsInt64 check below matters.
		}
		i++
	}
	if !total.fitsInt64() {
		return 0, false
	}
	return total.toInt64(), true
}
