package core

// EnsureLen returns a slice of length n, reusing buf's backing array when it is
// large enough. Callers on a real-time path should size buf up front so this
// never allocates.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// Fill sets all values in buf to v.
func Fill(buf []float64, v float64) {
	if v == 0 {
		Zero(buf)
		return
	}
	for i := range buf {
		buf[i] = v
	}
}
