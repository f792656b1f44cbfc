package bytealg

// CommonPrefixLength returns the length of the longest prefix shared by a
// and b.
func CommonPrefixLength(a, b []byte) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
