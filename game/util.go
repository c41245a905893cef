package game

func stringListIndex(l []string, s string) int {
	for i, x := range l {
		if x == s {
			return i
		}
	}
	return -1
}

func stringListWithout(l []string, s string) ([]string, bool) {
	for i, x := range l {
		if x == s {
			var out []string
			out = append(out, l[0:i]...)
			out = append(out, l[i+1:]...)
			return out, true
		}
	}
	return l, false
}

// mod is modulo that never goes negative.
func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
