package parser

// ScanStatesForTest returns the scanner state after each line of the spec section of doc.
func ScanStatesForTest(doc string) []string {
	sc := newInputScanner()
	states := make([]string, 0)
	for _, l := range specSection(doc) {
		_ = sc.feed(l)
		states = append(states, sc.state.String())
	}
	return states
}
