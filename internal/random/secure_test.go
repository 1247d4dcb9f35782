package random

import "testing"

func TestTransactionID(t *testing.T) {
	// Generate multiple IDs and check uniqueness
	seen := make(map[uint16]bool)
	const iterations = 10000

	for i := 0; i < iterations; i++ {
		id := TransactionID()

		if seen[id] {
			// Collision is possible but should be rare
			// With 10k iterations and 65k possible values,
			// some collisions are all but certain (birthday paradox;
			// about 700 repeats expected, ~9,270 unique values)
			// So we just check that we get mostly unique values
			continue
		}
		seen[id] = true
	}

	uniqueCount := len(seen)
	if uniqueCount < iterations*9/10 {
		t.Errorf("too many collisions: got %d unique IDs from %d iterations", uniqueCount, iterations)
	}
}

func TestClientCookieEntropy(t *testing.T) {
	a := ClientCookieEntropy()
	b := ClientCookieEntropy()
	if a == b {
		t.Error("consecutive cookie entropy draws should differ")
	}
}

// Benchmark transaction ID generation
func BenchmarkTransactionID(b *testing.B) {
	for i := 0; i < b.N; i++ {
		TransactionID()
	}
}
