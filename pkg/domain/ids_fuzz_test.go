package domain

import "testing"

// FuzzParseMerchantID checks the parser never panics and that accepted
// inputs round-trip through String.
func FuzzParseMerchantID(f *testing.F) {
	f.Add("1")
	f.Add("0")
	f.Add("-1")
	f.Add("")
	f.Add("9223372036854775807")
	f.Add("9223372036854775808")
	f.Add("00042")
	f.Add("not-an-id")

	f.Fuzz(func(t *testing.T, input string) {
		id, ok := ParseMerchantID(input)
		if !ok {
			if id != 0 {
				t.Fatalf("rejected input %q produced non-zero id %d", input, id)
			}
			return
		}
		if !id.Valid() {
			t.Fatalf("accepted input %q produced invalid id %d", input, id)
		}
		reparsed, ok := ParseMerchantID(id.String())
		if !ok || reparsed != id {
			t.Fatalf("id %d did not round-trip through String: got %d, ok=%v", id, reparsed, ok)
		}
	})
}
