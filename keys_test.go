package tabula

import "testing"

// TestKeyPartCompareByTag verifies each keyPart tag compares in the
// expected direction: signed int, unsigned int, string, and bool.
func TestKeyPartCompareByTag(t *testing.T) {
	if intPart(1).compare(intPart(2)) >= 0 {
		t.Error("intPart(1) should sort before intPart(2)")
	}
	if uintPart(5).compare(uintPart(5)) != 0 {
		t.Error("uintPart(5) should equal uintPart(5)")
	}
	if stringPart("a").compare(stringPart("b")) >= 0 {
		t.Error(`stringPart("a") should sort before stringPart("b")`)
	}
	if boolPart(false).compare(boolPart(true)) >= 0 {
		t.Error("boolPart(false) should sort before boolPart(true)")
	}
}

// TestCompareKeysLexicographic verifies compareKeys compares component by
// component and only consults a later component once all earlier ones
// tie, matching an index's composite-key product order.
func TestCompareKeysLexicographic(t *testing.T) {
	a := Key{intPart(1), uintPart(10)}
	b := Key{intPart(1), uintPart(20)}
	c := Key{intPart(2), uintPart(1)}

	if compareKeys(a, b) >= 0 {
		t.Error("(1,10) should sort before (1,20)")
	}
	if compareKeys(b, c) >= 0 {
		t.Error("(1,20) should sort before (2,1)")
	}
	if compareKeys(a, a) != 0 {
		t.Error("a key should equal itself")
	}
}
