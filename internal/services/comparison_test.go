package services

import "testing"

func strPtr(s string) *string { return &s }

func TestNormalizedComparator(t *testing.T) {
	cmp := NormalizedComparator{}

	cases := []struct {
		name       string
		online     *string
		offline    *string
		consistent bool
	}{
		{"equal integers", strPtr("5"), strPtr("5"), true},
		{"integer vs float form", strPtr("5"), strPtr("5.0"), true},
		{"whitespace tolerated", strPtr(" 11 "), strPtr("11"), true},
		{"both absent", nil, nil, true},
		{"online absent", nil, strPtr("3"), false},
		{"offline absent", strPtr("3"), nil, false},
		{"different values", strPtr("4"), strPtr("7"), false},
		{"equal strings", strPtr("abc"), strPtr("abc"), true},
	}
	for _, tc := range cases {
		consistent, diff := cmp.Compare(tc.online, tc.offline)
		if consistent != tc.consistent {
			t.Fatalf("%s: got consistent=%v", tc.name, consistent)
		}
		if !consistent && diff == "" {
			t.Fatalf("%s: expected difference description", tc.name)
		}
	}
}

func TestExactComparator(t *testing.T) {
	cmp := ExactComparator{}

	if ok, _ := cmp.Compare(strPtr("5"), strPtr("5.0")); ok {
		t.Fatalf("exact mode must not normalize numbers")
	}
	if ok, _ := cmp.Compare(nil, nil); !ok {
		t.Fatalf("both absent must be consistent")
	}
	if ok, _ := cmp.Compare(strPtr("x"), nil); ok {
		t.Fatalf("absent vs present must be inconsistent")
	}
	if ok, _ := cmp.Compare(strPtr("x"), strPtr("x")); !ok {
		t.Fatalf("identical strings must be consistent")
	}
}

func TestNewComparator(t *testing.T) {
	if _, err := NewComparator(""); err != nil {
		t.Fatalf("empty mode defaults to normalized: %v", err)
	}
	if _, err := NewComparator("exact"); err != nil {
		t.Fatalf("exact: %v", err)
	}
	if _, err := NewComparator("fuzzy"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}
