package mdsite

import (
	"slices"
	"testing"
)

func TestOrderKey_Compare(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b OrderKey
		want int
	}{
		{"numbers compare numerically", NumericOrder(2), NumericOrder(10), -1},
		{"numeric strings compare numerically", StringOrder("9"), StringOrder("153"), -1},
		{"number equals numeric string", NumericOrder(153), StringOrder("153"), 0},
		{"number before string", NumericOrder(1000), StringOrder("a"), -1},
		{"string after number", StringOrder("a"), NumericOrder(1), 1},
		{"strings compare lexically", StringOrder("apple"), StringOrder("banana"), -1},
		{"empty after number", OrderKey{}, NumericOrder(1), 1},
		{"empty after string", StringOrder(""), StringOrder("z"), 1},
		{"empty equals empty", OrderKey{}, StringOrder("  "), 0},
		{"fractional", NumericOrder(1.5), NumericOrder(1.25), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.a.Compare(tt.b); got != tt.want {
				t.Errorf("Compare(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
			if got := tt.b.Compare(tt.a); got != -tt.want {
				t.Errorf("Compare(%q, %q) = %d, want %d", tt.b, tt.a, got, -tt.want)
			}
		})
	}
}

func TestStringOrder(t *testing.T) {
	t.Parallel()

	if !StringOrder("153").IsNumeric() {
		t.Error("StringOrder(\"153\") should be numeric")
	}
	if StringOrder("tip-153").IsNumeric() {
		t.Error("StringOrder(\"tip-153\") should not be numeric")
	}
	if !StringOrder("").IsZero() {
		t.Error("StringOrder(\"\") should be zero")
	}
	if got := NumericOrder(153).String(); got != "153" {
		t.Errorf("NumericOrder(153).String() = %q, want %q", got, "153")
	}
}

func TestSortDocuments(t *testing.T) {
	t.Parallel()

	docs := []*Document{
		{SourcePath: "d.md", Permalink: "d", Order: StringOrder("")},
		{SourcePath: "c.md", Permalink: "c", Order: StringOrder("intro")},
		{SourcePath: "b2.md", Permalink: "tips/153", Order: NumericOrder(153)},
		{SourcePath: "a.md", Permalink: "tips/1", Order: StringOrder("1")},
		{SourcePath: "b1.md", Permalink: "tips/153b", Order: NumericOrder(153)},
		{SourcePath: "e.md", Permalink: "tips/10", Order: NumericOrder(10)},
	}

	SortDocuments(docs)

	var got []string
	for _, d := range docs {
		got = append(got, d.Permalink)
	}
	want := []string{"tips/1", "tips/10", "tips/153", "tips/153b", "c", "d"}
	if !slices.Equal(got, want) {
		t.Errorf("SortDocuments() order = %v, want %v", got, want)
	}
}

func TestSortDocuments_TieBreaksOnSourcePath(t *testing.T) {
	t.Parallel()

	docs := []*Document{
		{SourcePath: "z.md", Permalink: "same"},
		{SourcePath: "a.md", Permalink: "same"},
	}
	SortDocuments(docs)

	if docs[0].SourcePath != "a.md" {
		t.Errorf("first document = %s, want a.md", docs[0].SourcePath)
	}
}
