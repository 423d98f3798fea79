package review

import "testing"

func TestParseComplexityAcceptsClosedSet(t *testing.T) {
	for raw, want := range map[string]Complexity{
		"low":    ComplexityLow,
		"Medium": ComplexityMedium,
		" HIGH ": ComplexityHigh,
	} {
		got, err := ParseComplexity(raw)
		if err != nil {
			t.Fatalf("ParseComplexity(%q) error = %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseComplexity(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestParseComplexityRejectsUnknownValue(t *testing.T) {
	if _, err := ParseComplexity("extreme"); err == nil {
		t.Fatalf("ParseComplexity(extreme) expected error")
	}
}

func TestParseSeverityRejectsUnknownValue(t *testing.T) {
	if _, err := ParseSeverity("critical"); err == nil {
		t.Fatalf("ParseSeverity(critical) expected error")
	}
}

func TestParseIssueCategory(t *testing.T) {
	for _, raw := range []string{"bug", "security", "performance", "style", "maintainability", "testing"} {
		if _, err := ParseIssueCategory(raw); err != nil {
			t.Fatalf("ParseIssueCategory(%q) error = %v", raw, err)
		}
	}
	if _, err := ParseIssueCategory("docs"); err == nil {
		t.Fatalf("ParseIssueCategory(docs) expected error")
	}
}

func TestBucketForScore(t *testing.T) {
	tests := []struct {
		score int
		want  QualityBucket
	}{
		{score: 95, want: BucketHigh},
		{score: 80, want: BucketHigh},
		{score: 79, want: BucketMedium},
		{score: 60, want: BucketMedium},
		{score: 59, want: BucketLow},
		{score: 0, want: BucketLow},
	}
	for _, tt := range tests {
		if got := BucketForScore(tt.score); got != tt.want {
			t.Fatalf("BucketForScore(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}
