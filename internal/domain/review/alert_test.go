package review

import "testing"

func TestEvaluateQualityBoundaries(t *testing.T) {
	tests := []struct {
		name         string
		score        int
		wantFire     bool
		wantSeverity AlertSeverity
	}{
		{name: "zero score fires high", score: 0, wantFire: true, wantSeverity: AlertSeverityHigh},
		{name: "39 fires high", score: 39, wantFire: true, wantSeverity: AlertSeverityHigh},
		{name: "40 fires medium", score: 40, wantFire: true, wantSeverity: AlertSeverityMedium},
		{name: "59 fires medium", score: 59, wantFire: true, wantSeverity: AlertSeverityMedium},
		{name: "60 does not fire", score: 60, wantFire: false},
		{name: "100 does not fire", score: 100, wantFire: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := EvaluateQuality(tt.score)
			if decision.Fire != tt.wantFire {
				t.Fatalf("EvaluateQuality(%d).Fire = %v, want %v", tt.score, decision.Fire, tt.wantFire)
			}
			if !tt.wantFire {
				return
			}
			if decision.Type != AlertTypeLowQuality {
				t.Fatalf("EvaluateQuality(%d).Type = %q, want %q", tt.score, decision.Type, AlertTypeLowQuality)
			}
			if decision.Severity != tt.wantSeverity {
				t.Fatalf("EvaluateQuality(%d).Severity = %q, want %q", tt.score, decision.Severity, tt.wantSeverity)
			}
		})
	}
}
