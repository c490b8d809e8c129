package metric

import (
	"math"
	"testing"
)

func approx(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestUsedLaborHours(t *testing.T) {
	if got := UsedLaborHours(0, 0, 3.5); got != 0 {
		t.Errorf("Expected 0 with no manpower, got %v", got)
	}
	// 45 workers * 7.66h + 5 workers * 2h overtime
	if got := UsedLaborHours(45, 5, 2.0); !approx(got, 354.7, 1e-9) {
		t.Errorf("Expected 354.7, got %v", got)
	}
	// linear in each input
	base := UsedLaborHours(10, 4, 1.5)
	if got := UsedLaborHours(20, 8, 1.5); !approx(got, 2*base, 1e-9) {
		t.Errorf("Expected linearity, got %v vs 2*%v", got, base)
	}
}

func TestZeroDenominators(t *testing.T) {
	cases := []struct {
		name string
		got  float64
	}{
		{"efficiency", Efficiency(100, 0)},
		{"plan completion", PlanCompletion(100, 0)},
		{"throughput rate", ThroughputRate(22000, 0)},
		{"throughput score", ThroughputScore(62, 0)},
	}
	for _, c := range cases {
		if c.got != 0 {
			t.Errorf("%s: expected 0 on zero denominator, got %v", c.name, c.got)
		}
		if math.IsNaN(c.got) || math.IsInf(c.got, 0) {
			t.Errorf("%s: got non-finite value %v", c.name, c.got)
		}
	}
}

func TestAbsentRateScore(t *testing.T) {
	if got := AbsentRateScore(0); got != 30 {
		t.Errorf("AbsentRateScore(0) = %v, want 30", got)
	}
	if got := AbsentRateScore(100); got != 0 {
		t.Errorf("AbsentRateScore(100) = %v, want 0", got)
	}
	// below the 5% threshold
	if got := AbsentRateScore(5); !approx(got, 28.5, 1e-9) {
		t.Errorf("AbsentRateScore(5) = %v, want 28.5", got)
	}
	// penalty branch above 5%, discontinuous at the threshold
	if got := AbsentRateScore(10); !approx(got, (0.7-0.1)*30, 1e-9) {
		t.Errorf("AbsentRateScore(10) = %v, want 18", got)
	}
	// floors at 0 once r >= 0.7
	if got := AbsentRateScore(70); got != 0 {
		t.Errorf("AbsentRateScore(70) = %v, want 0", got)
	}
	if got := AbsentRateScore(85); got != 0 {
		t.Errorf("AbsentRateScore(85) = %v, want 0", got)
	}
}

func TestSeparationRateScore(t *testing.T) {
	if got := SeparationRateScore(0); got != 30 {
		t.Errorf("SeparationRateScore(0) = %v, want exactly 30", got)
	}
	if got := SeparationRateScore(10); !approx(got, 12, 1e-9) {
		t.Errorf("SeparationRateScore(10) = %v, want 12", got)
	}
	if got := SeparationRateScore(50); got != 0 {
		t.Errorf("SeparationRateScore(50) = %v, want 0", got)
	}
	if got := SeparationRateScore(80); got != 0 {
		t.Errorf("SeparationRateScore(80) = %v, want 0", got)
	}
}

func TestPlanCompletionScoreUnclamped(t *testing.T) {
	if got := PlanCompletionScore(100); !approx(got, 20, 1e-9) {
		t.Errorf("PlanCompletionScore(100) = %v, want 20", got)
	}
	// overproduction is not clamped
	if got := PlanCompletionScore(150); !approx(got, 30, 1e-9) {
		t.Errorf("PlanCompletionScore(150) = %v, want 30", got)
	}
	if got := PlanCompletionScore(0); got != 0 {
		t.Errorf("PlanCompletionScore(0) = %v, want 0", got)
	}
}

func TestThroughputScore(t *testing.T) {
	if got := ThroughputScore(62, 62); !approx(got, 20, 1e-9) {
		t.Errorf("ThroughputScore at max = %v, want 20", got)
	}
	if got := ThroughputScore(31, 62); !approx(got, 10, 1e-9) {
		t.Errorf("ThroughputScore at half = %v, want 10", got)
	}
}

func TestTier(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{95, TierExcellent},
		{90, TierExcellent},
		{85, TierGood},
		{80, TierGood},
		{75, TierAverage},
		{70, TierAverage},
		{69.9, TierPoor},
		{0, TierPoor},
	}
	for _, c := range cases {
		if got := Tier(c.score); got != c.want {
			t.Errorf("Tier(%v) = %q, want %q", c.score, got, c.want)
		}
	}
}

func TestStatus(t *testing.T) {
	cases := []struct {
		pct  float64
		want string
	}{
		{100, StatusNormal},
		{95, StatusNormal},
		{88, StatusDegraded},
		{70, StatusDegraded},
		{69, StatusCritical},
		{0, StatusCritical},
	}
	for _, c := range cases {
		if got := Status(c.pct); got != c.want {
			t.Errorf("Status(%v) = %q, want %q", c.pct, got, c.want)
		}
	}
}

func TestShiftScenario(t *testing.T) {
	// plan 100, 45 regular + 5 overtime workers at 2h, one product
	// with circuit 250, 88 units produced
	used := UsedLaborHours(45, 5, 2.0)
	if !approx(used, 354.7, 1e-9) {
		t.Fatalf("used labor hours = %v, want 354.7", used)
	}
	if got := PlanCompletion(88, 100); !approx(got, 88, 1e-9) {
		t.Errorf("plan completion = %v, want 88", got)
	}
	weighted := 88.0 * 250.0
	if weighted != 22000 {
		t.Fatalf("weighted output = %v, want 22000", weighted)
	}
	rate := ThroughputRate(weighted, used)
	if !approx(rate, 22000/354.7, 1e-9) || !approx(rate, 62.02, 0.01) {
		t.Errorf("throughput rate = %v, want ~62.02", rate)
	}
}
