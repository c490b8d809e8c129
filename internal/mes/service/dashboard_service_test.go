package service

import (
	"context"
	"math"
	"testing"

	"gorm.io/gorm"

	"github.com/wmarfa/production-db/internal/mes/metric"
	"github.com/wmarfa/production-db/internal/mes/repository"
	"github.com/wmarfa/production-db/internal/mes/testutil"
)

func setupDashboardTest(t *testing.T) (*gorm.DB, *DashboardService, *PerformanceService) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	dashSvc := NewDashboardService(repos.Performance, repos.Product, nil)
	perfSvc := NewPerformanceService(db, repos.Performance)
	return db, dashSvc, perfSvc
}

func TestDailyMetricsScenario(t *testing.T) {
	db, dashSvc, perfSvc := setupDashboardTest(t)
	ctx := context.Background()
	p := testutil.SeedProduct(t, db, "PCB-A", 250, 0.5)

	id, err := perfSvc.Create(ctx, &RecordInput{
		Date:               "2026-09-01",
		LineShift:          "LINE-5 DAY",
		ManpowerTotal:      50,
		AbsentCount:        5,
		SeparatedCount:     1,
		Plan:               100,
		NoOvertimeManpower: 45,
		OvertimeManpower:   5,
		OvertimeHours:      2.0,
		AssemblyLines:      []LineEntry{{ProductID: p.ID, Qty: 88}},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	metrics, err := dashSvc.GetDailyMetrics(ctx, "2026-09-01", "")
	if err != nil {
		t.Fatalf("GetDailyMetrics failed: %v", err)
	}
	if len(metrics) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(metrics))
	}
	m := metrics[0]

	if math.Abs(m.UsedLaborHours-354.7) > 1e-9 {
		t.Errorf("used labor hours = %v, want 354.7", m.UsedLaborHours)
	}
	if m.ActualOutput != 88 {
		t.Errorf("actual output = %d, want 88", m.ActualOutput)
	}
	if math.Abs(m.PlanCompletion-88) > 1e-9 {
		t.Errorf("plan completion = %v, want 88", m.PlanCompletion)
	}
	if math.Abs(m.WeightedOutput-22000) > 1e-9 {
		t.Errorf("weighted output = %v, want 22000", m.WeightedOutput)
	}
	if math.Abs(m.ThroughputRate-22000/354.7) > 1e-9 {
		t.Errorf("throughput rate = %v, want %v", m.ThroughputRate, 22000/354.7)
	}
	if math.Abs(m.AbsentRate-10) > 1e-9 {
		t.Errorf("absent rate = %v, want 10", m.AbsentRate)
	}
	if math.Abs(m.ManningRate-88) > 1e-9 {
		t.Errorf("manning rate = %v, want 88", m.ManningRate)
	}
	if m.Status != metric.StatusDegraded {
		t.Errorf("status = %q, want degraded at 88%% completion", m.Status)
	}
	// single record in scope is its own max observed rate
	if math.Abs(m.ThroughputScore-20) > 1e-9 {
		t.Errorf("throughput score = %v, want 20", m.ThroughputScore)
	}
	wantTotal := metric.AbsentRateScore(10) + metric.SeparationRateScore(2) +
		metric.PlanCompletionScore(88) + 20
	if math.Abs(m.TotalScore-wantTotal) > 1e-9 {
		t.Errorf("total score = %v, want %v", m.TotalScore, wantTotal)
	}
	if m.Tier != metric.Tier(wantTotal) {
		t.Errorf("tier = %q, want %q", m.Tier, metric.Tier(wantTotal))
	}

	// single-record path with a caller-supplied comparison rate
	single, err := dashSvc.GetRecordMetrics(ctx, id, m.ThroughputRate*2)
	if err != nil {
		t.Fatalf("GetRecordMetrics failed: %v", err)
	}
	if math.Abs(single.ThroughputScore-10) > 1e-9 {
		t.Errorf("throughput score at half of max = %v, want 10", single.ThroughputScore)
	}
}

func TestDailyMetricsMaxRateAcrossScope(t *testing.T) {
	db, dashSvc, perfSvc := setupDashboardTest(t)
	ctx := context.Background()
	p := testutil.SeedProduct(t, db, "PCB-A", 100, 0.5)

	mkRecord := func(lineShift string, qty int) {
		t.Helper()
		_, err := perfSvc.Create(ctx, &RecordInput{
			Date:               "2026-09-01",
			LineShift:          lineShift,
			Plan:               100,
			NoOvertimeManpower: 10,
			AssemblyLines:      []LineEntry{{ProductID: p.ID, Qty: qty}},
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	mkRecord("LINE-1 DAY", 100)
	mkRecord("LINE-2 DAY", 50)

	metrics, err := dashSvc.GetDailyMetrics(ctx, "2026-09-01", "")
	if err != nil {
		t.Fatalf("GetDailyMetrics failed: %v", err)
	}
	if len(metrics) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(metrics))
	}
	byShift := map[string]DailyMetrics{}
	for _, m := range metrics {
		byShift[m.LineShift] = m
	}
	if s := byShift["LINE-1 DAY"].ThroughputScore; math.Abs(s-20) > 1e-9 {
		t.Errorf("fastest line score = %v, want 20", s)
	}
	if s := byShift["LINE-2 DAY"].ThroughputScore; math.Abs(s-10) > 1e-9 {
		t.Errorf("half-rate line score = %v, want 10", s)
	}

	// line/shift filter narrows the comparison scope
	filtered, err := dashSvc.GetDailyMetrics(ctx, "2026-09-01", "LINE-2 DAY")
	if err != nil {
		t.Fatalf("Filtered GetDailyMetrics failed: %v", err)
	}
	if len(filtered) != 1 {
		t.Fatalf("Expected 1 filtered record, got %d", len(filtered))
	}
	if s := filtered[0].ThroughputScore; math.Abs(s-20) > 1e-9 {
		t.Errorf("alone in scope, score = %v, want 20", s)
	}
}

func TestUnknownProductDoesNotAbortAggregation(t *testing.T) {
	db, dashSvc, perfSvc := setupDashboardTest(t)
	ctx := context.Background()
	p := testutil.SeedProduct(t, db, "PCB-A", 100, 0.5)

	record := &RecordInput{
		Date:               "2026-09-01",
		LineShift:          "LINE-1 DAY",
		Plan:               100,
		NoOvertimeManpower: 10,
		AssemblyLines: []LineEntry{
			{ProductID: p.ID, Qty: 30},
			{ProductID: "ghost-product-id", Qty: 10},
			{ProductID: "ghost-product-id", Qty: 5},
		},
	}
	if _, err := perfSvc.Create(ctx, record); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	metrics, err := dashSvc.GetDailyMetrics(ctx, "2026-09-01", "")
	if err != nil {
		t.Fatalf("GetDailyMetrics failed: %v", err)
	}
	m := metrics[0]
	// unknown product still counts toward raw output, contributes zero weight
	if m.ActualOutput != 45 {
		t.Errorf("actual output = %d, want 45", m.ActualOutput)
	}
	if math.Abs(m.WeightedOutput-3000) > 1e-9 {
		t.Errorf("weighted output = %v, want 3000", m.WeightedOutput)
	}
	// a missing product is reported once no matter how many lines reference it
	if len(m.UnknownProducts) != 1 || m.UnknownProducts[0] != "ghost-product-id" {
		t.Errorf("unknown products = %v", m.UnknownProducts)
	}
}

func TestDuplicateProductLinesAreSummed(t *testing.T) {
	db, dashSvc, perfSvc := setupDashboardTest(t)
	ctx := context.Background()
	p := testutil.SeedProduct(t, db, "PCB-A", 10, 0.5)

	_, err := perfSvc.Create(ctx, &RecordInput{
		Date:               "2026-09-01",
		LineShift:          "LINE-1 DAY",
		Plan:               100,
		NoOvertimeManpower: 10,
		AssemblyLines: []LineEntry{
			{ProductID: p.ID, Qty: 30},
			{ProductID: p.ID, Qty: 20},
		},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	metrics, err := dashSvc.GetDailyMetrics(ctx, "2026-09-01", "")
	if err != nil {
		t.Fatalf("GetDailyMetrics failed: %v", err)
	}
	m := metrics[0]
	if m.ActualOutput != 50 {
		t.Errorf("actual output = %d, want 50", m.ActualOutput)
	}
	if math.Abs(m.WeightedOutput-500) > 1e-9 {
		t.Errorf("weighted output = %v, want 500", m.WeightedOutput)
	}
}
