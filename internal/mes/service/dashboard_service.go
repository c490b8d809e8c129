package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/wmarfa/production-db/internal/mes/entity"
	"github.com/wmarfa/production-db/internal/mes/metric"
	"github.com/wmarfa/production-db/internal/mes/repository"
)

// DailyMetrics 日报+派生指标。每次请求现算，不缓存——
// catalog变更后重新聚合的结果才是准的，头表快照列只是写入时的副本。
type DailyMetrics struct {
	entity.DailyPerformance

	ActualOutput   int     `json:"actual_output"`
	WeightedOutput float64 `json:"weighted_output"`
	UsedLaborHours float64 `json:"used_labor_hours"`
	Efficiency     float64 `json:"efficiency"`
	PlanCompletion float64 `json:"plan_completion"`
	ThroughputRate float64 `json:"throughput_rate"`
	AbsentRate     float64 `json:"absent_rate"`
	SeparationRate float64 `json:"separation_rate"`
	ManningRate    float64 `json:"manning_rate"`
	Status         string  `json:"status"`

	AbsentRateScore     float64 `json:"absent_rate_score"`
	SeparationRateScore float64 `json:"separation_rate_score"`
	PlanCompletionScore float64 `json:"plan_completion_score"`
	ThroughputScore     float64 `json:"throughput_score"`
	TotalScore          float64 `json:"total_score"`
	Tier                string  `json:"tier"`

	// 解析不到的产品ID；对应行按0权重计入，不中断整个看板
	UnknownProducts []string `json:"unknown_products,omitempty"`
}

// DashboardService 聚合引擎：把日报+行项+catalog折算成看板指标
type DashboardService struct {
	perfRepo    *repository.PerformanceRepository
	productRepo *repository.ProductRepository
	logger      *zap.Logger
}

func NewDashboardService(perfRepo *repository.PerformanceRepository, productRepo *repository.ProductRepository, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{perfRepo: perfRepo, productRepo: productRepo, logger: logger}
}

// GetDailyMetrics 某天（可选线/班次过滤）全部日报的派生指标。
// 产能得分以同一查询范围内的最高产能归一。
func (s *DashboardService) GetDailyMetrics(ctx context.Context, date, lineShift string) ([]DailyMetrics, error) {
	records, err := s.perfRepo.ListByDate(ctx, date, lineShift)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	// 一次性解析范围内引用到的所有产品
	idSet := make(map[string]struct{})
	for _, r := range records {
		for _, line := range r.AssemblyLines {
			idSet[line.ProductID] = struct{}{}
		}
	}
	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve products: %w", err)
	}

	results := make([]DailyMetrics, 0, len(records))
	maxRate := 0.0
	for _, r := range records {
		m := s.compute(r, products)
		if m.ThroughputRate > maxRate {
			maxRate = m.ThroughputRate
		}
		results = append(results, m)
	}

	// 第二遍：产能得分依赖范围内的最高产能
	for i := range results {
		results[i].ThroughputScore = metric.ThroughputScore(results[i].ThroughputRate, maxRate)
		results[i].TotalScore = results[i].AbsentRateScore +
			results[i].SeparationRateScore +
			results[i].PlanCompletionScore +
			results[i].ThroughputScore
		results[i].Tier = metric.Tier(results[i].TotalScore)
	}
	return results, nil
}

// GetRecordMetrics 单条日报的派生指标。maxObservedRate由调用方给定
// （通常取同日全部线的最高产能），引擎自身不保存该状态。
func (s *DashboardService) GetRecordMetrics(ctx context.Context, id string, maxObservedRate float64) (*DailyMetrics, error) {
	record, err := s.perfRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(record.AssemblyLines))
	for _, line := range record.AssemblyLines {
		ids = append(ids, line.ProductID)
	}
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve products: %w", err)
	}

	m := s.compute(*record, products)
	m.ThroughputScore = metric.ThroughputScore(m.ThroughputRate, maxObservedRate)
	m.TotalScore = m.AbsentRateScore + m.SeparationRateScore + m.PlanCompletionScore + m.ThroughputScore
	m.Tier = metric.Tier(m.TotalScore)
	return &m, nil
}

// compute 产能得分之外的全部指标（产能得分需要范围内最高产能，由调用方补齐）
func (s *DashboardService) compute(r entity.DailyPerformance, products map[string]entity.Product) DailyMetrics {
	m := DailyMetrics{DailyPerformance: r}

	seenUnknown := make(map[string]struct{})
	for _, line := range r.AssemblyLines {
		m.ActualOutput += line.OutputQty
		p, ok := products[line.ProductID]
		if !ok {
			// 未知产品按0权重计入，标记异常但不中断聚合；同一产品只记一次
			if _, dup := seenUnknown[line.ProductID]; !dup {
				seenUnknown[line.ProductID] = struct{}{}
				m.UnknownProducts = append(m.UnknownProducts, line.ProductID)
				s.logger.Warn("assembly line references unknown product",
					zap.String("daily_id", r.ID),
					zap.String("product_id", line.ProductID),
				)
			}
			continue
		}
		m.WeightedOutput += float64(line.OutputQty) * p.Circuit
	}

	m.UsedLaborHours = metric.UsedLaborHours(
		float64(r.NoOvertimeManpower),
		float64(r.OvertimeManpower),
		r.OvertimeHours,
	)
	// 效率口径：台数产出/投入工时，不做circuit加权
	m.Efficiency = metric.Efficiency(float64(m.ActualOutput), m.UsedLaborHours)
	m.PlanCompletion = metric.PlanCompletion(float64(m.ActualOutput), float64(r.Plan))
	m.ThroughputRate = metric.ThroughputRate(m.WeightedOutput, m.UsedLaborHours)

	if r.ManpowerTotal > 0 {
		m.AbsentRate = float64(r.AbsentCount) / float64(r.ManpowerTotal) * 100
		m.SeparationRate = float64(r.SeparatedCount) / float64(r.ManpowerTotal) * 100
		m.ManningRate = float64(r.ManpowerTotal-r.AbsentCount-r.SeparatedCount) / float64(r.ManpowerTotal) * 100
	}
	m.Status = metric.Status(m.PlanCompletion)

	m.AbsentRateScore = metric.AbsentRateScore(m.AbsentRate)
	m.SeparationRateScore = metric.SeparationRateScore(m.SeparationRate)
	m.PlanCompletionScore = metric.PlanCompletionScore(m.PlanCompletion)
	return m
}
