package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wmarfa/production-db/internal/mes/entity"
	"github.com/wmarfa/production-db/internal/mes/repository"
)

// LineEntry 表单提交的一条产出行：产品引用+数量，按提交顺序排列
type LineEntry struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

// RecordInput 日报提交：头表字段+两组产出行
type RecordInput struct {
	Date                string      `json:"date"`
	LineShift           string      `json:"line_shift"`
	Leader              string      `json:"leader"`
	ManpowerTotal       int         `json:"manpower_total"`
	AbsentCount         int         `json:"absent_count"`
	SeparatedCount      int         `json:"separated_count"`
	Plan                int         `json:"plan"`
	NoOvertimeManpower  int         `json:"no_overtime_manpower"`
	OvertimeManpower    int         `json:"overtime_manpower"`
	OvertimeHours       float64     `json:"overtime_hours"`
	AssemblyWorkingTime float64     `json:"assembly_working_time"`
	QualityControlCount int         `json:"quality_control_count"`
	AssemblyLines       []LineEntry `json:"assembly_lines"`
	PackingLines        []LineEntry `json:"packing_lines"`
}

// PerformanceService 日报存储：头表+行项的原子生命周期
type PerformanceService struct {
	db   *gorm.DB
	repo *repository.PerformanceRepository
}

func NewPerformanceService(db *gorm.DB, repo *repository.PerformanceRepository) *PerformanceService {
	return &PerformanceService{db: db, repo: repo}
}

// filterLines 丢弃产品为空或数量为空/0的行，不落库
func filterLines(entries []LineEntry) []LineEntry {
	filtered := make([]LineEntry, 0, len(entries))
	for _, e := range entries {
		if e.ProductID == "" || e.Qty <= 0 {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered
}

func sumQty(entries []LineEntry) int {
	total := 0
	for _, e := range entries {
		total += e.Qty
	}
	return total
}

func (s *PerformanceService) validate(input *RecordInput) error {
	if input.Date == "" {
		return fmt.Errorf("%w: date is required", ErrValidation)
	}
	if input.LineShift == "" {
		return fmt.Errorf("%w: line_shift is required", ErrValidation)
	}
	return nil
}

// Create 创建日报：头表+全部行项一个事务，任一语句失败整体不落库
func (s *PerformanceService) Create(ctx context.Context, input *RecordInput) (string, error) {
	if err := s.validate(input); err != nil {
		return "", err
	}

	assyLines := filterLines(input.AssemblyLines)
	packLines := filterLines(input.PackingLines)

	record := &entity.DailyPerformance{
		ID:                  uuid.New().String()[:32],
		Date:                input.Date,
		LineShift:           input.LineShift,
		Leader:              input.Leader,
		ManpowerTotal:       input.ManpowerTotal,
		AbsentCount:         input.AbsentCount,
		SeparatedCount:      input.SeparatedCount,
		Plan:                input.Plan,
		NoOvertimeManpower:  input.NoOvertimeManpower,
		OvertimeManpower:    input.OvertimeManpower,
		OvertimeHours:       input.OvertimeHours,
		AssemblyWorkingTime: input.AssemblyWorkingTime,
		QualityControlCount: input.QualityControlCount,
		TotalAssyOutput:     sumQty(assyLines),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(record).Error; err != nil {
			return fmt.Errorf("create header: %w", err)
		}
		if err := insertLines(tx, record.ID, assyLines, packLines); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return record.ID, nil
}

// Replace 整单替换：更新头表字段，删除两张行项表的全部旧行，
// 重新插入本次提交的行。不做差量合并。
func (s *PerformanceService) Replace(ctx context.Context, id string, input *RecordInput) error {
	if err := s.validate(input); err != nil {
		return err
	}

	assyLines := filterLines(input.AssemblyLines)
	packLines := filterLines(input.PackingLines)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 存在性检查在事务内做，避免检查后、替换前记录被并发删除
		var header entity.DailyPerformance
		if err := tx.First(&header, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return repository.ErrNotFound
			}
			return fmt.Errorf("find record: %w", err)
		}
		updates := map[string]interface{}{
			"date":                  input.Date,
			"line_shift":            input.LineShift,
			"leader":                input.Leader,
			"manpower_total":        input.ManpowerTotal,
			"absent_count":          input.AbsentCount,
			"separated_count":       input.SeparatedCount,
			"plan":                  input.Plan,
			"no_overtime_manpower":  input.NoOvertimeManpower,
			"overtime_manpower":     input.OvertimeManpower,
			"overtime_hours":        input.OvertimeHours,
			"assembly_working_time": input.AssemblyWorkingTime,
			"quality_control_count": input.QualityControlCount,
			"total_assy_output":     sumQty(assyLines),
			"updated_at":            time.Now(),
		}
		if err := tx.Model(&entity.DailyPerformance{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return fmt.Errorf("update header: %w", err)
		}
		if err := tx.Exec("DELETE FROM assy_performance WHERE daily_id = ?", id).Error; err != nil {
			return fmt.Errorf("delete old assembly lines: %w", err)
		}
		if err := tx.Exec("DELETE FROM packing_performance WHERE daily_id = ?", id).Error; err != nil {
			return fmt.Errorf("delete old packing lines: %w", err)
		}
		if err := insertLines(tx, id, assyLines, packLines); err != nil {
			return err
		}
		return nil
	})
}

// Delete 删除日报：先行项后头表，一个事务
func (s *PerformanceService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindHeaderByID(ctx, id); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM assy_performance WHERE daily_id = ?", id).Error; err != nil {
			return fmt.Errorf("delete assembly lines: %w", err)
		}
		if err := tx.Exec("DELETE FROM packing_performance WHERE daily_id = ?", id).Error; err != nil {
			return fmt.Errorf("delete packing lines: %w", err)
		}
		if err := tx.Delete(&entity.DailyPerformance{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("delete header: %w", err)
		}
		return nil
	})
}

// Get 查询单条日报（含行项）
func (s *PerformanceService) Get(ctx context.Context, id string) (*entity.DailyPerformance, error) {
	return s.repo.FindByID(ctx, id)
}

// List 日报列表
func (s *PerformanceService) List(ctx context.Context, params repository.PerformanceListParams) ([]entity.DailyPerformance, int64, error) {
	return s.repo.List(ctx, params)
}

func insertLines(tx *gorm.DB, dailyID string, assyLines, packLines []LineEntry) error {
	now := time.Now()
	if len(assyLines) > 0 {
		rows := make([]entity.AssemblyPerformance, 0, len(assyLines))
		for _, e := range assyLines {
			rows = append(rows, entity.AssemblyPerformance{
				ID:        uuid.New().String()[:32],
				DailyID:   dailyID,
				ProductID: e.ProductID,
				OutputQty: e.Qty,
				CreatedAt: now,
				UpdatedAt: now,
			})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("create assembly lines: %w", err)
		}
	}
	if len(packLines) > 0 {
		rows := make([]entity.PackingPerformance, 0, len(packLines))
		for _, e := range packLines {
			rows = append(rows, entity.PackingPerformance{
				ID:        uuid.New().String()[:32],
				DailyID:   dailyID,
				ProductID: e.ProductID,
				OutputQty: e.Qty,
				CreatedAt: now,
				UpdatedAt: now,
			})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("create packing lines: %w", err)
		}
	}
	return nil
}
