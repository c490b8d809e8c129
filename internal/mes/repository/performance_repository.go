package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/wmarfa/production-db/internal/mes/entity"
)

type PerformanceRepository struct {
	db *gorm.DB
}

func NewPerformanceRepository(db *gorm.DB) *PerformanceRepository {
	return &PerformanceRepository{db: db}
}

func (r *PerformanceRepository) DB() *gorm.DB {
	return r.db
}

// FindByID 根据ID查找日报（含两类行项及其产品）
func (r *PerformanceRepository) FindByID(ctx context.Context, id string) (*entity.DailyPerformance, error) {
	var record entity.DailyPerformance
	err := r.db.WithContext(ctx).
		Preload("AssemblyLines").
		Preload("AssemblyLines.Product").
		Preload("PackingLines").
		Preload("PackingLines.Product").
		First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// FindHeaderByID 只取头表，不带行项
func (r *PerformanceRepository) FindHeaderByID(ctx context.Context, id string) (*entity.DailyPerformance, error) {
	var record entity.DailyPerformance
	err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ListByDate 某天的日报（可按线/班次过滤），含行项
func (r *PerformanceRepository) ListByDate(ctx context.Context, date, lineShift string) ([]entity.DailyPerformance, error) {
	query := r.db.WithContext(ctx).
		Preload("AssemblyLines").
		Preload("PackingLines").
		Where("date = ?", date)
	if lineShift != "" {
		query = query.Where("line_shift = ?", lineShift)
	}
	var records []entity.DailyPerformance
	err := query.Order("line_shift ASC").Find(&records).Error
	return records, err
}

type PerformanceListParams struct {
	DateFrom  string
	DateTo    string
	LineShift string
	Page      int
	Size      int
}

// List 日报列表（日期区间+线/班次过滤+分页），仅头表
func (r *PerformanceRepository) List(ctx context.Context, params PerformanceListParams) ([]entity.DailyPerformance, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.DailyPerformance{})
	if params.DateFrom != "" {
		query = query.Where("date >= ?", params.DateFrom)
	}
	if params.DateTo != "" {
		query = query.Where("date <= ?", params.DateTo)
	}
	if params.LineShift != "" {
		query = query.Where("line_shift = ?", params.LineShift)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 || params.Size > 100 {
		params.Size = 20
	}
	var records []entity.DailyPerformance
	err := query.Order("date DESC, line_shift ASC").
		Offset((params.Page - 1) * params.Size).
		Limit(params.Size).
		Find(&records).Error
	return records, total, err
}
