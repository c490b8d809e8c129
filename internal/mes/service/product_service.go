package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/wmarfa/production-db/internal/mes/entity"
	"github.com/wmarfa/production-db/internal/mes/repository"
)

// ProductInput 产品提交
type ProductInput struct {
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Circuit    float64 `json:"circuit"`
	MHR        float64 `json:"mhr"`
	QtyPerPack int     `json:"qty_per_pack"`
}

// ProductService 产品主数据
type ProductService struct {
	repo *repository.ProductRepository
}

func NewProductService(repo *repository.ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

// Create 创建产品
func (s *ProductService) Create(ctx context.Context, input *ProductInput) (*entity.Product, error) {
	if input.Code == "" {
		return nil, fmt.Errorf("%w: code is required", ErrValidation)
	}
	if input.Circuit <= 0 {
		return nil, fmt.Errorf("%w: circuit must be positive", ErrValidation)
	}
	if _, err := s.repo.FindByCode(ctx, input.Code); err == nil {
		return nil, fmt.Errorf("%w: code %s already exists", ErrValidation, input.Code)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check product code: %w", err)
	}
	p := &entity.Product{
		ID:         uuid.New().String()[:32],
		Code:       input.Code,
		Name:       input.Name,
		Circuit:    input.Circuit,
		MHR:        input.MHR,
		QtyPerPack: input.QtyPerPack,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

// Get 产品查询（聚合引擎的catalog lookup入口）
func (s *ProductService) Get(ctx context.Context, id string) (*entity.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// List 产品列表
func (s *ProductService) List(ctx context.Context, params repository.ProductListParams) ([]entity.Product, int64, error) {
	return s.repo.List(ctx, params)
}

// Update 行政修正产品字段
func (s *ProductService) Update(ctx context.Context, id string, input *ProductInput) (*entity.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Code != "" {
		p.Code = input.Code
	}
	p.Name = input.Name
	if input.Circuit > 0 {
		p.Circuit = input.Circuit
	}
	if input.MHR > 0 {
		p.MHR = input.MHR
	}
	if input.QtyPerPack >= 0 {
		p.QtyPerPack = input.QtyPerPack
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return p, nil
}

// Delete 删除产品。仍被任何产出行引用时拒绝，不落任何变更。
func (s *ProductService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	refs, err := s.repo.CountLineRefs(ctx, id)
	if err != nil {
		return fmt.Errorf("count product refs: %w", err)
	}
	if refs > 0 {
		return fmt.Errorf("%w: %d lines", ErrProductReferenced, refs)
	}
	return s.repo.Delete(ctx, id)
}
