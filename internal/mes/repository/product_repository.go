package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/wmarfa/production-db/internal/mes/entity"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) DB() *gorm.DB {
	return r.db
}

// Create 创建产品
func (r *ProductRepository) Create(ctx context.Context, p *entity.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// FindByID 根据ID查找产品
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*entity.Product, error) {
	var p entity.Product
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByCode 根据产品编码查找
func (r *ProductRepository) FindByCode(ctx context.Context, code string) (*entity.Product, error) {
	var p entity.Product
	err := r.db.WithContext(ctx).First(&p, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByIDs 批量查找，返回 id → product 映射（聚合解析catalog用）
func (r *ProductRepository) FindByIDs(ctx context.Context, ids []string) (map[string]entity.Product, error) {
	result := make(map[string]entity.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var products []entity.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	for _, p := range products {
		result[p.ID] = p
	}
	return result, nil
}

type ProductListParams struct {
	Keyword string
	Page    int
	Size    int
}

// List 产品列表（编码/名称模糊搜索+分页）
func (r *ProductRepository) List(ctx context.Context, params ProductListParams) ([]entity.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Product{})
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("code LIKE ? OR name LIKE ?", kw, kw)
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
	var products []entity.Product
	err := query.Order("code ASC").
		Offset((params.Page - 1) * params.Size).
		Limit(params.Size).
		Find(&products).Error
	return products, total, err
}

// Update 更新产品
func (r *ProductRepository) Update(ctx context.Context, p *entity.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// Delete 删除产品（引用检查在service层）
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&entity.Product{}, "id = ?", id).Error
}

// CountLineRefs 统计装配+包装行项对该产品的引用数
func (r *ProductRepository) CountLineRefs(ctx context.Context, productID string) (int64, error) {
	var assy, packing int64
	if err := r.db.WithContext(ctx).Model(&entity.AssemblyPerformance{}).
		Where("product_id = ?", productID).Count(&assy).Error; err != nil {
		return 0, err
	}
	if err := r.db.WithContext(ctx).Model(&entity.PackingPerformance{}).
		Where("product_id = ?", productID).Count(&packing).Error; err != nil {
		return 0, err
	}
	return assy + packing, nil
}
