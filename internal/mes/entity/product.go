package entity

import "time"

// Product 产品主数据（装配/包装产出行项的计量基准）
type Product struct {
	ID         string    `json:"id" gorm:"primaryKey;size:32"`
	Code       string    `json:"code" gorm:"size:64;not null;uniqueIndex"`
	Name       string    `json:"name" gorm:"size:128"`
	Circuit    float64   `json:"circuit" gorm:"type:decimal(15,4);not null"`      // 单台circuit权重，加权产能用
	MHR        float64   `json:"mhr" gorm:"type:decimal(15,4);not null"`          // 标准工时
	QtyPerPack int       `json:"qty_per_pack" gorm:"not null;default:0"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}
