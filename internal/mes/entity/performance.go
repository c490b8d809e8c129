package entity

import "time"

// DailyPerformance 日报头表（一条 = 一条线/一个班次一天的汇总）
type DailyPerformance struct {
	ID                  string    `json:"id" gorm:"primaryKey;size:32"`
	Date                string    `json:"date" gorm:"size:10;not null;index"` // YYYY-MM-DD
	LineShift           string    `json:"line_shift" gorm:"size:64;not null;index"`
	Leader              string    `json:"leader" gorm:"size:64"`
	ManpowerTotal       int       `json:"manpower_total" gorm:"not null;default:0"`
	AbsentCount         int       `json:"absent_count" gorm:"not null;default:0"`
	SeparatedCount      int       `json:"separated_count" gorm:"not null;default:0"`
	Plan                int       `json:"plan" gorm:"not null;default:0"`
	NoOvertimeManpower  int       `json:"no_overtime_manpower" gorm:"not null;default:0"`
	OvertimeManpower    int       `json:"overtime_manpower" gorm:"not null;default:0"`
	OvertimeHours       float64   `json:"overtime_hours" gorm:"type:decimal(10,2);not null;default:0"`
	AssemblyWorkingTime float64   `json:"assembly_working_time" gorm:"type:decimal(10,2);not null;default:0"`
	QualityControlCount int       `json:"quality_control_count" gorm:"not null;default:0"`
	// 写入时的装配产出快照，仅供列表页直读；以重新聚合结果为准
	TotalAssyOutput int       `json:"total_assy_output" gorm:"not null;default:0"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// 关联
	AssemblyLines []AssemblyPerformance `json:"assembly_lines,omitempty" gorm:"foreignKey:DailyID"`
	PackingLines  []PackingPerformance  `json:"packing_lines,omitempty" gorm:"foreignKey:DailyID"`
}

func (DailyPerformance) TableName() string {
	return "daily_performance"
}

// AssemblyPerformance 装配产出行项（头表独占，产品只读引用）
type AssemblyPerformance struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	DailyID   string    `json:"daily_id" gorm:"size:32;not null;index"`
	ProductID string    `json:"product_id" gorm:"size:32;not null;index"`
	OutputQty int       `json:"output_qty" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

func (AssemblyPerformance) TableName() string {
	return "assy_performance"
}

// PackingPerformance 包装产出行项
type PackingPerformance struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	DailyID   string    `json:"daily_id" gorm:"size:32;not null;index"`
	ProductID string    `json:"product_id" gorm:"size:32;not null;index"`
	OutputQty int       `json:"output_qty" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

func (PackingPerformance) TableName() string {
	return "packing_performance"
}
