package model

import "time"

type CodeAnalysis struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	PRURL        string    `gorm:"column:pr_url;type:text;not null"`
	PRTitle      string    `gorm:"column:pr_title;type:text"`
	QualityScore int       `gorm:"column:quality_score;not null"`
	Complexity   string    `gorm:"column:complexity;type:text;not null"`
	TechDebt     int       `gorm:"column:tech_debt;not null"`
	AnalysisData string    `gorm:"column:analysis_data;type:text;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime;index"`
}

func (CodeAnalysis) TableName() string {
	return "code_analysis"
}
