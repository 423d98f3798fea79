package model

import "time"

type Alert struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	Type      string    `gorm:"column:type;type:text;not null"`
	Severity  string    `gorm:"column:severity;type:text;not null"`
	Message   string    `gorm:"column:message;type:text;not null"`
	Metadata  string    `gorm:"column:metadata;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index"`
}

func (Alert) TableName() string {
	return "alerts"
}
