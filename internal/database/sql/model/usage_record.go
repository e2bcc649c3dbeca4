package model

import (
	"resourcegen/internal/core"
	"resourcegen/internal/database/usage"
	"time"
)

type UsageRecord struct {
	Identity  string    `gorm:"primaryKey;size:320"`
	Count     int       `gorm:"not null;default:0"`
	Paid      bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (UsageRecord) TableName() string {
	return string(core.SQLTableUsageRecords)
}

func (m *UsageRecord) ToRecord() *usage.Record {
	return &usage.Record{Identity: m.Identity, Count: m.Count, Paid: m.Paid}
}
