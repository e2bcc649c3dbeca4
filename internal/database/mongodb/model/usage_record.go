package model

import (
	"resourcegen/internal/database/usage"
	"time"
)

type UsageRecord struct {
	Identity  string    `bson:"identity" json:"identity"`
	Count     int       `bson:"count" json:"count"`
	Paid      bool      `bson:"paid" json:"paid"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (m *UsageRecord) ToRecord() *usage.Record {
	return &usage.Record{Identity: m.Identity, Count: m.Count, Paid: m.Paid}
}
