// Package usage defines the per-identity quota record and the store
// contract shared by every backend.
package usage

import (
	"context"
	"errors"
)

var (
	ErrNotFound      = errors.New("usage record not found")
	ErrAlreadyExists = errors.New("usage record already exists")
	// ErrLimitReached 條件式累加被拒（未付費且 count 已達上限）
	ErrLimitReached = errors.New("usage limit reached")
)

// Record 一個身份一筆；count 為已消耗的計量次數，paid 為 true 時不計量
type Record struct {
	Identity string `json:"identity"`
	Count    int    `json:"count"`
	Paid     bool   `json:"paid"`
}

type Stats struct {
	Identities     int64 `json:"identities"`
	PaidIdentities int64 `json:"paid_identities"`
	MeteredUnits   int64 `json:"metered_units"`
}

// Store 所有操作對單一身份皆為原子操作
type Store interface {
	// Get 找不到時回傳 ErrNotFound
	Get(ctx context.Context, identity string) (*Record, error)
	// Create 僅在不存在時建立，已存在回傳 ErrAlreadyExists
	Create(ctx context.Context, identity string, count int, paid bool) error
	// IncrementCount 以單一條件式語句累加：paid 或 limit <= 0 或 count < limit 才會 +1。
	// 不存在回傳 ErrNotFound，被上限擋下回傳 ErrLimitReached。
	IncrementCount(ctx context.Context, identity string, limit int) (int, error)
	// SetPaid upsert：不存在時建立 {count:0, paid:true}，存在時只改 paid
	SetPaid(ctx context.Context, identity string) error
	Stats(ctx context.Context) (Stats, error)
}
