package dto

import (
	"strings"

	"resourcegen/internal/pkg/request"
	"resourcegen/internal/service/generation"
)

// 生成教材請求；email 為 identity 的別名
// 每個欄位都有長度上限，送往生成服務的 prompt 因此有界
type GenerateResourceDto struct {
	Identity     string `json:"identity" binding:"omitempty,max=320" example:"teacher@school.edu"`
	Email        string `json:"email,omitempty" binding:"omitempty,max=320"`
	Grade        string `json:"grade" binding:"omitempty,max=32" example:"5"`
	Subject      string `json:"subject" binding:"omitempty,max=100" example:"Math"`
	ResourceType string `json:"resource_type" binding:"omitempty,max=100" example:"worksheet"`
	Topic        string `json:"topic" binding:"omitempty,max=500" example:"Adding fractions"`
	Standard     string `json:"standard,omitempty" binding:"omitempty,max=500"`
	Length       string `json:"length,omitempty" binding:"omitempty,max=100"`
	Scope        string `json:"scope,omitempty" binding:"omitempty,max=1000"`
	OutputType   string `json:"output_type,omitempty" binding:"omitempty,max=32" example:"text"`

	RequestID string `json:"-"`
}

func (d *GenerateResourceDto) GetMessages() request.ValidatorMessages {
	return request.ValidatorMessages{
		"Identity.max":     "identity must be at most 320 characters",
		"Email.max":        "email must be at most 320 characters",
		"Grade.max":        "grade must be at most 32 characters",
		"Subject.max":      "subject must be at most 100 characters",
		"ResourceType.max": "resource_type must be at most 100 characters",
		"Topic.max":        "topic must be at most 500 characters",
		"Standard.max":     "standard must be at most 500 characters",
		"Length.max":       "length must be at most 100 characters",
		"Scope.max":        "scope must be at most 1000 characters",
		"OutputType.max":   "output_type must be at most 32 characters",
	}
}

// IdentityValue 優先取 identity，其次 email，去除前後空白（大小寫保留）
func (d *GenerateResourceDto) IdentityValue() string {
	if v := strings.TrimSpace(d.Identity); v != "" {
		return v
	}
	return strings.TrimSpace(d.Email)
}

func (d *GenerateResourceDto) Fields() generation.Fields {
	return generation.Fields{
		Grade:        d.Grade,
		Subject:      d.Subject,
		ResourceType: d.ResourceType,
		Topic:        d.Topic,
		Standard:     d.Standard,
		Length:       d.Length,
		Scope:        d.Scope,
		OutputType:   d.OutputType,
	}
}

// 付費開通
type ActivatePaidDto struct {
	Identity string `json:"identity" binding:"omitempty,max=320" example:"teacher@school.edu"`
	Email    string `json:"email,omitempty" binding:"omitempty,max=320"`
}

func (d *ActivatePaidDto) GetMessages() request.ValidatorMessages {
	return request.ValidatorMessages{
		"Identity.max": "identity must be at most 320 characters",
		"Email.max":    "email must be at most 320 characters",
	}
}

func (d *ActivatePaidDto) IdentityValue() string {
	if v := strings.TrimSpace(d.Identity); v != "" {
		return v
	}
	return strings.TrimSpace(d.Email)
}

type ResultKind int

const (
	ResultOutput ResultKind = iota
	ResultAnswerKey
	ResultDocument
)

// GenerateResultDto 三種回應其一，依 Kind 決定輸出欄位
type GenerateResultDto struct {
	Kind      ResultKind
	Output    string
	Worksheet string
	AnswerKey string
	HTML      string
	PdfURL    string
}

// Body 回傳實際寫給呼叫端的 JSON
func (r *GenerateResultDto) Body() any {
	switch r.Kind {
	case ResultAnswerKey:
		return AnswerKeyResponseDto{Worksheet: r.Worksheet, AnswerKey: r.AnswerKey}
	case ResultDocument:
		return DocumentResponseDto{HTML: r.HTML, PdfURL: r.PdfURL}
	}
	return OutputResponseDto{Output: r.Output}
}

type OutputResponseDto struct {
	Output string `json:"output"`
}

type AnswerKeyResponseDto struct {
	Worksheet string `json:"worksheet"`
	AnswerKey string `json:"answer_key"`
}

type DocumentResponseDto struct {
	HTML   string `json:"html"`
	PdfURL string `json:"pdfUrl"`
}

type ActivatePaidResponseDto struct {
	Success bool `json:"success"`
}

// 查詢使用量（CLI / 管理用途）
type UsageResponseDto struct {
	Identity  string `json:"identity"`
	Count     int    `json:"count"`
	Paid      bool   `json:"paid"`
	FreeLimit int    `json:"free_limit"`
	Remaining int    `json:"remaining"`
}
