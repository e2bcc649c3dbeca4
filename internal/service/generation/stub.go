package generation

import (
	"context"
	"fmt"
	"strings"

	"resourcegen/config"
	"resourcegen/internal/core"
)

// StubGenerator 不呼叫外部服務，回傳固定格式的佔位內容（本機開發用）
type StubGenerator struct{}

func NewStubGenerator() *StubGenerator { return &StubGenerator{} }

func (g *StubGenerator) Name() string { return config.GenerationProviderStub }

func (g *StubGenerator) Generate(ctx context.Context, prompt Prompt) (*Result, error) {
	firstLine, _, _ := strings.Cut(prompt.User, "\n")
	text := fmt.Sprintf("[placeholder] %s\n\n1. Sample question one.\n2. Sample question two.", strings.TrimSpace(firstLine))
	if strings.Contains(prompt.User, core.AnswerKeyMarker) {
		text += "\n\n" + core.AnswerKeyMarker + "\n1. Sample answer one.\n2. Sample answer two."
	}
	return &Result{Text: text, Provider: g.Name(), Model: "stub"}, nil
}
