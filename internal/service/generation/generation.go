package generation

import (
	"context"
	"fmt"
	"strings"

	"resourcegen/config"
	"resourcegen/internal/core"
	"resourcegen/internal/telemetry"

	"go.uber.org/zap"
)

// Prompt 送往生成服務的內容；System 為固定指示
type Prompt struct {
	System string
	User   string
}

type Result struct {
	Text        string
	Provider    string
	Model       string
	TokensTotal int
}

// Generator 把 prompt 轉成文字；失敗一律回傳 GENERATION_FAILED
type Generator interface {
	Generate(ctx context.Context, prompt Prompt) (*Result, error)
	Name() string
}

// NewGenerator 依 GENERATION.PROVIDER 建立；stub 只能明確指定，且 production 拒絕
func NewGenerator(logger *zap.Logger, conf *config.Configuration, trace *telemetry.Trace, metric *telemetry.Metric) (Generator, error) {
	switch strings.ToLower(conf.Generation.Provider) {
	case config.GenerationProviderOpenAI:
		if conf.Generation.APIKey == "" {
			logger.Warn("GENERATION.API_KEY is empty, provider calls will be rejected")
		}
		return NewOpenAIGenerator(conf, trace, metric, nil), nil
	case config.GenerationProviderStub:
		if conf.App.IsProduction() {
			return nil, fmt.Errorf("stub generator is not allowed when APP.ENV=%s", conf.App.Env)
		}
		logger.Warn("stub generator enabled, responses are placeholder text")
		return NewStubGenerator(), nil
	}
	return nil, fmt.Errorf("unsupported generation provider %q", conf.Generation.Provider)
}

// Fields 生成請求中可辨識的選填欄位
type Fields struct {
	Grade        string
	Subject      string
	ResourceType string
	Topic        string
	Standard     string
	Length       string
	Scope        string
	OutputType   string
}

const systemInstruction = "You are an experienced teacher who writes clear, classroom-ready educational resources. " +
	"Follow the requested grade level and standard closely and use plain text headings."

// BuildPrompt 組出 prompt；未提供的欄位以 N/A 帶入
func BuildPrompt(fields Fields) Prompt {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a %s for grade %s %s.\n", orNA(fields.ResourceType), orNA(fields.Grade), orNA(fields.Subject))
	fmt.Fprintf(&b, "Topic: %s\n", orNA(fields.Topic))
	fmt.Fprintf(&b, "Standard: %s\n", orNA(fields.Standard))
	fmt.Fprintf(&b, "Length: %s\n", orNA(fields.Length))
	fmt.Fprintf(&b, "Scope: %s\n", orNA(fields.Scope))
	fmt.Fprintf(&b, "Output type: %s\n", orNA(fields.OutputType))
	if core.HasAnswerKey(fields.ResourceType) {
		fmt.Fprintf(&b, "\nAfter the student-facing content, add a section that starts with the line %q followed by the answers.\n", core.AnswerKeyMarker)
	}
	return Prompt{System: systemInstruction, User: b.String()}
}

func orNA(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return core.FieldNotProvided
	}
	return v
}

// SplitAnswerKey 以不分大小寫的 ANSWER KEY: 切成題目與解答
// 找不到標記時 found=false，解答為固定字串
func SplitAnswerKey(text string) (primary, secondary string, found bool) {
	index := indexFold(text, core.AnswerKeyMarker)
	if index < 0 {
		return strings.TrimSpace(text), core.AnswerKeyNotFound, false
	}
	return strings.TrimSpace(text[:index]), strings.TrimSpace(text[index+len(core.AnswerKeyMarker):]), true
}

// indexFold 不改變原字串長度的不分大小寫搜尋
func indexFold(s, substr string) int {
	n := len(substr)
	for i := 0; i+n <= len(s); i++ {
		if strings.EqualFold(s[i:i+n], substr) {
			return i
		}
	}
	return -1
}
