package core

import (
	"strings"
	"unicode"
)

// AnswerKeyMarker 生成內容中分隔學生版與解答的標記（不分大小寫）
const AnswerKeyMarker = "ANSWER KEY:"

// AnswerKeyNotFound 找不到標記時回傳的解答內容
const AnswerKeyNotFound = "Answer key not found."

// FieldNotProvided 選填欄位未提供時的預設值
const FieldNotProvided = "N/A"

type OutputType string

const (
	OutputText     OutputType = "text"
	OutputPDF      OutputType = "pdf"
	OutputDocument OutputType = "document"
)

// IsDocument 是否需要呼叫渲染服務產出文件
func (o OutputType) IsDocument() bool {
	switch OutputType(strings.ToLower(strings.TrimSpace(string(o)))) {
	case OutputPDF, OutputDocument:
		return true
	}
	return false
}

// 會附帶解答的教材類型；以整個詞比對，多字詞需連續出現
var answerKeyResources = [][]string{
	{"worksheet"},
	{"quiz"},
	{"test"},
	{"assessment"},
	{"exit", "ticket"},
	{"homework"},
}

// HasAnswerKey 判斷教材類型是否需要 ANSWER KEY 段落
// "latest"、"contest" 之類只是包含字母的詞不算
func HasAnswerKey(resourceType string) bool {
	words := strings.FieldsFunc(strings.ToLower(resourceType), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	for i := range words {
		for _, phrase := range answerKeyResources {
			if matchPhrase(words[i:], phrase) {
				return true
			}
		}
	}
	return false
}

func matchPhrase(words, phrase []string) bool {
	if len(words) < len(phrase) {
		return false
	}
	for j, p := range phrase {
		if j == len(phrase)-1 {
			// 最後一個字允許複數
			if !isWordOrPlural(words[j], p) {
				return false
			}
			continue
		}
		if words[j] != p {
			return false
		}
	}
	return true
}

func isWordOrPlural(word, base string) bool {
	switch word {
	case base, base + "s", base + "es", base + "zes":
		return true
	}
	return false
}
