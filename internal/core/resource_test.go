package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasAnswerKey(t *testing.T) {
	cases := map[string]bool{
		"worksheet":            true,
		"Math Worksheets":      true,
		"pop quiz":             true,
		"quizzes":              true,
		"unit test":            true,
		"Formative Assessment": true,
		"exit ticket":          true,
		"Exit-Tickets":         true,
		"homework":             true,
		"lesson plan":          false,
		"":                     false,
		"latest news":          false,
		"pretest":              false,
		"contest":              false,
		"attestation":          false,
		"ticket to exit":       false,
		"reading passage about the latest Olympics contest": false,
	}
	for resourceType, want := range cases {
		assert.Equal(t, want, HasAnswerKey(resourceType), resourceType)
	}
}

func TestOutputTypeIsDocument(t *testing.T) {
	assert.True(t, OutputType("pdf").IsDocument())
	assert.True(t, OutputType(" Document ").IsDocument())
	assert.False(t, OutputType("text").IsDocument())
	assert.False(t, OutputType("").IsDocument())
}
