package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitKeywords(t *testing.T) {
	assert.Equal(t, []string{"해결", "됐어요", "ok"}, SplitKeywords(" 해결, 됐어요 ,OK,, "))
	assert.Empty(t, SplitKeywords(""))
	assert.Empty(t, SplitKeywords(" , ,"))
}

func TestContainsKeyword(t *testing.T) {
	resolved := SplitKeywords("해결,됐어요,감사")

	assert.True(t, ContainsKeyword("문제가 해결됐어요!", resolved))
	assert.True(t, ContainsKeyword("감사합니다", resolved))
	assert.False(t, ContainsKeyword("아직 안돼요", resolved))
	assert.False(t, ContainsKeyword("", resolved))

	// case-insensitive for latin keywords
	yes := SplitKeywords("네,yes,OK")
	assert.True(t, ContainsKeyword("Yes please", yes))
	assert.True(t, ContainsKeyword("ok!", yes))
}
