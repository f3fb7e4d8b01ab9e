package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOriginAllowed(t *testing.T) {
	allowed := []string{"https://linkple.io", "http://localhost:5173"}

	assert.True(t, originAllowed("https://linkple.io", allowed))
	assert.True(t, originAllowed("http://localhost:5173", allowed))
	assert.False(t, originAllowed("https://evil.example.com", allowed))
	assert.False(t, originAllowed("", allowed))

	// 와일드카드 설정이면 모든 출처 허용
	assert.True(t, originAllowed("https://anything.example.com", []string{"*"}))
}
