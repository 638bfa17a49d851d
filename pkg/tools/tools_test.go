package tools_test

import (
	"testing"

	"kokorotts/pkg/tools"

	"github.com/stretchr/testify/assert"
)

func TestSafeFilePart(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("af_heart", tools.SafeFilePart("af_heart", "x"))
	assert.Equal("etc_passwd", tools.SafeFilePart("../etc/passwd", "x"))
	assert.Equal("a_b", tools.SafeFilePart("a\\b", "x"))
	assert.Equal("x", tools.SafeFilePart("", "x"))
	assert.Equal("x", tools.SafeFilePart("///", "x"))
	assert.Equal("voice-1", tools.SafeFilePart("voice-1", "x"))
	assert.Equal("caf", tools.SafeFilePart("café", "x"))
}
