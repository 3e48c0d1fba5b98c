package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatVND(t *testing.T) {
	assert.Equal(t, "0", FormatVND(0))
	assert.Equal(t, "999", FormatVND(999))
	assert.Equal(t, "1,000", FormatVND(1000))
	assert.Equal(t, "150,000", FormatVND(150000))
	assert.Equal(t, "1,234,567", FormatVND(1234567))
	assert.Equal(t, "-20,000", FormatVND(-20000))
}

func TestFormatVNDWithSign(t *testing.T) {
	assert.Equal(t, "130,000 ₫", FormatVNDWithSign(130000))
}
