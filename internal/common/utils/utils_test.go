// Package utils 工具函数单元测试
package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOrderNo(t *testing.T) {
	no := GenerateOrderNo("D")

	// 前缀 + 14位时间戳 + 6位随机数
	assert.Len(t, no, 21)
	assert.True(t, strings.HasPrefix(no, "D"))

	// 两次生成应该不同
	no2 := GenerateOrderNo("D")
	assert.NotEqual(t, no, no2)
}

func TestGenerateRandomNumber(t *testing.T) {
	for _, length := range []int{4, 6, 10} {
		s := GenerateRandomNumber(length)
		assert.Len(t, s, length)
		for _, c := range s {
			assert.True(t, c >= '0' && c <= '9')
		}
	}
}

func TestGenerateReferralCode(t *testing.T) {
	code := GenerateReferralCode()
	assert.Len(t, code, 10)
	assert.Equal(t, strings.ToUpper(code), code)

	// 碰撞概率极低
	codes := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		codes[GenerateReferralCode()] = struct{}{}
	}
	assert.Len(t, codes, 100)
}

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  bool
	}{
		{"Local format", "923456789", true},
		{"With country code", "+244923456789", true},
		{"Too short", "92345678", false},
		{"Too long", "9234567890", false},
		{"Wrong prefix", "823456789", false},
		{"Letters", "92345678a", false},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidatePhone(tt.phone))
		})
	}
}

func TestValidateIBAN(t *testing.T) {
	tests := []struct {
		name string
		iban string
		want bool
	}{
		{"Valid", "AO06004400006729503010102", true},
		{"Valid with spaces", "AO06 0044 0000 6729 5030 1010 2", true},
		{"Lowercase prefix", "ao06004400006729503010102", true},
		{"Wrong country", "PT50004400006729503010102", false},
		{"Too short", "AO0600440000672950301010", false},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateIBAN(tt.iban))
		})
	}
}

func TestNormalizeIBAN(t *testing.T) {
	assert.Equal(t, "AO06004400006729503010102", NormalizeIBAN("ao06 0044 0000 6729 5030 1010 2"))
}

func TestPointerHelpers(t *testing.T) {
	s := StringPtr("abc")
	require.NotNil(t, s)
	assert.Equal(t, "abc", *s)

	i := Int64Ptr(42)
	require.NotNil(t, i)
	assert.Equal(t, int64(42), *i)

	f := Float64Ptr(1.5)
	require.NotNil(t, f)
	assert.Equal(t, 1.5, *f)

	now := time.Now()
	tp := TimePtr(now)
	require.NotNil(t, tp)
	assert.Equal(t, now, *tp)

	assert.Equal(t, "", SafeString(nil))
	assert.Equal(t, "abc", SafeString(s))
	assert.Equal(t, int64(0), SafeInt64(nil))
	assert.Equal(t, int64(42), SafeInt64(i))
}

func TestContains(t *testing.T) {
	assert.True(t, Contains([]string{"a", "b"}, "a"))
	assert.False(t, Contains([]string{"a", "b"}, "c"))
	assert.True(t, Contains([]int64{1, 2, 3}, int64(2)))
}

func TestUnique(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3}, Unique([]int{1, 2, 2, 3, 1}))
	assert.Empty(t, Unique([]string{}))
}

func TestPagination(t *testing.T) {
	t.Run("Normalize defaults", func(t *testing.T) {
		p := Pagination{}
		p.Normalize()
		assert.Equal(t, 1, p.Page)
		assert.Equal(t, 10, p.PageSize)
	})

	t.Run("Normalize caps page size", func(t *testing.T) {
		p := Pagination{Page: 2, PageSize: 500}
		p.Normalize()
		assert.Equal(t, 100, p.PageSize)
	})

	t.Run("Offset and limit", func(t *testing.T) {
		p := Pagination{Page: 3, PageSize: 20}
		assert.Equal(t, 40, p.GetOffset())
		assert.Equal(t, 20, p.GetLimit())
	})

	t.Run("Total pages", func(t *testing.T) {
		p := Pagination{Page: 1, PageSize: 10, Total: 25}
		assert.Equal(t, 3, p.GetTotalPages())

		p.Total = 0
		assert.Equal(t, 0, p.GetTotalPages())
	})
}
