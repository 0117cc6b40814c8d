package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMerchantID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  MerchantID
		ok    bool
	}{
		{"valid", "42", 42, true},
		{"one", "1", 1, true},
		{"zero", "0", 0, false},
		{"negative", "-3", 0, false},
		{"empty", "", 0, false},
		{"not a number", "abc", 0, false},
		{"trailing garbage", "42x", 0, false},
		{"overflow", "92233720368547758080", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseMerchantID(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseGroupID(t *testing.T) {
	got, ok := ParseGroupID("7")
	assert.True(t, ok)
	assert.Equal(t, GroupID(7), got)

	_, ok = ParseGroupID("0")
	assert.False(t, ok)

	_, ok = ParseGroupID("group-7")
	assert.False(t, ok)
}

func TestParseRegistryID(t *testing.T) {
	got, ok := ParseRegistryID("123")
	assert.True(t, ok)
	assert.Equal(t, RegistryID(123), got)

	_, ok = ParseRegistryID("-1")
	assert.False(t, ok)
}

func TestValid(t *testing.T) {
	assert.True(t, MerchantID(1).Valid())
	assert.False(t, MerchantID(0).Valid())
	assert.False(t, MerchantID(-1).Valid())

	assert.True(t, GroupID(9).Valid())
	assert.False(t, GroupID(0).Valid())

	assert.True(t, RegistryID(5).Valid())
	assert.False(t, RegistryID(-5).Valid())
}

func TestString(t *testing.T) {
	assert.Equal(t, "42", MerchantID(42).String())
	assert.Equal(t, "7", GroupID(7).String())
	assert.Equal(t, "123", RegistryID(123).String())
}
