package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://shop.example.com", "https://shop.example.com"},
		{"https://shop.example.com/", "https://shop.example.com"},
		{"https://shop.example.com///", "https://shop.example.com"},
		{"  https://shop.example.com/ ", "https://shop.example.com"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeURL(tc.in), tc.in)
	}
}

func TestNewNormalizesAndValidates(t *testing.T) {
	s, err := New(" Main ", "https://shop.example.com/", "ck_1", "cs_1")
	require.NoError(t, err)

	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "Main", s.Name)
	assert.Equal(t, "https://shop.example.com", s.URL)
	assert.True(t, s.Connected)
	assert.Nil(t, s.LastSync)
}

func TestNewRejectsMissingFields(t *testing.T) {
	cases := []struct {
		name    string
		url     string
		key     string
		secret  string
		wantErr error
	}{
		{"", "https://a.example.com", "ck", "cs", ErrNameRequired},
		{"Main", "  ", "ck", "cs", ErrURLRequired},
		{"Main", "https://a.example.com", "", "cs", ErrCredentialsRequired},
		{"Main", "https://a.example.com", "ck", "", ErrCredentialsRequired},
	}
	for _, tc := range cases {
		_, err := New(tc.name, tc.url, tc.key, tc.secret)
		assert.ErrorIs(t, err, tc.wantErr)
	}
}

func TestApplyLeavesNilFieldsUntouched(t *testing.T) {
	s, err := New("Main", "https://shop.example.com", "ck_1", "cs_1")
	require.NoError(t, err)

	newURL := "https://moved.example.com/"
	s.Apply(Update{URL: &newURL})

	assert.Equal(t, "https://moved.example.com", s.URL)
	assert.Equal(t, "Main", s.Name)
	assert.Equal(t, "ck_1", s.ConsumerKey)
}
