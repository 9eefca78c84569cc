package pagination_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syncpay/guardianpay/internal/utils/pagination"
)

func TestTokenRoundTrip(t *testing.T) {
	createdAt := time.Date(2026, 3, 14, 9, 26, 53, 589793000, time.UTC)
	id := "c1a7e7a0-1111-2222-3333-444455556666"

	token := pagination.EncodeToken(createdAt, id)
	gotTime, gotID, err := pagination.DecodeToken(token)

	require.NoError(t, err)
	assert.True(t, createdAt.Equal(gotTime))
	assert.Equal(t, id, gotID)
}

func TestDecodeToken_NotBase64(t *testing.T) {
	_, _, err := pagination.DecodeToken("!!not-base64!!")
	assert.Error(t, err)
}

func TestDecodeToken_MissingSeparator(t *testing.T) {
	_, _, err := pagination.DecodeToken("bm8tc2VwYXJhdG9yLWhlcmU=")
	assert.Error(t, err)
}

func TestDecodeToken_BadTimestamp(t *testing.T) {
	// "yesterday|some-id"
	_, _, err := pagination.DecodeToken("eWVzdGVyZGF5fHNvbWUtaWQ=")
	assert.Error(t, err)
}
