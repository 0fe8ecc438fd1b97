package gemini

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCategoryOf(t *testing.T) {
	tests := []struct {
		code StatusCode
		want Category
	}{
		{StatusNone, CategoryNone},
		{StatusInput, CategoryInput},
		{StatusSensitiveInput, CategoryInput},
		{StatusSuccess, CategorySuccess},
		{StatusCode(21), CategorySuccess},
		{StatusRedirectTemporary, CategoryRedirect},
		{StatusRedirectPermanent, CategoryRedirect},
		{StatusTemporaryFailure, CategoryTemporaryFailure},
		{StatusSlowDown, CategoryTemporaryFailure},
		{StatusPermanentFailure, CategoryPermanentFailure},
		{StatusBadRequest, CategoryPermanentFailure},
		{StatusClientCertRequired, CategoryClientCertificate},
		{StatusTooManyRedirects, CategoryNone},
		{StatusTLSFailure, CategoryNone},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, CategoryOf(tt.code), "code %d", tt.code)
	}
}

func TestIsDefined(t *testing.T) {
	require.True(t, IsDefined(StatusNotFound))
	require.True(t, IsDefined(StatusTooManyRedirects))
	require.True(t, IsDefined(StatusUnsupportedMimeType))
	require.False(t, IsDefined(StatusSuccess))
	require.False(t, IsDefined(StatusNone))
	// 41-44 and 51-59 are defined individually; 45 is not on the wire.
	require.False(t, IsDefined(StatusCode(45)))
}

func TestErrorFor_FallsBackToUnknown(t *testing.T) {
	e := ErrorFor(StatusCode(99))
	require.Equal(t, ErrorFor(StatusUnknown).Title, e.Title)
}

func TestErrorFor_UndefinedCodeUsesCategoryPage(t *testing.T) {
	require.Equal(t, "Temporary Failure", ErrorFor(StatusCode(45)).Title)
	require.Equal(t, "Permanent Failure", ErrorFor(StatusCode(54)).Title)
	require.Equal(t, "Certificate Required", ErrorFor(StatusCode(63)).Title)
}

func TestParseHeader(t *testing.T) {
	code, meta, err := parseHeader("20 text/gemini; charset=utf-8")
	require.NoError(t, err)
	require.Equal(t, StatusSuccess, code)
	require.Equal(t, "text/gemini; charset=utf-8", meta)

	code, meta, err = parseHeader("31 gemini://elsewhere/")
	require.NoError(t, err)
	require.Equal(t, StatusRedirectPermanent, code)
	require.Equal(t, "gemini://elsewhere/", meta)

	_, _, err = parseHeader("x")
	require.Error(t, err)

	_, _, err = parseHeader("ab meta")
	require.Error(t, err)
}
