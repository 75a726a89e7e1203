package errors

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDegradeErrorMessage(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewNetwork("listing", "fetch failed", cause)

	assert.Equal(t, "[network] listing: fetch failed - connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestDegradeErrorWithoutCause(t *testing.T) {
	err := NewRateLimit("listing", 500*time.Second)

	assert.Equal(t, ErrorTypeRateLimit, err.Type)
	assert.Equal(t, "[rate_limit] listing: rate limited for 8m20s", err.Error())
	assert.Nil(t, errors.Unwrap(err))
}

func TestConstructorTypes(t *testing.T) {
	cause := errors.New("boom")

	assert.Equal(t, ErrorTypeParsing, NewParsing("extract", "bad markup", cause).Type)
	assert.Equal(t, ErrorTypeStorage, NewStorage("ledger", "save failed", cause).Type)
	assert.Equal(t, ErrorTypeRender, NewRender("feed", "encode failed", cause).Type)
	assert.Equal(t, ErrorTypeConfiguration, NewConfiguration("missing source url", cause).Type)
}
