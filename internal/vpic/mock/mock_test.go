package mock

import (
	"context"
	"errors"
	"testing"

	"vindecoder/internal/models"
	"vindecoder/internal/vpic"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ vpic.Decoder = (*MockDecoder)(nil)

func TestMockEchoesRequest(t *testing.T) {
	m := New()
	res, err := m.Decode(context.Background(), models.DecodeRequest{VIN: "JT2BF22K1Y0000000", ModelYear: 2000})
	require.NoError(t, err)

	byName := map[string]string{}
	for _, f := range res {
		byName[f.Variable] = f.DisplayValue()
	}
	assert.Equal(t, "JT2BF22K1Y0000000", byName["Suggested VIN"])
	assert.Equal(t, "2000", byName["Model Year"])
	assert.Equal(t, models.NotAvailable, byName["Trim"])
	assert.Len(t, m.Requests(), 1)
}

func TestMockError(t *testing.T) {
	want := &vpic.RemoteServiceError{StatusCode: 503}
	m := New().WithError(want)
	_, err := m.Decode(context.Background(), models.DecodeRequest{VIN: "X"})
	assert.True(t, errors.Is(err, want))
}

func TestMockCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().Decode(ctx, models.DecodeRequest{VIN: "X"})
	var te *vpic.TransportError
	assert.True(t, errors.As(err, &te))
}
