package vpic

import (
	"context"

	"vindecoder/internal/models"
)

// Decoder resolves a VIN into vehicle attributes.
type Decoder interface {
	Decode(ctx context.Context, req models.DecodeRequest) (models.DecodeResult, error)
}
