package mock

import (
	"context"
	"strconv"
	"sync"

	"vindecoder/internal/models"
	"vindecoder/internal/vpic"
)

// MockDecoder is a canned Decoder used for demos and tests. It does not decode
// anything: every VIN yields the same sample record set, with the request
// echoed back in the "Suggested VIN" and "Model Year" fields.
type MockDecoder struct {
	mu       sync.Mutex
	fields   models.DecodeResult
	err      error
	requests []models.DecodeRequest
}

func New() *MockDecoder {
	return &MockDecoder{fields: sample()}
}

// WithResult replaces the canned fields.
func (m *MockDecoder) WithResult(fields models.DecodeResult) *MockDecoder {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fields = fields
	return m
}

// WithError makes every following call fail with err.
func (m *MockDecoder) WithError(err error) *MockDecoder {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

func (m *MockDecoder) Decode(ctx context.Context, req models.DecodeRequest) (models.DecodeResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if err := ctx.Err(); err != nil {
		return nil, &vpic.TransportError{URL: "mock", Err: err}
	}
	if m.err != nil {
		return nil, m.err
	}

	out := make(models.DecodeResult, 0, len(m.fields))
	for _, f := range m.fields {
		switch f.Variable {
		case "Suggested VIN":
			f = models.Field(f.Variable, req.VIN)
		case "Model Year":
			if req.ModelYear > 0 {
				f = models.Field(f.Variable, strconv.Itoa(req.ModelYear))
			}
		}
		out = append(out, f)
	}
	return out, nil
}

// Requests returns a copy of every request seen so far.
func (m *MockDecoder) Requests() []models.DecodeRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]models.DecodeRequest, len(m.requests))
	copy(cp, m.requests)
	return cp
}

func sample() models.DecodeResult {
	return models.DecodeResult{
		models.Field("Suggested VIN", ""),
		models.Field("Error Code", "0"),
		models.Field("Make", "TOYOTA"),
		models.Field("Model", "Camry"),
		models.Field("Model Year", "2018"),
		models.Field("Body Class", "Sedan/Saloon"),
		{Variable: "Trim"},
		models.Field("Fuel Type - Primary", "Gasoline"),
	}
}
