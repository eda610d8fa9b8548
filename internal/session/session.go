package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"vindecoder/internal/models"
	"vindecoder/internal/report"
	"vindecoder/internal/vpic"
	"vindecoder/pkg/log"

	"go.uber.org/zap"
)

const (
	Placeholder = "Decoded information will appear here."
	NoResults   = "No results found."
)

// ValidationError rejects user input before any request is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var (
	ErrEmptyVIN         = &ValidationError{Field: "VIN", Message: "VIN is required."}
	ErrInvalidModelYear = &ValidationError{Field: "Model Year", Message: "model year must be a positive number."}

	// ErrNoData is returned by Export before any successful decode.
	ErrNoData = errors.New("no data to export, please decode a VIN first")

	// ErrSuperseded is returned by a decode that finished after Clear or a
	// newer Decode. Its result is discarded.
	ErrSuperseded = errors.New("decode superseded")
)

// Session is the state behind one interactive form: the decoder and the most
// recent successful result, kept so it can be exported after display.
type Session struct {
	decoder vpic.Decoder

	mu      sync.Mutex
	last    models.DecodeResult
	vin     string
	decoded bool
	gen     uint64
}

func New(decoder vpic.Decoder) *Session {
	return &Session{decoder: decoder}
}

// ParseRequest validates raw form input.
func ParseRequest(vin, modelYear string) (models.DecodeRequest, error) {
	req := models.DecodeRequest{VIN: strings.TrimSpace(vin)}
	if req.VIN == "" {
		return req, ErrEmptyVIN
	}
	if y := strings.TrimSpace(modelYear); y != "" {
		n, err := strconv.Atoi(y)
		if err != nil || n <= 0 {
			return req, ErrInvalidModelYear
		}
		req.ModelYear = n
	}
	return req, nil
}

// Decode validates the input, calls the decoder and, on success, replaces the
// last result. A failed decode leaves the previous result in place, and a
// decode overtaken by Clear or another Decode returns ErrSuperseded.
func (s *Session) Decode(ctx context.Context, vin, modelYear string) (models.DecodeResult, error) {
	req, err := ParseRequest(vin, modelYear)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	result, err := s.decoder.Decode(ctx, req)
	if err != nil {
		log.Error("decode failed", zap.Error(err))
		return nil, fmt.Errorf("failed to decode VIN: %w", err)
	}

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		log.Debug("discarding superseded decode result")
		return nil, ErrSuperseded
	}
	s.last = result
	s.vin = req.VIN
	s.decoded = true
	s.mu.Unlock()
	return result, nil
}

// Last returns the most recent result and whether there is one.
func (s *Session) Last() (models.DecodeResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.decoded
}

// VIN returns the VIN of the most recent result.
func (s *Session) VIN() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vin
}

// Clear forgets the last result and any decode still in flight.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.last = nil
	s.vin = ""
	s.decoded = false
}

// Export writes the last result as an HTML report and returns the path
// written. Nothing touches the file system when there is no result yet.
func (s *Session) Export(path string) (string, error) {
	result, ok := s.Last()
	if !ok {
		return "", ErrNoData
	}
	return report.WriteFile(path, result)
}

// FormatText renders result for the on-screen text view.
func FormatText(result models.DecodeResult) string {
	if len(result) == 0 {
		return NoResults
	}
	var sb strings.Builder
	for _, f := range result {
		sb.WriteString(f.Variable)
		sb.WriteString(": ")
		sb.WriteString(f.DisplayValue())
		sb.WriteString("\n")
	}
	return sb.String()
}
