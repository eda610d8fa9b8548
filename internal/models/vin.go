package models

// NotAvailable is shown in place of a missing or empty value.
const NotAvailable = "N/A"

// DecodeRequest is a single lookup. A zero ModelYear means none was given.
type DecodeRequest struct {
	VIN       string
	ModelYear int
}

// VinField is one Variable/Value pair as returned by vPIC. Value is nil when
// the service sent a JSON null.
type VinField struct {
	Variable string  `json:"Variable"`
	Value    *string `json:"Value"`
}

// DisplayValue returns the value as shown to users.
func (f VinField) DisplayValue() string {
	if f.Value == nil || *f.Value == "" {
		return NotAvailable
	}
	return *f.Value
}

// DecodeResult keeps the order of the remote response.
type DecodeResult []VinField

// Field builds a VinField with a present value.
func Field(variable, value string) VinField {
	return VinField{Variable: variable, Value: &value}
}
