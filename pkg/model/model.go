package model

import (
	"bytes"
	"encoding/json"
	"errors"
)

var errNotExtracted = errors.New("reply did not contain JSON")

// Result is the outcome of one analysis run: the JSON value extracted from
// the model's reply, or the raw reply when no JSON could be extracted.
type Result struct {
	// Structured is nil when extraction failed.
	Structured json.RawMessage
	// RawResponse is the full reply text as received.
	RawResponse string
}

// Fallback is serialized in place of the result when extraction failed.
type Fallback struct {
	RawResponse string `json:"rawResponse" yaml:"rawResponse"`
}

// NewResult builds a Result from a reply and the span extracted from it.
func NewResult(raw string, structured json.RawMessage) *Result {
	return &Result{Structured: structured, RawResponse: raw}
}

// Extracted reports whether the reply carried parseable JSON.
func (r *Result) Extracted() bool {
	return len(r.Structured) > 0
}

// MarshalJSON emits the extracted value with its original key order, or the
// fallback object.
func (r *Result) MarshalJSON() ([]byte, error) {
	if r.Extracted() {
		return r.Structured, nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(Fallback{RawResponse: r.RawResponse}); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Analysis is the shape the prompt asks the model to return.
type Analysis struct {
	Errors          []ErrorType `json:"errors"`
	Summary         string      `json:"summary"`
	Recommendations []string    `json:"recommendations"`
}

type ErrorType struct {
	Type      string   `json:"type"`
	Count     int      `json:"count"`
	FirstSeen string   `json:"firstSeen,omitempty"`
	LastSeen  string   `json:"lastSeen,omitempty"`
	Examples  []string `json:"examples,omitempty"`
	Severity  string   `json:"severity,omitempty"`
}

// Analysis decodes the structured value into the typed shape. It fails when
// extraction failed or the model deviated from the requested schema.
func (r *Result) Analysis() (*Analysis, error) {
	if !r.Extracted() {
		return nil, errNotExtracted
	}
	var a Analysis
	if err := json.Unmarshal(r.Structured, &a); err != nil {
		return nil, err
	}
	return &a, nil
}
