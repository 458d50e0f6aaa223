package models

import (
	"errors"
	"testing"
)

func TestQueryRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		query   *QueryRequest
		wantErr bool
	}{
		{"text only", &QueryRequest{Text: "hello"}, false},
		{"vector only", &QueryRequest{Vector: []float32{0.1, 0.2}}, false},
		{"both set", &QueryRequest{Text: "hello", Vector: []float32{0.1}}, true},
		{"neither set", &QueryRequest{}, true},
		{"neither set with topK", &QueryRequest{TopK: 5}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidQuery) {
				t.Errorf("expected ErrInvalidQuery, got %v", err)
			}
		})
	}
}
