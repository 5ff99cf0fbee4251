package validation

import (
	"strings"
	"testing"
)

type sampleComponent struct {
	Name string  `validate:"required"`
	Min  float64 `validate:"gte=0,lte=100"`
}

type sampleRequest struct {
	Total      int               `validate:"gt=0"`
	Components []sampleComponent `validate:"required,min=1,dive"`
}

func TestValidator(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name      string
		input     sampleRequest
		expectErr string
	}{
		{
			name:  "Valid request",
			input: sampleRequest{Total: 5, Components: []sampleComponent{{Name: "Copper", Min: 50}}},
		},
		{
			name:      "Non-positive total",
			input:     sampleRequest{Total: 0, Components: []sampleComponent{{Name: "Copper"}}},
			expectErr: "sampleRequest.Total",
		},
		{
			name:      "Missing components",
			input:     sampleRequest{Total: 5},
			expectErr: "required",
		},
		{
			name:      "Nested component failure",
			input:     sampleRequest{Total: 5, Components: []sampleComponent{{Name: "", Min: 120}}},
			expectErr: "sampleRequest.Components[0].Name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.input)
			if tt.expectErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q", tt.expectErr)
			}
			if !strings.Contains(err.Error(), tt.expectErr) {
				t.Errorf("Validate() error %q does not contain %q", err, tt.expectErr)
			}
		})
	}
}
