package errors

import (
	"testing"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"json", "json", false},
		{"dot", "dot", false},
		{"svg", "svg", false},
		{"png", "png", false},
		{"uppercase", "SVG", false},

		{"empty", "", true},
		{"unknown", "pdf", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSourceSize(t *testing.T) {
	if err := ValidateSourceSize(1024); err != nil {
		t.Errorf("ValidateSourceSize(1024) error = %v", err)
	}
	if err := ValidateSourceSize(MaxSourceBytes + 1); err == nil {
		t.Error("ValidateSourceSize over limit should fail")
	}
	if GetCode(ValidateSourceSize(MaxSourceBytes+1)) != ErrCodeInvalidInput {
		t.Error("over-limit error should carry INVALID_INPUT")
	}
}

func TestValidateDiagramName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "pipeline", false},
		{"valid with dash", "my-diagram", false},
		{"valid with underscore", "my_diagram", false},
		{"valid with dot", "release.v2", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"path traversal ..", "foo/../bar", true},
		{"path traversal //", "foo//bar", true},
		{"null byte", "foo\x00bar", true},
		{"backslash", "foo\\bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDiagramName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDiagramName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid relative", "out/diagram.svg", false},
		{"valid absolute", "/tmp/diagram.svg", false},
		{"valid basename", "diagram.json", false},

		{"empty", "", true},
		{"traversal", "../../etc/passwd", true},
		{"null byte", "out\x00.svg", true},
		{"control char", "out\x01.svg", true},
		{"too long", string(make([]byte, 501)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
