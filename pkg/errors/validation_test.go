package errors

import (
	"strings"
	"testing"
)

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "start", false},
		{"with dash", "step-1", false},
		{"unicode", "schritt_ä", false},
		{"spaces", "load balancer", false},

		{"empty", "", true},
		{"too long", strings.Repeat("x", 300), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidNode) {
				t.Errorf("ValidateNodeID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidNode)
			}
		})
	}
}

func TestValidateColor(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"#8b5cf6", false},
		{"#FFF", false},
		{"#8b5cf6ff", false},
		{"transparent", false},

		{"", true},
		{"8b5cf6", true},
		{"#8b5cf", true},
		{"red", true},
		{"#gggggg", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateColor(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateColor(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateEnums(t *testing.T) {
	tests := []struct {
		name    string
		fn      func(string) error
		input   string
		wantErr bool
	}{
		{"stroke solid", ValidateStrokeStyle, "solid", false},
		{"stroke dotted", ValidateStrokeStyle, "dotted", false},
		{"stroke wavy", ValidateStrokeStyle, "wavy", true},
		{"fill hachure", ValidateFillStyle, "hachure", false},
		{"fill cross-hatch", ValidateFillStyle, "cross-hatch", false},
		{"fill zigzag", ValidateFillStyle, "zigzag", true},
		{"arrowhead triangle", ValidateArrowhead, "triangle", false},
		{"arrowhead empty", ValidateArrowhead, "", true},
		{"align center", ValidateTextAlign, "center", false},
		{"align justify", ValidateTextAlign, "justify", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidStyle) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidStyle)
			}
		})
	}
}

func TestValidateToolName(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"create_rectangle", false},
		{"create_system_architecture", false},
		{"", true},
		{"Create", true},
		{"../etc", true},
		{"create-rectangle", true},
		{strings.Repeat("a", 65), true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateToolName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateToolName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
