package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// Allowed values for enumerated style arguments.
var (
	StrokeStyles = []string{"solid", "dashed", "dotted"}
	FillStyles   = []string{"solid", "hachure", "cross-hatch"}
	Arrowheads   = []string{"arrow", "bar", "dot", "triangle"}
	TextAligns   = []string{"left", "center", "right"}
)

// ValidateNodeID validates a node or component identifier.
//
// The rules are intentionally loose since IDs never leave the diagram:
//   - No empty IDs
//   - No control characters
//   - Maximum length of 256 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidNode, "node id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidNode, "node id too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidNode, "node id %q contains control characters", id)
		}
	}

	return nil
}

// colorRegex matches #rgb, #rrggbb and #rrggbbaa hex colors.
var colorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// ValidateColor validates a stroke or background color.
// Accepts hex colors and the keyword "transparent".
func ValidateColor(color string) error {
	if color == "transparent" || colorRegex.MatchString(color) {
		return nil
	}
	return New(ErrCodeInvalidStyle, "invalid color %q (expected #rrggbb or transparent)", color)
}

// ValidateStrokeStyle validates a stroke style name.
func ValidateStrokeStyle(s string) error {
	return validateEnum("stroke style", s, StrokeStyles)
}

// ValidateFillStyle validates a fill style name.
func ValidateFillStyle(s string) error {
	return validateEnum("fill style", s, FillStyles)
}

// ValidateArrowhead validates an arrowhead name.
func ValidateArrowhead(s string) error {
	return validateEnum("arrowhead", s, Arrowheads)
}

// ValidateTextAlign validates a horizontal text alignment.
func ValidateTextAlign(s string) error {
	return validateEnum("text align", s, TextAligns)
}

func validateEnum(what, value string, allowed []string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return New(ErrCodeInvalidStyle, "invalid %s %q (must be one of: %s)", what, value, strings.Join(allowed, ", "))
}

// toolNameRegex matches tool names such as "create_rectangle".
var toolNameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidateToolName validates a tool name taken from a URL path or CLI argument.
func ValidateToolName(name string) error {
	if name == "" {
		return New(ErrCodeUnknownTool, "tool name cannot be empty")
	}
	if len(name) > 64 || !toolNameRegex.MatchString(name) {
		return New(ErrCodeUnknownTool, "invalid tool name: %q", name)
	}
	return nil
}
