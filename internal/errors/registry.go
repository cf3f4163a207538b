package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Parse Errors (M100-M199)
	// ============================================

	"M100": {
		Category: CategoryParse,
		Message:  "Unconsumed text outside any tag",
	},
	"M101": {
		Category:   CategoryParse,
		Message:    "Unclosed tag",
		Suggestion: "Close every element with </tag> or </>, or self-close it with />.",
	},
	"M102": {
		Category:   CategoryParse,
		Message:    "More than one top-level node",
		Suggestion: "Wrap sibling elements in a single parent element.",
	},
	"M103": {
		Category: CategoryParse,
		Message:  "Closing tag does not match opening tag",
	},
	"M104": {
		Category: CategoryParse,
		Message:  "Template literal and value counts do not line up",
	},
	"M105": {
		Category: CategoryParse,
		Message:  "Template produced no node",
	},

	// ============================================
	// Hook Errors (M200-M299)
	// ============================================

	"M200": {
		Category:   CategoryHook,
		Message:    "Hook called from unkeyed component",
		Suggestion: "Give the component a key or id prop so its hook slots have a stable address.",
	},
	"M201": {
		Category:   CategoryHook,
		Message:    "Hook order changed",
		Suggestion: "Call hooks unconditionally and in the same order on every render.",
	},
	"M202": {
		Category: CategoryHook,
		Message:  "Hook called outside a component render",
	},

	// ============================================
	// Route Errors (M300-M399)
	// ============================================

	"M300": {
		Category: CategoryRoute,
		Message:  "Malformed path template",
	},
	"M301": {
		Category:   CategoryRoute,
		Message:    "Default path matches no route",
		Suggestion: "Register a route for the default path (\"/\" unless configured otherwise).",
	},

	// ============================================
	// Render Errors (M400-M499)
	// ============================================

	"M400": {
		Category: CategoryRender,
		Message:  "Component resolved to nothing",
	},
	"M401": {
		Category: CategoryRender,
		Message:  "Invalid node description",
	},

	// ============================================
	// Config Errors (M500-M599)
	// ============================================

	"M500": {
		Category: CategoryConfig,
		Message:  "Failed to load configuration",
	},
}

// Lookup returns the template for a code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
