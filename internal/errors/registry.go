package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Compile Errors (E001-E099)
	// ============================================

	"E001": {
		Category: CategoryCompile,
		Message:  "Invalid route file name",
		Detail:   "The file name violates the route naming grammar and the whole compile was aborted.",
		DocURL:   "https://flatroutes.dev/docs/errors/E001",
	},
	"E002": {
		Category: CategoryCompile,
		Message:  "Conflicting routes",
		Detail:   "Two or more route files resolve to the same route ID or URL pattern.",
		DocURL:   "https://flatroutes.dev/docs/errors/E002",
	},
	"E003": {
		Category: CategoryCompile,
		Message:  "Route file outside routes directory",
		Detail:   "Every route file must live under the configured routes directory.",
		DocURL:   "https://flatroutes.dev/docs/errors/E003",
	},
	"E004": {
		Category: CategoryCompile,
		Message:  "Duplicate index route",
		Detail:   "A parent route can have at most one index child.",
		DocURL:   "https://flatroutes.dev/docs/errors/E004",
	},

	// ============================================
	// Configuration Errors (E100-E119)
	// ============================================

	"E100": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "No flatroutes.json was found in the working directory or any parent.",
		DocURL:   "https://flatroutes.dev/docs/errors/E100",
	},
	"E101": {
		Category: CategoryConfig,
		Message:  "Invalid flatroutes.json",
		Detail:   "The flatroutes.json configuration file is malformed.",
		DocURL:   "https://flatroutes.dev/docs/errors/E101",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Routes directory missing",
		Detail:   "The configured routes directory does not exist.",
		DocURL:   "https://flatroutes.dev/docs/errors/E102",
	},
	"E103": {
		Category: CategoryConfig,
		Message:  "Invalid port number",
		Detail:   "The configured port number is outside the valid range.",
		DocURL:   "https://flatroutes.dev/docs/errors/E103",
	},

	// ============================================
	// CLI Errors (E120-E139)
	// ============================================

	"E120": {
		Category: CategoryCLI,
		Message:  "Not a flatroutes project",
		Detail:   "The current directory is not a flatroutes project. Run this command from a directory with flatroutes.json.",
		DocURL:   "https://flatroutes.dev/docs/errors/E120",
	},
	"E121": {
		Category: CategoryCLI,
		Message:  "Output path not writable",
		Detail:   "The manifest output path could not be written.",
		DocURL:   "https://flatroutes.dev/docs/errors/E121",
	},

	// ============================================
	// Publish Errors (E140-E159)
	// ============================================

	"E140": {
		Category: CategoryPublish,
		Message:  "Manifest publish failed",
		Detail:   "The manifest could not be uploaded to the configured bucket.",
		DocURL:   "https://flatroutes.dev/docs/errors/E140",
	},
	"E141": {
		Category: CategoryPublish,
		Message:  "Missing publish bucket",
		Detail:   "Publishing requires a bucket name in flatroutes.json or on the command line.",
		DocURL:   "https://flatroutes.dev/docs/errors/E141",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
