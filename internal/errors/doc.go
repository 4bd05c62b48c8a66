// Package errors provides structured, actionable error messages for the
// flatroutes toolchain.
//
// Each error carries a unique code (e.g. "E001") that maps to a short
// message, a detailed explanation, and a documentation URL. Errors can be
// annotated with the offending file, a fix suggestion, and an example of
// the correct naming.
//
// # Error Categories
//
//   - compile: route file name grammar and manifest construction errors
//   - config: flatroutes.json problems
//   - cli: command usage and project layout errors
//   - publish: manifest upload errors
//
// # Usage
//
//	err := errors.New("E001").
//	    WithFile("app/routes/sub.[.tsx").
//	    WithSuggestion("close the escape with a matching ]")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E001: Invalid route file name
//	//
//	//   app/routes/sub.[.tsx
//	//
//	//   The file name violates the route naming grammar and the whole
//	//   compile was aborted.
//	//
//	//   Hint: close the escape with a matching ]
//	//
//	//   Learn more: https://flatroutes.dev/docs/errors/E001
package errors
