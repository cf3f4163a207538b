// Package errors provides the structured error type used across minidom.
//
// Every failure the runtime raises on purpose carries a registered code
// and a category:
//   - parse: malformed markup templates
//   - hook: hooks used without a component identity or out of order
//   - route: malformed path templates and unroutable defaults
//   - render: node descriptions that cannot be committed
//   - config: configuration loading failures
//
// # Usage
//
//	err := errors.New("M103").
//	    WithDetail("unexpected </span> in <p>")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR M103: Closing tag does not match opening tag
//	//
//	//   unexpected </span> in <p>
package errors
