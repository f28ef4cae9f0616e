// Package handlerref parses handler references of the form "Target::action"
// and "Target@action".
//
// A handler reference names a callable target and one of its actions. The
// "::" separator marks a static (target-level) action, "@" marks an instance
// action. Both forms identify the same registry entry in package queue; the
// distinction only matters to the code that populates the registry.
//
// # Usage
//
//	ref, err := handlerref.Parse("Billing.Invoices::send")
//	if err != nil {
//		// errors.Is(err, handlerref.ErrInvalidFormat)
//	}
//	fmt.Println(ref.Target, ref.Action) // Billing.Invoices send
//
// Validate is a cheap pre-check that only looks for a separator:
//
//	if !handlerref.Validate(h) {
//		return handlerref.ErrInvalidFormat
//	}
//
// When a string contains both separators, "@" wins.
package handlerref
