// Package errors provides structured error types for better observability
// and programmatic error handling across the generator.
//
// Every failure of a generation batch carries one of the codes defined here,
// so the CLI and tests can tell an unreadable input file from a malformed patch,
// an exceeded budget or a duplicated candidate.
//
// Example usage:
//
//	err := errors.NewWithContext(
//	    errors.ErrCodeBudgetExceeded,
//	    "estimated batch cost over ceiling",
//	    map[string]any{
//	        "totalMinutes": total,
//	        "maxMinutes":   limit,
//	    },
//	)
//
//	if errors.Is(err, errors.ErrCodeBudgetExceeded) {
//	    // ...
//	}
package errors
