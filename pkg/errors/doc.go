// Package errors defines the coded errors shared by the cropwise packages.
//
// Every failure that crosses a package boundary is a *StructuredError with
// an ErrorCode. The HTTP server maps codes to status and retryability; the
// CLI prints the message and, for rejected input, the offending field:
//
//	err := errors.NewWithContext(errors.ErrCodeInvalidInput,
//	    "soil ph must be less than or equal to 14",
//	    map[string]any{"field": "ph", "constraint": "lte=14"})
//
// Callers branch on codes, never on message text:
//
//	if errors.IsCode(err, errors.ErrCodeModelUnavailable) {
//	    // 503, retry later
//	}
//	field, _ := errors.ContextValue(err, "field")
package errors
