package errors

import "errors"

// Suggestions maps common errors to helpful suggestions.
var Suggestions = map[error]string{
	ErrUnauthorized:     "Run 'jobtrack login --token <token>' or 'jobtrack logout' to work locally.",
	ErrNotFoundOrDenied: "Use 'jobtrack app list', 'jobtrack event list' or 'jobtrack problem list' to see ids.",
	ErrUnknownVersion:   "Export the data again with a current jobtrack release.",
	ErrStorageCorrupted: "Re-import a recent export with 'jobtrack import <file>'.",
	ErrTransientIO:      "Check the server address and your connection, then try again.",
}

// GetSuggestion returns a suggestion for an error, if available.
// A UserError's own suggestion wins over the generic ones.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	if ue, ok := AsUserError(err); ok && ue.Suggestion != "" {
		return ue.Suggestion
	}

	for knownErr, suggestion := range Suggestions {
		if errors.Is(err, knownErr) {
			return suggestion
		}
	}
	return ""
}
