package checklist

import "log/slog"

// FilterAllowedTypes keeps only the detected types that appear in
// allowedTypes, preserving the model's reported order, and logs a warning
// when every detected type was dropped. The pipeline does not call it:
// on the run path, inference.Classify and the pipeline's own
// validateTypes drop unrecognized types.
func FilterAllowedTypes(detected, allowedTypes []string) []string {
	allowed := make(map[string]bool, len(allowedTypes))
	for _, t := range allowedTypes {
		allowed[t] = true
	}

	valid := make([]string, 0, len(detected))
	for _, t := range detected {
		if allowed[t] {
			valid = append(valid, t)
		}
	}

	if len(valid) == 0 && len(detected) > 0 {
		slog.Warn("no valid types found among detected types", "detected", detected, "allowed", allowedTypes)
	}

	return valid
}
