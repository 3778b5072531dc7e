package evaluation

import "strings"

// NormalizeAllowedOptions is the exported form of normalizeAllowedOptions,
// for callers outside this package that need the same trim/unquote/dedupe
// rules when rendering an item's options into a prompt (the inference
// adapter's instruction builder uses this to describe a categorical or
// conditional item's allowed values).
func NormalizeAllowedOptions(options []string) []string {
	return normalizeAllowedOptions(options)
}

// normalizeAllowedOptions trims whitespace, strips one pair of surrounding
// double quotes, and case-insensitively deduplicates an item's declared
// option list, preserving the casing of each option's first occurrence.
// Returns nil if no usable options remain.
func normalizeAllowedOptions(options []string) []string {
	if len(options) == 0 {
		return nil
	}

	normalized := make([]string, 0, len(options))
	seen := make(map[string]bool, len(options))
	for _, opt := range options {
		cleaned := unquoteOne(strings.TrimSpace(opt))
		if cleaned == "" {
			continue
		}
		lower := strings.ToLower(cleaned)
		if seen[lower] {
			continue
		}
		seen[lower] = true
		normalized = append(normalized, cleaned)
	}

	if len(normalized) == 0 {
		return nil
	}
	return normalized
}

// unquoteOne strips a single pair of surrounding double quotes, if
// present, then re-trims. Models occasionally wrap a string answer in
// literal quote characters as part of the text itself.
func unquoteOne(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		s = s[1 : len(s)-1]
	}
	return strings.TrimSpace(s)
}

// normalizeOptionValue coerces a raw model answer against an item's
// allowed options:
//  1. trim/unquote the candidate
//  2. case-insensitive match against allowedOptions, preserving the
//     allowed option's own casing
//  3. fall back to the "N/A" allowed option, if one exists
//  4. fall back to the first allowed option
//  5. with no allowed options at all, return the trimmed candidate or
//     "N/A" if it was empty
func normalizeOptionValue(value *string, allowedOptions []string) string {
	var candidate string
	if value != nil {
		candidate = unquoteOne(strings.TrimSpace(*value))
	}

	if len(allowedOptions) == 0 {
		if candidate == "" {
			return "N/A"
		}
		return candidate
	}

	if candidate != "" {
		lower := strings.ToLower(candidate)
		for _, opt := range allowedOptions {
			if strings.ToLower(opt) == lower {
				return opt
			}
		}
	}

	for _, opt := range allowedOptions {
		if strings.ToLower(opt) == "n/a" {
			return opt
		}
	}

	return allowedOptions[0]
}
