// Copyright (c) 2026 DocSafe. All rights reserved.
// Author: dev@docsafe.app

// Package safename sanitizes user-supplied filenames for use in object keys.
//
// # Usage
//
// Uploaded PDF filenames are arbitrary Unicode and may contain path
// separators, accents, or control characters. Object keys must be stable
// ASCII, so the original name is flattened before being embedded in the key.
// The original filename is preserved verbatim in the database for display
// and for the download Content-Disposition header.
package safename

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// unsafeChars matches any run of characters outside the safe set.
	unsafeChars = regexp.MustCompile(`[^a-z0-9._-]+`)
	// multiDash collapses consecutive dashes into one.
	multiDash = regexp.MustCompile(`-{2,}`)
)

// fallback is used when sanitization strips a name down to nothing.
const fallback = "document.pdf"

// From converts an arbitrary Unicode filename into a safe ASCII name.
//
// # Transformation Pipeline
//
// 1. Strips any path components (both '/' and '\' separators).
// 2. Normalizes to NFD and removes combining marks (é → e).
// 3. Converts to lowercase.
// 4. Replaces everything outside [a-z0-9._-] with dashes.
// 5. Collapses dash runs and trims leading/trailing dashes and dots.
func From(name string) string {
	// 1. Drop directory components; keep only the basename
	if idx := strings.LastIndexAny(name, `/\`); idx >= 0 {
		name = name[idx+1:]
	}

	// 2. Normalize and remove accents
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, _ := transform.String(t, name)

	// 3. Lowercase
	result = strings.ToLower(result)

	// 4. Replace unsafe characters with dashes
	result = unsafeChars.ReplaceAllString(result, "-")
	result = multiDash.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-.")

	if result == "" {
		return fallback
	}

	return result
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
