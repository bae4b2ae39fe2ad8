// Copyright (c) 2026 DocSafe. All rights reserved.
// Author: dev@docsafe.app

package safename_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/docsafe-app/docsafe/pkg/safename"
)

/*
TestFrom verifies filename sanitization across typical and hostile inputs.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "report.pdf", "report.pdf"},
		{"spaces", "My Tax Return 2025.pdf", "my-tax-return-2025.pdf"},
		{"accents", "Résumé Final.pdf", "resume-final.pdf"},
		{"path_traversal", "../../etc/passwd", "passwd"},
		{"windows_path", `C:\Users\me\scan.pdf`, "scan.pdf"},
		{"control_chars", "inv\x00oice\n.pdf", "inv-oice-.pdf"},
		{"empty", "", "document.pdf"},
		{"only_symbols", "!!!???", "document.pdf"},
		{"dash_runs", "a---b.pdf", "a-b.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, safename.From(tt.input))
		})
	}
}
