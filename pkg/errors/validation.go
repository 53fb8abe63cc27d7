package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// fieldNameRegex matches document field names accepted by the catalog stores.
var fieldNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateFieldName validates a document field name used in a store query.
//
// Field names end up as map keys (file store) or BSON keys (MongoDB), so
// operators ($gt, $where) and dotted paths are rejected outright. Queries are
// always built from these names, never evaluated as code.
func ValidateFieldName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "field name cannot be empty")
	}
	if len(name) > 64 {
		return New(ErrCodeInvalidInput, "field name too long (max 64 characters)")
	}
	if !fieldNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid field name: %q", name)
	}
	return nil
}

// ValidateBasename validates an SPCAT/SPFIT job name.
//
// The external programs take a basename and derive .int/.var/.par/.cat/.lin
// files from it, so it must be a plain name or relative path without
// traversal, control characters, or a file extension of its own.
func ValidateBasename(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "basename cannot be empty")
	}

	const maxLength = 500
	if len(name) > maxLength {
		return New(ErrCodeInvalidInput, "basename too long (max %d characters)", maxLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "basename contains invalid characters")
		}
	}

	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidInput, "basename cannot contain path traversal sequences (..)")
	}

	for _, ext := range []string{".int", ".var", ".par", ".cat", ".lin", ".str"} {
		if strings.HasSuffix(name, ext) {
			return New(ErrCodeInvalidInput, "basename should not include the %s extension", ext)
		}
	}

	return nil
}
