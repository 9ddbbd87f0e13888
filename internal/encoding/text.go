package encoding

import (
	"fmt"
	"io"
	"strings"
)

var textReplacer = strings.NewReplacer(
	"\r\n", "\n",
	"\r", "\n",
	"\u00a0", " ",
	"\u202f", " ",
	"\u200b", "",
	"\ufeff", "",
)

// NormalizeText unifies line endings, turns no-break spaces into plain spaces, drops
// zero-width characters and trims the result. Message templates are matched against this form.
func NormalizeText(s string) string {
	return strings.TrimSpace(textReplacer.Replace(s))
}

// DecodeText reads all of r as UTF-8 and reports the charset it was decoded from.
// The text is returned as sent; callers normalize it when they match against it.
func DecodeText(r io.Reader) (string, string, error) {
	charset, utf8r, err := Detect(r)
	if err != nil {
		return "", "", fmt.Errorf("detect encoding: %w", err)
	}

	b, err := io.ReadAll(utf8r)
	if err != nil {
		return "", "", fmt.Errorf("read text: %w", err)
	}

	return string(b), charset, nil
}
