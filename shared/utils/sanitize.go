package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// plainText reverts the escaping bluemonday applies to ordinary text.
// &lt; and &gt; stay escaped so no markup can be rebuilt from the output.
var plainText = strings.NewReplacer("&amp;", "&", "&#39;", "'", "&#34;", `"`)

// SanitizeText strips every HTML element from s and trims surrounding space.
// Entity-encoded markup is decoded first so it is stripped too.
func SanitizeText(s string) string {
	return strings.TrimSpace(plainText.Replace(strictPolicy.Sanitize(html.UnescapeString(s))))
}
