package helpers

import "strings"

// entityReplacer decodes the entities the source site actually emits.
// Anything else passes through unchanged.
var entityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&nbsp;", " ",
)

// DecodeEntities decodes the common HTML entities in text extracted
// from raw markup.
func DecodeEntities(s string) string {
	return entityReplacer.Replace(s)
}
