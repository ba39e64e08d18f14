package utils

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/dlsystem/blogbackend/models"
	"golang.org/x/text/unicode/norm"
)

var (
	tagSplitter = regexp.MustCompile(`[-,]`)
	nonAlnum    = regexp.MustCompile(`[^a-z0-9]+`)
)

// NormalizeTags turns free-form tags ("Lovely, Fün - fun") into the stored
// form "lovely - fun". Empty input becomes models.DefaultTags.
func NormalizeTags(raw string) string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, part := range tagSplitter.Split(raw, -1) {
		tag := normalizeTag(part)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	if len(out) == 0 {
		return models.DefaultTags
	}
	return strings.Join(out, models.TagSeparator)
}

func normalizeTag(name string) string {
	t := norm.NFD.String(name)
	var b strings.Builder
	for _, r := range t {
		if unicode.Is(unicode.Mn, r) {
			continue // accent marks
		}
		b.WriteRune(r)
	}

	s := strings.ToLower(b.String())
	s = nonAlnum.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}
