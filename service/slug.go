package service

import (
	"fmt"
	"regexp"
	"strings"
)

const slugMaxLength = 50

// Fallback when a title collapses to nothing after cleanup.
const slugFallback = "campaign"

var (
	slugStripRe     = regexp.MustCompile(`[^\w\s-]`)
	slugSeparatorRe = regexp.MustCompile(`[\s_-]+`)
)

// GenerateSlug derives a url-safe slug from a campaign title: lowercase,
// special characters stripped, runs of spaces/underscores/hyphens collapsed
// to a single hyphen, trimmed and capped at 50 characters.
func GenerateSlug(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugStripRe.ReplaceAllString(slug, "")
	slug = slugSeparatorRe.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > slugMaxLength {
		slug = slug[:slugMaxLength]
		slug = strings.Trim(slug, "-")
	}
	if slug == "" {
		return slugFallback
	}
	return slug
}

// EnsureUniqueSlug resolves collisions against the existing slug set by
// appending -1, -2, ... to the base slug.
func EnsureUniqueSlug(baseSlug string, existingSlugs []string) string {
	existing := make(map[string]struct{}, len(existingSlugs))
	for _, s := range existingSlugs {
		existing[s] = struct{}{}
	}

	slug := baseSlug
	counter := 1
	for {
		if _, taken := existing[slug]; !taken {
			return slug
		}
		slug = fmt.Sprintf("%s-%d", baseSlug, counter)
		counter++
	}
}
