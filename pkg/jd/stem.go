package jd

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// DefaultStem is used when nothing usable can be derived from a source.
const DefaultStem = "job"

// Stem derives the artifact basename for a job source: the file stem for local paths, the
// slugified last URL path segment for URLs (the host when the path is empty).
func Stem(source string) (stem string) {
	if IsURL(source) {
		parsed, _ := url.Parse(source)
		tail := path.Base(strings.TrimRight(parsed.Path, "/"))
		if tail == "." || tail == "/" || tail == "" {
			tail = parsed.Hostname()
		} else {
			tail = strings.TrimSuffix(tail, path.Ext(tail))
		}
		stem = Slug(tail)
	} else {
		base := filepath.Base(source)
		stem = Slug(strings.TrimSuffix(base, filepath.Ext(base)))
	}

	if stem == "" {
		stem = DefaultStem
	}
	return stem
}

// Slug lowercases name and replaces every run of characters outside [a-z0-9] with a single
// hyphen. Common company suffixes are dropped first.
func Slug(name string) (slug string) {
	// Remove common company suffixes
	suffixes := []string{
		", LLC", ", Inc.", ", Inc",
		" LLC", " Inc.", " Inc",
		" Corporation", " Corp.", " Corp",
		" Limited", " Ltd.", " Ltd",
	}

	slug = strings.TrimSpace(name)
	for _, suffix := range suffixes {
		if len(slug) > len(suffix) && strings.EqualFold(slug[len(slug)-len(suffix):], suffix) {
			slug = slug[:len(slug)-len(suffix)]
		}
	}

	slug = strings.ToLower(slug)

	// Replace spaces and special chars with hyphens
	slug = strings.Map(func(r rune) (result rune) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			result = r
			return result
		}
		result = '-'
		return result
	}, slug)

	// Remove consecutive hyphens
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}

	slug = strings.Trim(slug, "-")
	return slug
}
