package usecase

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	imgTagPattern  = regexp.MustCompile(`(?is)<img\b[^>]*>`)
	imgAttrPattern = regexp.MustCompile(`(?is)\s([a-z][a-z0-9_:-]*)\s*=\s*(?:"([^"]*)"|'([^']*)')`)
)

// disqualifiedImageMarkers screen out sprites, icons, navigation chrome and logos
var disqualifiedImageMarkers = []string{"sprite", "icon", "nav-", "logo"}

// imgTag holds the attributes of an <img> element that the image tiers look at
type imgTag struct {
	id    string
	class string
	src   string
}

// parseImgTags collects every <img> in document order. The source prefers src, then
// the lazy-load attributes marketplaces use, skipping inline data: URIs.
func parseImgTags(html string) []imgTag {
	raw := imgTagPattern.FindAllString(html, -1)
	tags := make([]imgTag, 0, len(raw))
	for _, tag := range raw {
		attrs := make(map[string]string)
		for _, m := range imgAttrPattern.FindAllStringSubmatch(tag, -1) {
			name := strings.ToLower(m[1])
			if _, seen := attrs[name]; seen {
				continue
			}
			attrs[name] = m[2] + m[3]
		}

		img := imgTag{id: attrs["id"], class: attrs["class"]}
		for _, key := range []string{"src", "data-old-hires", "data-src"} {
			v := strings.TrimSpace(attrs[key])
			if v != "" && !strings.HasPrefix(strings.ToLower(v), "data:") {
				img.src = v
				break
			}
		}
		tags = append(tags, img)
	}
	return tags
}

// imageDisqualified reports whether the candidate looks like a sprite, icon, nav asset or logo
func imageDisqualified(candidate string) bool {
	lower := strings.ToLower(candidate)
	for _, marker := range disqualifiedImageMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// imgWhere lists the sources of <img> tags accepted by keep, in document order
func imgWhere(keep func(img imgTag) bool) candidateSource {
	return func(doc *document) []string {
		var out []string
		for _, img := range doc.images {
			if img.src != "" && keep(img) {
				out = append(out, img.src)
			}
		}
		return out
	}
}

// candidateSource lists image URL candidates for one tier
type candidateSource func(doc *document) []string

// fromMeta lifts a single-valued meta matcher into a candidate source
func fromMeta(m matcher[string]) candidateSource {
	return func(doc *document) []string {
		if v, ok := m(doc); ok {
			return []string{v}
		}
		return nil
	}
}

// screened turns a candidate tier into a matcher that returns the first candidate
// passing the disqualification screen, resolved against the page URL.
func screened(source candidateSource) matcher[string] {
	return func(doc *document) (string, bool) {
		for _, candidate := range source(doc) {
			candidate = decodeEntities(strings.TrimSpace(candidate))
			if candidate == "" || imageDisqualified(candidate) {
				continue
			}
			if resolved, ok := resolveImageURL(doc.base, candidate); ok {
				return resolved, true
			}
		}
		return "", false
	}
}

// resolveImageURL makes relative and protocol-relative candidates absolute
func resolveImageURL(base *url.URL, candidate string) (string, bool) {
	ref, err := url.Parse(candidate)
	if err != nil {
		return "", false
	}
	if base != nil {
		ref = base.ResolveReference(ref)
	}
	if ref.IsAbs() {
		switch strings.ToLower(ref.Scheme) {
		case "http", "https":
		default:
			return "", false
		}
	}
	return ref.String(), true
}

// imageMatchers is the ordered image fallback chain
var imageMatchers = []matcher[string]{
	screened(fromMeta(metaMatcher(propertyAttrs, "og:image"))),
	screened(fromMeta(metaMatcher(propertyAttrs, "twitter:image"))),
	screened(fromMeta(metaMatcher(itempropAttrs, "image"))),
	screened(imgWhere(func(img imgTag) bool {
		return img.id == "landingImage"
	})),
	screened(imgWhere(func(img imgTag) bool {
		return strings.Contains(strings.ToLower(img.id), "imgblk") ||
			strings.Contains(strings.ToLower(img.class), "product-image")
	})),
	screened(imgWhere(func(img imgTag) bool {
		return strings.Contains(img.src, "/images/I/")
	})),
	screened(imgWhere(func(img imgTag) bool {
		return strings.Contains(strings.ToLower(img.class), "product") ||
			strings.Contains(strings.ToLower(img.src), "product")
	})),
	screened(imgWhere(func(img imgTag) bool { return true })),
}
