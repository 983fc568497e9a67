package sfpl

import (
	"net/url"
	"regexp"
	"strings"

	sfplerrors "sfpl/pkg/errors"
)

// metaDataIDPattern matches "<prefix>S<source>C<bib>" and "<prefix>C<source>S<bib>".
// The segments are positional: the middle one is always the source library.
var metaDataIDPattern = regexp.MustCompile(`^\d*(?:S(\d+)C|C(\d+)S)(\d+)$`)

// MetaDataIDToID converts the composite id used inside embedded search
// payloads (e.g. "S93C6223776") into the canonical id used in item URLs
// ("6223776093"): the bib id followed by the source library id zero-padded
// to three digits.
func MetaDataIDToID(metaDataID string) (string, error) {
	m := metaDataIDPattern.FindStringSubmatch(metaDataID)
	if m == nil {
		return "", sfplerrors.MalformedPage("invalid metadata id %q", metaDataID)
	}

	source, bib := m[1]+m[2], m[3]
	if len(source) < 3 {
		source = strings.Repeat("0", 3-len(source)) + source
	}
	return bib + source, nil
}

// digitsOnly strips every non-digit character
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// hrefDigits is the id transform of eras whose item links carry a plain numeric id
func hrefDigits(href string) (string, error) {
	id := digitsOnly(href)
	if id == "" {
		return "", sfplerrors.MalformedPage("no id in link %q", href)
	}
	return id, nil
}

// recordID is the id transform of eras that link items by metadata id.
// Links that still carry a plain numeric id fall back to hrefDigits.
func recordID(href string) (string, error) {
	if seg := lastSegment(href); metaDataIDPattern.MatchString(seg) {
		return MetaDataIDToID(seg)
	}
	return hrefDigits(href)
}

// lastSegment returns the last non-empty path segment of a link
func lastSegment(href string) string {
	path := href
	if u, err := url.Parse(href); err == nil {
		path = u.Path
	}
	parts := strings.Split(strings.Trim(path, "/"), "/")
	return parts[len(parts)-1]
}

// segment returns the i-th "/"-separated piece of a link's path, counting
// the empty piece before a leading slash as 0
func segment(href string, i int) string {
	path := href
	if u, err := url.Parse(href); err == nil {
		path = u.Path
	}
	parts := strings.Split(path, "/")
	if i < 0 || i >= len(parts) {
		return ""
	}
	return parts[i]
}

var profileIDPattern = regexp.MustCompile(`/(\d+)(?:_[^/]*)?(?:/|$)`)

// userIDFromHref pulls a user id out of a profile or list-share link
func userIDFromHref(href string) string {
	path := href
	if u, err := url.Parse(href); err == nil {
		path = u.Path
	}
	if m := profileIDPattern.FindStringSubmatch(path); m != nil {
		return m[1]
	}
	return ""
}
