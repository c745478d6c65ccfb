package confluence

import (
	"fmt"
	"net/url"
	"strings"
)

// PageReference identifies one wiki page: the site it lives on, the space
// holding it, and the numeric page ID the export add-on works with.
// Immutable once parsed.
type PageReference struct {
	// SiteBase is the scheme://host origin of the page URL.
	SiteBase string

	// SpaceKey is the space segment of the URL, empty when the URL does not
	// carry one.
	SpaceKey string

	// PageID is the numeric page identifier.
	PageID string

	// TitleSlug is the trailing title segment, still percent-encoded. Empty
	// when the URL ends at the page ID.
	TitleSlug string

	// Raw is the URL as read from the page list.
	Raw string
}

// ParsePageURL extracts a PageReference from a wiki page URL. Page URLs
// look like
//
//	https://example.atlassian.net/wiki/spaces/DOCS/pages/123456789/My+Page
//
// The numeric segment after "pages" is mandatory, the title segment is not.
func ParsePageURL(raw string) (PageReference, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return PageReference{}, &MalformedURLError{URL: raw, Reason: "empty URL"}
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return PageReference{}, &MalformedURLError{URL: raw, Reason: err.Error()}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return PageReference{}, &MalformedURLError{URL: raw, Reason: "not an http(s) URL"}
	}
	if u.Host == "" {
		return PageReference{}, &MalformedURLError{URL: raw, Reason: "missing host"}
	}

	segments := strings.Split(strings.Trim(u.EscapedPath(), "/"), "/")

	pagesIdx := -1
	for i, seg := range segments {
		if seg == "pages" {
			pagesIdx = i
			break
		}
	}
	if pagesIdx == -1 || pagesIdx+1 >= len(segments) {
		return PageReference{}, &MalformedURLError{URL: raw, Reason: "no pages/<id> segment in path"}
	}

	pageID := segments[pagesIdx+1]
	if !isDigits(pageID) {
		return PageReference{}, &MalformedURLError{URL: raw, Reason: fmt.Sprintf("page ID %q is not numeric", pageID)}
	}

	ref := PageReference{
		SiteBase: u.Scheme + "://" + u.Host,
		PageID:   pageID,
		Raw:      raw,
	}

	for i, seg := range segments {
		if seg == "spaces" && i+1 < pagesIdx {
			ref.SpaceKey = segments[i+1]
			break
		}
	}

	if last := segments[len(segments)-1]; len(segments)-1 > pagesIdx+1 && last != "" {
		ref.TitleSlug = last
	}

	return ref, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
