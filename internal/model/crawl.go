package model

import (
	"strconv"
	"time"
)

// FetchMode identifies which backend produced a PageCrawlResult.
type FetchMode string

const (
	FetchHTTP     FetchMode = "Http"
	FetchHeadless FetchMode = "Headless"
)

// FetchErrorKind is the closed taxonomy of per-URL fetch failures (spec §3, §7).
type FetchErrorKind string

const (
	FetchErrNone             FetchErrorKind = ""
	FetchErrDNS              FetchErrorKind = "Dns"
	FetchErrTimeout          FetchErrorKind = "Timeout"
	FetchErrTLS              FetchErrorKind = "Tls"
	FetchErrHTTP4xx          FetchErrorKind = "Http4xx"
	FetchErrHTTP5xx          FetchErrorKind = "Http5xx"
	FetchErrParse            FetchErrorKind = "ParseError"
	FetchErrTooManyRedirects FetchErrorKind = "TooManyRedirects"
	FetchErrOther            FetchErrorKind = "Other"
)

// FetchError is the tagged error value attached to a PageCrawlResult.
// When set, all parsed fields of the enclosing PageCrawlResult are the
// zero value and WordCount is 0 (spec §3 invariant).
type FetchError struct {
	Kind       FetchErrorKind
	HTTPCode   int
	Message    string
}

func (e *FetchError) Error() string {
	if e == nil {
		return ""
	}
	if e.HTTPCode != 0 {
		return string(e.Kind) + " (" + strconv.Itoa(e.HTTPCode) + "): " + e.Message
	}
	return string(e.Kind) + ": " + e.Message
}

// Link is one extracted hyperlink, internal or external.
type Link struct {
	Href       string
	AnchorText string
	RelAttrs   []string
}

// Image is one extracted <img> element.
type Image struct {
	Src         string
	Alt         string
	Width       *int
	Height      *int
	LoadingAttr string
}

// PageCrawlResult is the immutable snapshot of one fetch (spec §3).
type PageCrawlResult struct {
	URL             string
	FinalURL        string
	HTTPStatus      int
	FetchedAt       time.Time
	FetchMode       FetchMode
	DurationMS      int64
	BytesDownloaded int64
	Truncated       bool
	RedirectCount   int

	Title             string
	H1                []string
	H2                []string
	H3                []string
	H4                []string
	H5                []string
	H6                []string
	MetaDescription   string
	Canonical         string
	RobotsDirectives  []string
	Lang              string
	Viewport          string

	Internal []Link
	External []Link
	Images   []Image

	VisibleText string
	WordCount   int
	ContentHash string
	HasForm     bool
	Phones      []string

	Scheme          string
	HSTSPresent     bool
	TLSValid        bool

	JSHeavy bool

	FetchError *FetchError
}

// HeadingCount returns the total number of H1..H6 tags, used by rules
// that need an aggregate heading signal.
func (p *PageCrawlResult) HeadingCount() int {
	return len(p.H1) + len(p.H2) + len(p.H3) + len(p.H4) + len(p.H5) + len(p.H6)
}

// PageRecord pairs a crawl snapshot with its classifier output (spec §3).
type PageRecord struct {
	Crawl    PageCrawlResult
	Tier     Tier
	PageType PageType
}
