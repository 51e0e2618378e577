package jd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"golang.org/x/net/html/charset"
)

// DefaultTimeout bounds a single URL fetch.
const DefaultTimeout = 20 * time.Second

// DefaultUserAgent is a browser-like agent; several job boards reject obvious bots.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0 Safari/537.36"

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 8 << 20

// noiseSelectors are removed before text extraction.
const noiseSelectors = "nav, footer, header, script, style, noscript, svg, iframe, form, .cookie-banner, .popup"

// Fetcher resolves job sources to postings.
type Fetcher struct {
	Client    *http.Client
	UserAgent string
	Deriver   Deriver
	// Stdin is read when the source is StdinSource.
	Stdin io.Reader
}

// NewFetcher returns a Fetcher whose HTTP requests are bounded by timeout.
func NewFetcher(timeout time.Duration) (f *Fetcher) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	f = &Fetcher{
		Client:    &http.Client{Timeout: timeout},
		UserAgent: DefaultUserAgent,
		Deriver:   HeuristicDeriver{},
		Stdin:     os.Stdin,
	}
	return f
}

// IsURL reports whether source is an HTTP(S) URL.
func IsURL(source string) (ok bool) {
	parsed, err := url.Parse(source)
	ok = err == nil && (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
	return ok
}

// Fetch retrieves the job posting at source, a URL or a local path. Company and recipient are
// derived on a best-effort basis.
func (f *Fetcher) Fetch(ctx context.Context, source string) (posting Posting, err error) {
	switch {
	case source == StdinSource:
		posting, err = f.fetchFromStdin()
	case IsURL(source):
		posting, err = f.fetchFromURL(ctx, source)
	default:
		posting, err = fetchFromFile(source)
	}
	if err != nil {
		return posting, err
	}

	deriver := f.Deriver
	if deriver == nil {
		deriver = HeuristicDeriver{}
	}
	posting.Company = deriver.Company(posting)
	posting.Recipient = deriver.Recipient(posting)

	return posting, err
}

// fetchFromFile reads a job posting verbatim from disk.
func fetchFromFile(path string) (posting Posting, err error) {
	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			err = &FetchError{Kind: KindNotFound, Source: path, Message: "job description source not found", Err: err}
			return posting, err
		}
		err = &FetchError{Kind: KindNotFound, Source: path, Message: "failed to read file", Err: err}
		return posting, err
	}

	if !utf8.Valid(data) {
		err = &FetchError{Kind: KindDecode, Source: path, Message: "file is not valid UTF-8 text"}
		return posting, err
	}

	posting = Posting{
		Text:   string(data),
		Kind:   SourceFile,
		Source: path,
	}
	return posting, err
}

// fetchFromStdin reads a pasted job posting until EOF. Useful for pages that only render with
// JavaScript.
func (f *Fetcher) fetchFromStdin() (posting Posting, err error) {
	if f.Stdin == nil {
		err = &FetchError{Kind: KindNotFound, Source: StdinSource, Message: "no standard input available"}
		return posting, err
	}

	var data []byte
	data, err = io.ReadAll(io.LimitReader(f.Stdin, maxBodyBytes))
	if err != nil {
		err = &FetchError{Kind: KindDecode, Source: StdinSource, Message: "failed to read standard input", Err: err}
		return posting, err
	}

	if !utf8.Valid(data) {
		err = &FetchError{Kind: KindDecode, Source: StdinSource, Message: "input is not valid UTF-8 text"}
		return posting, err
	}
	if strings.TrimSpace(string(data)) == "" {
		err = &FetchError{Kind: KindDecode, Source: StdinSource, Message: "no job description received on standard input"}
		return posting, err
	}

	posting = Posting{
		Text:   string(data),
		Kind:   SourceStdin,
		Source: StdinSource,
	}
	return posting, err
}

// fetchFromURL performs a single GET and extracts the page's visible text.
func (f *Fetcher) fetchFromURL(ctx context.Context, urlStr string) (posting Posting, err error) {
	var req *http.Request
	req, err = http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		err = &FetchError{Kind: KindNetwork, Source: urlStr, Message: "failed to create HTTP request", Err: err}
		return posting, err
	}

	userAgent := f.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")

	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}

	var resp *http.Response
	resp, err = client.Do(req)
	if err != nil {
		err = &FetchError{Kind: KindNetwork, Source: urlStr, Message: "HTTP request failed", Err: err}
		return posting, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err = &FetchError{Kind: KindNetwork, Source: urlStr, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
		return posting, err
	}

	// Read response body
	var raw []byte
	raw, err = io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		err = &FetchError{Kind: KindNetwork, Source: urlStr, Message: "failed to read response body", Err: err}
		return posting, err
	}

	// Transcode to UTF-8 from the declared or sniffed charset
	contentType := resp.Header.Get("Content-Type")
	var reader io.Reader
	reader, err = charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		err = &FetchError{Kind: KindDecode, Source: urlStr, Message: "unsupported character encoding", Err: err}
		return posting, err
	}

	var body []byte
	body, err = io.ReadAll(reader)
	if err != nil {
		err = &FetchError{Kind: KindDecode, Source: urlStr, Message: "failed to decode response body", Err: err}
		return posting, err
	}

	if !utf8.Valid(body) {
		err = &FetchError{Kind: KindDecode, Source: urlStr, Message: "page is not valid text in its declared encoding"}
		return posting, err
	}

	var text, title string
	if strings.HasPrefix(contentType, "text/plain") {
		text = cleanWhitespace(string(body))
	} else {
		text, title, err = ExtractText(string(body))
		if err != nil {
			err = &FetchError{Kind: KindDecode, Source: urlStr, Message: "failed to parse HTML", Err: err}
			return posting, err
		}
	}

	if text == "" {
		err = &FetchError{Kind: KindDecode, Source: urlStr, Message: "page has no visible text"}
		return posting, err
	}

	posting = Posting{
		Text:   text,
		Kind:   SourceURL,
		Source: urlStr,
		Title:  title,
	}
	return posting, err
}

// ExtractText parses HTML and returns its visible main text along with the page title.
// Job-posting containers are preferred; the body is the fallback.
func ExtractText(html string) (text string, title string, err error) {
	var doc *goquery.Document
	doc, err = goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		err = errors.Wrap(err, "failed to parse HTML")
		return text, title, err
	}

	title = strings.Join(strings.Fields(doc.Find("title").First().Text()), " ")

	doc.Find(noiseSelectors).Remove()

	var content *goquery.Selection
	for _, selector := range postingSelectors() {
		if selection := doc.Find(selector); selection.Length() > 0 {
			content = selection.First()
			break
		}
	}
	if content == nil {
		content = doc.Find("body")
	}

	text = cleanWhitespace(blockText(content))
	return text, title, err
}

// postingSelectors returns containers that usually hold a job description.
func postingSelectors() (selectors []string) {
	selectors = []string{
		".job-description",
		"#job-description",
		".job-content",
		"#job-content",
		".posting-page",
		".posting-content",
		"#content .job",
		".job-details",
		"[data-testid='job-description']",
		"main",
		"article",
	}
	return selectors
}

// blockText returns the text of sel with a newline after each block-level element so that
// headings and list items stay on their own lines.
func blockText(sel *goquery.Selection) (text string) {
	sel.Find("br").ReplaceWithHtml("\n")
	sel.Find("p, div, li, h1, h2, h3, h4, h5, h6, tr, section, dt, dd").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})
	text = sel.Text()
	return text
}

// cleanWhitespace trims every line, collapses inner runs of spaces and drops empty lines.
func cleanWhitespace(text string) (cleaned string) {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			kept = append(kept, line)
		}
	}
	cleaned = strings.Join(kept, "\n")
	return cleaned
}
