package jd

// SourceKind says where a posting came from.
type SourceKind string

// Source kinds.
const (
	SourceURL   SourceKind = "url"
	SourceFile  SourceKind = "file"
	SourceStdin SourceKind = "stdin"
)

// StdinSource is the source argument that reads the posting from standard input.
const StdinSource = "-"

// Posting is a fetched job posting. Company and Recipient are best-effort and empty when
// nothing could be derived.
type Posting struct {
	Text      string
	Kind      SourceKind
	Source    string
	Title     string
	Company   string
	Recipient string
}
