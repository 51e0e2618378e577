package jd

import (
	"net"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Deriver extracts optional metadata from a posting. Implementations return "" when nothing
// is found and never fail.
type Deriver interface {
	Company(posting Posting) (company string)
	Recipient(posting Posting) (name string)
}

// HeuristicDeriver looks for labelled lines, common phrasing and finally the URL host.
type HeuristicDeriver struct{}

const (
	companyWords = `(\p{Lu}[\p{L}\p{N}&'.\-]*(?:[ \t]+(?:of|and|&|\p{Lu}[\p{L}\p{N}&'.\-]*)){0,5})`
	personWords  = `(\p{Lu}[\p{L}'\-]+(?:[ \t]+\p{Lu}[\p{L}'.\-]*){0,2})`
)

//nolint:gochecknoglobals // compiled once
var (
	companyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?m)^[ \t]*(?i:company|employer|organization)(?i:[ \t]+name)?[ \t]*[:\-][ \t]*` + companyWords),
		regexp.MustCompile(`(?i:join)[ \t]+(?i:the)[ \t]+` + companyWords + `[ \t]+(?i:team)`),
		regexp.MustCompile(`(?i:job application for)[^\n]{0,80}?[ \t](?i:at)[ \t]+` + companyWords),
		regexp.MustCompile(`(?i:role|opening|position|opportunity)[ \t]+(?i:at|with)[ \t]+` + companyWords),
	}
	recipientPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?m)^[ \t]*(?i:contact)(?i:[ \t]+(?:name|person))?[ \t]*[:\-][ \t]*` + personWords),
		regexp.MustCompile(`(?m)^[ \t]*(?i:hiring[ \t]+manager)[ \t]*[:\-][ \t]*` + personWords),
		regexp.MustCompile(`(?m)^[ \t]*(?i:recruiter)[ \t]*[:\-][ \t]*` + personWords),
		regexp.MustCompile(`(?m)^[ \t]*(?i:dear)[ \t]+` + personWords + `[ \t]*[,:]`),
	}
)

// companyStopwords are trailing words trimmed from a company candidate.
//
//nolint:gochecknoglobals // lookup table
var companyStopwords = map[string]bool{
	"apply": true, "application": true, "careers": true, "career": true, "department": true,
	"engineer": true, "engineering": true, "hiring": true, "hybrid": true, "job": true,
	"jobs": true, "lead": true, "manager": true, "opening": true, "opportunity": true,
	"position": true, "remote": true, "role": true, "senior": true, "staff": true, "team": true,
	"teams": true, "the": true, "of": true, "and": true, "&": true, "in": true,
}

// genericRecipientWords mark greetings that are not a person's name.
//
//nolint:gochecknoglobals // lookup table
var genericRecipientWords = map[string]bool{
	"hiring": true, "team": true, "sir": true, "madam": true, "candidate": true,
	"applicant": true, "recruiter": true, "recruiting": true, "manager": true, "friend": true,
	"all": true, "colleague": true, "colleagues": true, "apply": true, "us": true,
}

// genericSubdomains are skipped when naming a company from its host.
//
//nolint:gochecknoglobals // lookup table
var genericSubdomains = map[string]bool{
	"www": true, "jobs": true, "careers": true, "apply": true, "work": true, "job": true,
	"careersite": true, "boards": true, "hire": true, "recruiting": true,
}

// atsHosts are applicant-tracking hosts whose first path segment names the employer.
//
//nolint:gochecknoglobals // lookup table
var atsHosts = []string{
	"greenhouse.io",
	"lever.co",
	"ashbyhq.com",
	"workable.com",
	"smartrecruiters.com",
	"recruitee.com",
}

// Company returns the hiring company named in the posting, or "".
func (HeuristicDeriver) Company(posting Posting) (company string) {
	for _, text := range []string{posting.Text, posting.Title} {
		for _, pattern := range companyPatterns {
			match := pattern.FindStringSubmatch(text)
			if match == nil {
				continue
			}
			company = trimCompany(match[1])
			if company != "" {
				return company
			}
		}
	}

	if posting.Kind == SourceURL {
		company = CompanyFromURL(posting.Source)
	}
	return company
}

// Recipient returns the contact person named in the posting, or "".
func (HeuristicDeriver) Recipient(posting Posting) (name string) {
	for _, pattern := range recipientPatterns {
		for _, match := range pattern.FindAllStringSubmatch(posting.Text, -1) {
			name = trimPerson(match[1])
			if name != "" {
				return name
			}
		}
	}
	return name
}

// CompanyFromURL guesses a company name from a posting URL.
func CompanyFromURL(source string) (company string) {
	parsed, err := url.Parse(source)
	if err != nil || parsed.Hostname() == "" || net.ParseIP(parsed.Hostname()) != nil {
		return company
	}

	host := strings.ToLower(parsed.Hostname())
	candidate := ""

	for _, ats := range atsHosts {
		if host == ats || strings.HasSuffix(host, "."+ats) {
			segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
			if len(segments) > 0 {
				candidate = segments[0]
			}
			break
		}
	}

	if candidate == "" {
		labels := strings.Split(host, ".")
		if len(labels) > 1 {
			labels = labels[:len(labels)-1]
		}
		for _, label := range labels {
			if !genericSubdomains[label] {
				candidate = label
				break
			}
		}
	}

	candidate = strings.NewReplacer("-", " ", "_", " ").Replace(candidate)
	candidate = strings.Join(strings.Fields(candidate), " ")
	if candidate == "" {
		return company
	}

	company = cases.Title(language.English).String(candidate)
	return company
}

// trimCompany drops trailing stopwords and punctuation from a company candidate.
func trimCompany(raw string) (company string) {
	words := strings.Fields(raw)
	for len(words) > 0 {
		last := strings.TrimRight(words[len(words)-1], ".,;:'-")
		if last == "" || companyStopwords[strings.ToLower(last)] {
			words = words[:len(words)-1]
			continue
		}
		words[len(words)-1] = strings.TrimRight(words[len(words)-1], ",;:'-")
		break
	}
	company = strings.Join(words, " ")
	if !isSuffixed(company) {
		company = strings.TrimRight(company, ".")
	}
	return company
}

// isSuffixed reports whether name ends in a legal-entity suffix that keeps its period.
func isSuffixed(name string) (ok bool) {
	lower := strings.ToLower(name)
	for _, suffix := range []string{" inc.", " co.", " ltd.", " corp.", " l.l.c."} {
		if strings.HasSuffix(lower, suffix) {
			ok = true
			return ok
		}
	}
	return ok
}

// trimPerson rejects generic salutations and tidies punctuation.
func trimPerson(raw string) (name string) {
	words := strings.Fields(raw)
	for len(words) > 0 && strings.Trim(words[len(words)-1], ".'-") == "" {
		words = words[:len(words)-1]
	}
	for _, word := range words {
		if genericRecipientWords[strings.ToLower(strings.Trim(word, ".,"))] {
			return name
		}
	}
	name = strings.TrimRight(strings.Join(words, " "), ",")
	return name
}
