package redact

import "regexp"

// Category tags substituted for redacted spans.
const (
	TagName  = "[NAME]"
	TagDate  = "[DATE]"
	TagPhone = "[PHONE]"
	TagEmail = "[EMAIL]"
	TagURL   = "[URL]"
	TagID    = "[ID]"
)

// Rule replaces every match of Pattern with Tag.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Tag     string
}

// Rule names used by DefaultRules. RuleName is the only rule that consults
// the allow-list.
const (
	RuleName    = "name"
	RuleISODate = "iso_date"
	RuleDate    = "date"
	RulePhone   = "phone"
	RuleEmail   = "email"
	RuleURL     = "url"
	RuleMRN     = "mrn"
)

var (
	namePattern    = regexp.MustCompile(`\b[A-Z][a-z]+(?: [A-Z][a-z]+){0,2}\b`)
	isoDatePattern = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	datePattern    = regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`)
	phonePattern   = regexp.MustCompile(`\b(?:\+?\d{1,3}[-.\s]?)?(?:\(\d{3}\)|\d{3})[-.\s]?\d{3}[-.\s]?\d{4}\b`)
	emailPattern   = regexp.MustCompile(`[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+`)
	urlPattern     = regexp.MustCompile(`https?://\S+`)
	mrnPattern     = regexp.MustCompile(`\b(?:MRN|mrn|Medical Record Number)[:#\s]*\w+\b`)
)

// DefaultRules returns the standard cascade in application order. Earlier
// rules win where spans would overlap.
func DefaultRules() []Rule {
	return []Rule{
		{Name: RuleName, Pattern: namePattern, Tag: TagName},
		{Name: RuleISODate, Pattern: isoDatePattern, Tag: TagDate},
		{Name: RuleDate, Pattern: datePattern, Tag: TagDate},
		{Name: RulePhone, Pattern: phonePattern, Tag: TagPhone},
		{Name: RuleEmail, Pattern: emailPattern, Tag: TagEmail},
		{Name: RuleURL, Pattern: urlPattern, Tag: TagURL},
		{Name: RuleMRN, Pattern: mrnPattern, Tag: TagID},
	}
}
