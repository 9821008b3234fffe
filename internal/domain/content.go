package domain

import (
	"regexp"
	"strconv"
	"strings"
)

type ContentKind string

const (
	ContentPlain    ContentKind = "plain"
	ContentLink     ContentKind = "link"
	ContentExpanded ContentKind = "expanded"
)

// Defaults used when no limit is configured.
const (
	// DefaultMaxRepeat caps the repeat count of "$N{payload}".
	DefaultMaxRepeat = 1000
	// DefaultMaxExpandedBytes caps the size of an expanded template.
	DefaultMaxExpandedBytes = 64 * 1024
)

// The optional separator accepts the same whitespace as an ECMAScript \s and
// the payload stops at ECMAScript line terminators.
var repeatPattern = regexp.MustCompile(`^\$(\d+)[\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}]?\{([^\n\r\x{2028}\x{2029}]+)\}$`)

// Content is the result of classifying raw message text. Link and Expanded
// are computed independently from the same raw input.
type Content struct {
	Text     string
	Link     string
	Expanded bool
}

func (c Content) IsLink() bool {
	return c.Link != ""
}

// Kind orders expanded over link over plain.
func (c Content) Kind() ContentKind {
	switch {
	case c.Expanded:
		return ContentExpanded
	case c.IsLink():
		return ContentLink
	default:
		return ContentPlain
	}
}

type Classifier struct {
	maxRepeat        int
	maxExpandedBytes int
}

// NewClassifier returns a classifier expanding at most maxRepeat repetitions
// into at most maxExpandedBytes bytes. Templates above either cap are kept as
// plain text. Negative values select the defaults.
func NewClassifier(maxRepeat, maxExpandedBytes int) *Classifier {
	if maxRepeat < 0 {
		maxRepeat = DefaultMaxRepeat
	}
	if maxExpandedBytes < 0 {
		maxExpandedBytes = DefaultMaxExpandedBytes
	}
	return &Classifier{maxRepeat: maxRepeat, maxExpandedBytes: maxExpandedBytes}
}

func (c *Classifier) Classify(raw string) Content {
	content := Content{Text: raw}

	if strings.Contains(raw, "https://") || strings.Contains(raw, "http://") {
		content.Link = raw
	}

	if text, ok := c.expand(raw); ok {
		content.Text = text
		content.Expanded = true
	}

	return content
}

func (c *Classifier) expand(raw string) (string, bool) {
	match := repeatPattern.FindStringSubmatch(raw)
	if match == nil {
		return "", false
	}

	count, err := strconv.Atoi(match[1])
	if err != nil || count > c.maxRepeat {
		return "", false
	}
	if count == 0 {
		return "", true
	}

	payload := match[2]
	// every copy is followed by ", " except the last, which gets "."
	size := int64(count)*int64(len(payload)+2) - 1
	if size > int64(c.maxExpandedBytes) {
		return "", false
	}

	var b strings.Builder
	b.Grow(int(size))
	for i := 0; i < count; i++ {
		b.WriteString(payload)
		if i == count-1 {
			b.WriteString(".")
		} else {
			b.WriteString(", ")
		}
	}
	return b.String(), true
}
