package analyzer

import (
	"fmt"
	"regexp"
	"strings"
)

const atomNamespace = "http://www.w3.org/2005/Atom"

var rssOpeningTagPattern = regexp.MustCompile(`<rss\b[^>]*>`)

// document carries everything a validation rule may inspect: the raw
// serialization and the lax tree parsed from it (nil when the markup is
// too malformed to build a tree).
type document struct {
	raw  string
	tree *xmlNode
}

// validationRule is one declarative structural check. Rules are evaluated
// in order and every applicable rule runs; nothing short-circuits except
// the initial XML-likeness gate.
type validationRule struct {
	kind  string
	check func(doc *document) []Violation
}

var rssRules = []validationRule{
	{kind: "rss-version", check: checkRSSVersionAttr},
	{kind: "rss-channel", check: checkRSSChannel},
}

var atomRules = []validationRule{
	{kind: "atom-elements", check: checkAtomElements},
}

var commonRules = []validationRule{
	{kind: "media-filesize", check: checkMediaFilesize},
}

// Validate inspects the raw document and verifies presence and
// well-formedness of the elements its feed family requires. Every rule
// failure is accumulated; the outcome is valid iff no rule failed.
// Internal faults never escape: a tree that cannot be built is reported
// as a violation, not an error.
func Validate(doc RawDocument) ValidationOutcome {
	trimmed := strings.TrimSpace(doc.Text)

	// Gate: anything that does not even look like XML gets a single
	// violation and no further scrutiny.
	if !strings.HasPrefix(trimmed, "<?xml") &&
		!strings.HasPrefix(trimmed, "<rss") &&
		!strings.HasPrefix(trimmed, "<feed") {
		return invalidOutcome([]Violation{{Message: "Document is not valid XML-like content"}})
	}

	d := &document{raw: doc.Text}
	if tree, err := parseXMLTree(doc.Text); err == nil {
		d.tree = tree
	}

	var rules []validationRule
	switch {
	case strings.Contains(doc.Text, "<rss") || strings.Contains(doc.Text, "<channel>"):
		rules = rssRules
	case strings.Contains(doc.Text, "<feed") && strings.Contains(doc.Text, atomNamespace):
		rules = atomRules
	default:
		return invalidOutcome(append(
			[]Violation{{Message: "Document is not a recognized RSS 2.0 or Atom feed"}},
			runRules(commonRules, d)...))
	}

	violations := runRules(rules, d)
	violations = append(violations, runRules(commonRules, d)...)

	if len(violations) > 0 {
		return invalidOutcome(violations)
	}
	return ValidationOutcome{IsValid: true}
}

func runRules(rules []validationRule, d *document) []Violation {
	var violations []Violation
	for _, rule := range rules {
		violations = append(violations, rule.check(d)...)
	}
	return violations
}

func invalidOutcome(violations []Violation) ValidationOutcome {
	return ValidationOutcome{IsValid: false, Violations: violations}
}

// checkRSSVersionAttr inspects the raw opening tag: the version attribute
// belongs to the serialization itself, so this check stays textual.
func checkRSSVersionAttr(d *document) []Violation {
	opening := rssOpeningTagPattern.FindString(d.raw)
	if opening == "" {
		return nil
	}
	if !strings.Contains(opening, "version") {
		return []Violation{{Message: "<rss> tag is missing the version attribute"}}
	}
	return nil
}

func checkRSSChannel(d *document) []Violation {
	if d.tree == nil {
		if strings.Contains(d.raw, "<channel>") {
			return []Violation{{Message: "<channel> element found but its content could not be isolated"}}
		}
		return []Violation{{Message: "Missing <channel> element"}}
	}

	channel := d.tree.descendant("channel")
	if channel == nil && d.tree.Name.Local == "channel" {
		channel = d.tree
	}
	if channel == nil {
		return []Violation{{Message: "Missing <channel> element"}}
	}

	var violations []Violation

	if title := channel.child("title"); title == nil {
		violations = append(violations, Violation{Message: "Missing <title> element in channel"})
	} else if title.textContent() == "" {
		violations = append(violations, Violation{Message: "Channel <title> element is empty"})
	}

	if channel.child("link") == nil {
		violations = append(violations, Violation{Message: "Missing <link> element in channel"})
	}

	items := channel.childrenNamed("item")
	if len(items) == 0 {
		violations = append(violations, Violation{Message: "Feed has no <item> elements"})
	}
	for i, item := range items {
		if item.child("title") == nil && item.child("description") == nil {
			violations = append(violations, Violation{
				Message: fmt.Sprintf("Item #%d is missing both <title> and <description>", i+1),
			})
		}
	}

	return violations
}

func checkAtomElements(d *document) []Violation {
	if d.tree == nil {
		return []Violation{{Message: "<feed> element found but its content could not be isolated"}}
	}

	root := d.tree
	if root.Name.Local != "feed" {
		if found := root.descendant("feed"); found != nil {
			root = found
		} else {
			return []Violation{{Message: "Missing <feed> element"}}
		}
	}

	var violations []Violation
	for _, required := range []string{"title", "id", "updated"} {
		if root.child(required) == nil {
			violations = append(violations, Violation{
				Message: fmt.Sprintf("Missing <%s> element in feed", required),
			})
		}
	}

	if len(root.childrenNamed("entry")) == 0 {
		violations = append(violations, Violation{Message: "Feed has no <entry> elements"})
	}

	return violations
}

// checkMediaFilesize flags <media:content> elements carrying a filesize
// attribute, which the Media RSS schema does not define. Occurrences are
// aggregated into one violation.
func checkMediaFilesize(d *document) []Violation {
	if d.tree == nil {
		return nil
	}

	count := 0
	d.tree.walk(func(n *xmlNode) {
		if n.Name.Local != "content" || !isMediaNamespace(n.Name.Space) {
			return
		}
		if _, ok := n.attr("filesize"); ok {
			count++
		}
	})

	if count == 0 {
		return nil
	}
	return []Violation{{
		Message: fmt.Sprintf("Invalid filesize attribute on %d <media:content> element(s)", count),
	}}
}

// isMediaNamespace matches both the resolved Media RSS namespace URI and
// a bare "media" prefix, which the lax decoder leaves unresolved when the
// feed never declares it.
func isMediaNamespace(space string) bool {
	return space == "media" || strings.Contains(space, "search.yahoo.com/mrss")
}
