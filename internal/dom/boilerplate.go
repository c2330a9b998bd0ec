package dom

import "strings"

// Denylist describes non-content regions: elements dropped by tag name, by
// ARIA role, or by a whole class/id token.
type Denylist struct {
	Tags        []string
	Roles       []string
	ClassTokens []string
}

func DefaultDenylist() Denylist {
	return Denylist{
		Tags: []string{
			"script", "style", "noscript", "template", "iframe", "form", "button", "svg",
			"nav", "header", "footer", "aside",
		},
		Roles: []string{"navigation", "banner", "contentinfo", "complementary", "search"},
		ClassTokens: []string{
			"ad", "ads", "advert", "advertisement", "sponsor", "sponsored",
			"social", "share", "sharing", "comment", "comments",
			"cookie", "cookies", "popup", "promo", "newsletter",
			"sidebar", "breadcrumb", "breadcrumbs", "menu", "nav", "navbar", "footer",
		},
	}
}

// WithClassTokens returns a copy of d with extra class/id tokens appended.
func (d Denylist) WithClassTokens(tokens ...string) Denylist {
	out := Denylist{
		Tags:        append([]string(nil), d.Tags...),
		Roles:       append([]string(nil), d.Roles...),
		ClassTokens: append([]string(nil), d.ClassTokens...),
	}
	for _, t := range tokens {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			out.ClassTokens = append(out.ClassTokens, t)
		}
	}
	return out
}

// Matcher compiles d into a predicate usable with Document.RemoveFunc.
func (d Denylist) Matcher() func(Node) bool {
	tags := lowerSet(d.Tags)
	roles := lowerSet(d.Roles)
	tokens := lowerSet(d.ClassTokens)

	return func(n Node) bool {
		if tags[n.Tag()] {
			return true
		}
		if role, ok := n.Attr("role"); ok && anyToken(role, roles) {
			return true
		}
		if class, ok := n.Attr("class"); ok && anyToken(class, tokens) {
			return true
		}
		if id, ok := n.Attr("id"); ok && tokens[strings.ToLower(strings.TrimSpace(id))] {
			return true
		}
		return false
	}
}

// StripBoilerplate removes every element matched by d from doc.
func StripBoilerplate(doc Document, d Denylist) int {
	return doc.RemoveFunc(d.Matcher())
}

func anyToken(attr string, set map[string]bool) bool {
	for _, tok := range strings.Fields(attr) {
		if set[strings.ToLower(tok)] {
			return true
		}
	}
	return false
}

func lowerSet(list []string) map[string]bool {
	set := make(map[string]bool, len(list))
	for _, s := range list {
		set[strings.ToLower(s)] = true
	}
	return set
}
