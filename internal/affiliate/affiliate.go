// Package affiliate rewrites marketplace URLs so outbound links carry the
// referring party's affiliate identifiers. Rewriting is pure string work:
// no network access, no side effects.
package affiliate

import (
	"net/url"
	"regexp"
	"strings"
)

// Param is a single query parameter an affiliate rule injects. Existing
// values are overwritten, so re-rewriting an already tagged URL is a no-op.
type Param struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

// Rule maps a marketplace hostname to the parameters identifying us.
// Host is matched as a substring of the parsed hostname.
type Rule struct {
	Host   string  `yaml:"host"`
	Params []Param `yaml:"params"`
}

// Rewriter applies an allow-list of affiliate rules to URLs and free text.
type Rewriter struct {
	rules   []Rule
	pattern *regexp.Regexp
}

// New creates a rewriter for the given rule set.
func New(rules []Rule) *Rewriter {
	hosts := make([]string, len(rules))
	for i, r := range rules {
		hosts[i] = regexp.QuoteMeta(r.Host)
	}
	// URLs in prose often end with sentence punctuation that is not part of
	// the link; exclude it from the match.
	pattern := regexp.MustCompile(`((?:https?://)?(?:www\.)?(?:` + strings.Join(hosts, "|") + `)[^\s.,;)]+)`)
	return &Rewriter{rules: rules, pattern: pattern}
}

// Default returns the built-in rule set for the two supported marketplaces.
func Default(amazonTag, mercadoLivreID string) *Rewriter {
	return New([]Rule{
		{
			Host:   "amazon.com.br",
			Params: []Param{{Key: "tag", Value: amazonTag}},
		},
		{
			Host: "mercadolivre.com.br",
			Params: []Param{
				{Key: "matt_tool", Value: "referral"},
				{Key: "matt_id", Value: mercadoLivreID},
			},
		},
	})
}

// RewriteText replaces every recognized marketplace URL in text with its
// affiliate-tagged form. Spans that fail URL parsing are left untouched.
func (r *Rewriter) RewriteText(text string) string {
	return r.RewriteTextWith(text, func(rewritten string) string { return rewritten })
}

// RewriteTextWith rewrites like RewriteText but passes each tagged URL
// through format, letting render surfaces wrap links (e.g. HTML anchors).
// Unparseable spans bypass format and stay byte-identical.
func (r *Rewriter) RewriteTextWith(text string, format func(rewritten string) string) string {
	if text == "" {
		return ""
	}
	return r.pattern.ReplaceAllStringFunc(text, func(match string) string {
		rewritten, ok := r.rewrite(match)
		if !ok {
			return match
		}
		return format(rewritten)
	})
}

// Link rewrites a single URL for use as a direct link target. Scheme-less
// input is assumed to be https. Unparseable input is returned unchanged.
func (r *Rewriter) Link(raw string) string {
	rewritten, ok := r.rewrite(raw)
	if !ok {
		return raw
	}
	return rewritten
}

func (r *Rewriter) rewrite(raw string) (string, bool) {
	toParse := raw
	if !strings.HasPrefix(toParse, "http://") && !strings.HasPrefix(toParse, "https://") {
		toParse = "https://" + toParse
	}

	u, err := url.Parse(toParse)
	if err != nil || u.Hostname() == "" {
		return "", false
	}

	for _, rule := range r.rules {
		if !strings.Contains(u.Hostname(), rule.Host) {
			continue
		}
		q := u.Query()
		for _, p := range rule.Params {
			q.Set(p.Key, p.Value)
		}
		u.RawQuery = q.Encode()
		return u.String(), true
	}

	return "", false
}
