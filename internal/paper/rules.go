package paper

import (
	"regexp"
	"strings"

	"holidaycal/internal/model"
)

const ordinal = `[一二三四五六七八九十]`

var (
	normalRulePattern = regexp.MustCompile(`^` + ordinal + `、(.+?)：(.+)`)
	patchTitlePattern = regexp.MustCompile(`^.*\d+年(.{2,})(?:假期|放假)安排.*`)
	patchRulePattern  = regexp.MustCompile(`^` + ordinal + `、(.+)$`)
	monthDayPattern   = regexp.MustCompile(`\d+月\d+日`)
)

// ExtractRules returns the rules of an announcement text. Duplicate lines
// are dropped, keeping the first occurrence, then numbered rules and patch
// rules are collected in that order.
//
// A NoRulesError is returned when neither kind is found.
func ExtractRules(text string) ([]model.Rule, error) {
	lines := uniqueLines(strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n"))

	rules := append(normalRules(lines), patchRules(lines)...)
	if len(rules) == 0 {
		return nil, &NoRulesError{Lines: lines}
	}
	return rules, nil
}

// normalRules matches "一、元旦：2021年1月1日放假..." lines.
func normalRules(lines []string) []model.Rule {
	var rules []model.Rule
	for _, line := range lines {
		if m := normalRulePattern.FindStringSubmatch(line); m != nil {
			rules = append(rules, model.Rule{Name: m[1], Description: m[2]})
		}
	}
	return rules
}

// patchRules matches numbered lines below a "...2020年春节假期安排..."
// heading. The heading provides the rule name; a numbered line is kept
// only when it mentions a month and a day.
func patchRules(lines []string) []model.Rule {
	var (
		rules []model.Rule
		name  string
	)
	for _, line := range lines {
		if m := patchTitlePattern.FindStringSubmatch(line); m != nil {
			name = m[1]
		}
		if name == "" {
			continue
		}

		m := patchRulePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if monthDayPattern.MatchString(m[1]) {
			rules = append(rules, model.Rule{Name: name, Description: m[1]})
		}
	}
	return rules
}

func uniqueLines(lines []string) []string {
	seen := make(map[string]struct{}, len(lines))
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	return out
}
