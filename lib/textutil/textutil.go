package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

func MatchName(name string, matchers []string) bool {
	name = NormalizeName(name)
	for _, m := range matchers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}

// CollapseWhitespace trims a scraped text fragment and squashes runs of
// whitespace (including newlines from nested markup) into single spaces.
func CollapseWhitespace(s string) string {
	s = strings.TrimSpace(s)
	s = whitespaceRegex.ReplaceAllString(s, " ")
	return s
}

// FirstGoodLine returns the first line whose collapsed length falls in
// [min, max] and which does not contain any of the reject matchers.
func FirstGoodLine(text string, min, max int, reject []string) string {
	for _, line := range strings.Split(text, "\n") {
		line = CollapseWhitespace(line)
		if len(line) < min || len(line) > max {
			continue
		}
		if MatchName(line, reject) {
			continue
		}
		return line
	}
	return ""
}
