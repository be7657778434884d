package classdiagram

import (
	"regexp"
	"strings"
)

// LocateClass returns the approximate 1-based line range of class name within
// lines. It finds the first line declaring "class name" and balances braces
// from there. The range is a best effort:
//   - the first matching declaration wins, even if a later one has the body;
//   - braces inside strings or comments are counted;
//   - a declaration whose body never opens or never closes yields start == end.
//
// ok is false when no declaration is found.
func LocateClass(lines []string, name string) (start, end int, ok bool) {
	if name == "" {
		return 0, 0, false
	}

	re, err := regexp.Compile(`\bclass\s+` + regexp.QuoteMeta(name) + `\b`)
	if err != nil {
		return 0, 0, false
	}

	idx := -1

	for i, line := range lines {
		if re.MatchString(line) {
			idx = i
			break
		}
	}

	if idx < 0 {
		return 0, 0, false
	}

	start = idx + 1
	depth := 0
	opened := false

	for i := idx; i < len(lines); i++ {
		depth += strings.Count(lines[i], "{") - strings.Count(lines[i], "}")
		if strings.Contains(lines[i], "{") {
			opened = true
		}

		if !opened && i == idx {
			return start, start, true
		}

		if opened && depth <= 0 {
			return start, i + 1, true
		}
	}

	return start, start, true
}
