package registry

import "strings"

// ValidFQN reports whether fqn matches segment(.segment)*.
func ValidFQN(fqn string) bool {
	if fqn == "" {
		return false
	}

	for seg := range strings.SplitSeq(fqn, ".") {
		if !isValidSegment(seg) {
			return false
		}
	}

	return true
}

// isValidSegment checks a single FQN segment.
func isValidSegment(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		if i == 0 {
			// First character must be letter or underscore
			if !isLetter(r) && r != '_' {
				return false
			}
		} else {
			// Subsequent characters can be letter, digit, or underscore
			if !isLetter(r) && !isDigit(r) && r != '_' {
				return false
			}
		}
	}

	return true
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
