package classdiagram

import (
	"fmt"
	"regexp"
	"strings"

	"specweaver/internal/entity"
)

// relationPattern matches
//
//	Left ["card"] [leftMarker](--|..)[rightMarker] ["card"] Right [: label]
//
// Endpoints may carry Mermaid generics ("Box~T~"), which are dropped.
// The %s verb takes the alternation of right-end markers.
const relationPattern = `^(\w[\w.]*)(?:~[^~\s]*~)?\s*(?:"([^"]*)"\s*)?` +
	`(<\||\*|o|\(\)|<)?(--|\.\.)(%s)?` +
	`\s*(?:"([^"]*)"\s*)?(\w[\w.]*)(?:~[^~\s]*~)?\s*(?::\s*(.*))?$`

var (
	relationRe = regexp.MustCompile(fmt.Sprintf(relationPattern, `\|>|\*|o|\(\)|>`))
	// relationNoAggregateRe reads "A --order" as a link to "order".
	relationNoAggregateRe = regexp.MustCompile(fmt.Sprintf(relationPattern, `\|>|\*|\(\)|>`))
)

// matchRelation matches line against relationRe. An "o" right after the
// line that runs into a name is the first letter of that name, not an
// aggregation marker.
func matchRelation(line string) []string {
	idx := relationRe.FindStringSubmatchIndex(line)
	if idx == nil {
		return nil
	}

	if start, end := idx[10], idx[11]; start >= 0 && line[start:end] == "o" && end < len(line) && isNamePart(line[end]) {
		return relationNoAggregateRe.FindStringSubmatch(line)
	}

	return relationRe.FindStringSubmatch(line)
}

// marker is one end decoration of a relationship line.
type marker int

const (
	markNone marker = iota
	markInherit
	markComposition
	markAggregation
	markLollipop
	markArrow
)

func parseMarker(s string) marker {
	switch s {
	case "<|", "|>":
		return markInherit
	case "*":
		return markComposition
	case "o":
		return markAggregation
	case "()":
		return markLollipop
	case "<", ">":
		return markArrow
	default:
		return markNone
	}
}

// parseRelationship parses a relationship statement. The bool is false when
// line is not a relationship.
//
// The end carrying an inheritance, realization, lollipop or arrow marker is
// the target. Composition and aggregation markers sit on the whole, which
// becomes the source. Without markers the written order is kept.
func parseRelationship(line string, lineNo int) (Relationship, bool) {
	m := matchRelation(line)
	if m == nil {
		return Relationship{}, false
	}

	left, leftCard, leftMark := m[1], m[2], parseMarker(m[3])
	dotted := m[4] == ".."
	rightMark, rightCard, right := parseMarker(m[5]), m[6], m[7]

	r := Relationship{
		Source:            left,
		Target:            right,
		SourceCardinality: leftCard,
		TargetCardinality: rightCard,
		Label:             strings.TrimSpace(m[8]),
		Line:              lineNo,
	}

	mark, onLeft := dominantMarker(leftMark, rightMark)
	r.Kind = relationKind(mark, dotted)

	swap := false

	switch mark {
	case markComposition, markAggregation:
		swap = !onLeft
	case markNone:
	default:
		swap = onLeft
	}

	if swap {
		r.Source, r.Target = r.Target, r.Source
		r.SourceCardinality, r.TargetCardinality = r.TargetCardinality, r.SourceCardinality
	}

	return r, true
}

// dominantMarker picks the marker that decides the relationship kind and
// reports whether it sits on the left end. Two-way relationships resolve to
// the stronger marker, the right end winning ties.
func dominantMarker(left, right marker) (marker, bool) {
	for _, want := range []marker{markInherit, markComposition, markAggregation, markLollipop, markArrow} {
		if right == want {
			return want, false
		}

		if left == want {
			return want, true
		}
	}

	return markNone, false
}

func relationKind(mark marker, dotted bool) entity.RelationKind {
	switch mark {
	case markInherit:
		if dotted {
			return entity.RelationRealization
		}

		return entity.RelationInheritance
	case markComposition:
		return entity.RelationComposition
	case markAggregation:
		return entity.RelationAggregation
	case markLollipop:
		return entity.RelationLollipop
	case markArrow:
		if dotted {
			return entity.RelationDependency
		}

		return entity.RelationAssociation
	default:
		if dotted {
			return entity.RelationDependency
		}

		return entity.RelationLink
	}
}
