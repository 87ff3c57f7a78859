package deck

import (
	"errors"
	"fmt"

	"github.com/agnivade/levenshtein"
)

var ErrUnknownCard = errors.New("unknown card")

func suggestionLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

// suggest returns the closest known id, or "" when nothing is close enough
func suggest(id string, known []string) string {
	best, bestDist := "", -1
	for _, candidate := range known {
		dist := levenshtein.ComputeDistance(id, candidate)
		if dist > suggestionLimit(len(candidate)) {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = candidate, dist
		}
	}
	return best
}

func unknownCard(kind, id string, known []string) error {
	if s := suggest(id, known); s != "" {
		return fmt.Errorf("%w: %s %q (did you mean %q?)", ErrUnknownCard, kind, id, s)
	}
	return fmt.Errorf("%w: %s %q", ErrUnknownCard, kind, id)
}
