package services

import (
	"fmt"

	"github.com/dansfisica85/dalmaso/pkg/apperrors"
)

// The two static partitions of the school's class tokens. Aggregation
// filters select one subset from each; the effective class set is the
// intersection. Tokens follow the school's naming: grade number plus
// section letter, fundamental (6º-9º ano) in the morning, médio (1ª-3ª
// série) split between morning and evening.
var shiftPartition = map[string][]string{
	"manha": {"6A", "6B", "7A", "7B", "8A", "8B", "9A", "9B", "1A", "1B"},
	"tarde": {"6C", "7C", "8C", "9C"},
	"noite": {"1C", "2A", "2B", "3A", "3B"},
}

var levelPartition = map[string][]string{
	"fundamental": {"6A", "6B", "6C", "7A", "7B", "7C", "8A", "8B", "8C", "9A", "9B", "9C"},
	"medio":       {"1A", "1B", "1C", "2A", "2B", "3A", "3B"},
}

// SelectTokens intersects the shift and level subsets. Empty filter names
// select everything on that axis. An unknown filter name is a validation
// error; a valid pair whose intersection is empty is an empty-selection
// error.
func SelectTokens(shift, level string) (map[string]struct{}, error) {
	shiftSet, err := partitionSubset(shiftPartition, shift, "turno")
	if err != nil {
		return nil, err
	}
	levelSet, err := partitionSubset(levelPartition, level, "nivel")
	if err != nil {
		return nil, err
	}

	selected := make(map[string]struct{})
	switch {
	case shiftSet == nil && levelSet == nil:
		return nil, nil // nil means "all cohorts, no token filtering"
	case shiftSet == nil:
		selected = levelSet
	case levelSet == nil:
		selected = shiftSet
	default:
		for token := range shiftSet {
			if _, ok := levelSet[token]; ok {
				selected[token] = struct{}{}
			}
		}
	}

	if len(selected) == 0 {
		return nil, fmt.Errorf("turno=%q nivel=%q: %w", shift, level, apperrors.ErrEmptySelection)
	}
	return selected, nil
}

func partitionSubset(partition map[string][]string, name, axis string) (map[string]struct{}, error) {
	if name == "" {
		return nil, nil
	}
	tokens, ok := partition[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown %s %q", apperrors.ErrValidation, axis, name)
	}
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set, nil
}
