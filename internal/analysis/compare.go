package analysis

import (
	"sort"

	"github.com/mesh-intelligence/concord/pkg/types"
)

// Compare diffs the word-frequency results of two stored analyses.
// Returns nil when either analysis is missing or carries no
// word-frequency result. Common and unique word lists are sorted
// alphabetically; frequency changes by descending absolute delta.
func (t *Tracker) Compare(firstID, secondID string) (*types.Comparison, error) {
	first, err := wordFreqOf(t.store.AnalysisDetail(firstID))
	if err != nil {
		return nil, err
	}
	second, err := wordFreqOf(t.store.AnalysisDetail(secondID))
	if err != nil {
		return nil, err
	}
	if first == nil || second == nil {
		return nil, nil
	}
	return compareFrequencies(firstID, secondID, first, second), nil
}

// wordFreqOf extracts the word-frequency pairs from an analysis detail.
// Duplicate words keep the last count seen.
func wordFreqOf(detail *types.AnalysisDetail, err error) (map[string]int, error) {
	if err != nil || detail == nil {
		return nil, err
	}
	result, ok := detail.Results[types.ResultWordFreq]
	if !ok {
		return nil, nil
	}
	freq := make(map[string]int, len(result.Pairs))
	for _, pair := range result.Pairs {
		freq[pair.Word] = pair.Count
	}
	return freq, nil
}

func compareFrequencies(firstID, secondID string, first, second map[string]int) *types.Comparison {
	cmp := &types.Comparison{FirstID: firstID, SecondID: secondID}

	for word, count1 := range first {
		count2, shared := second[word]
		if !shared {
			cmp.UniqueToFirst = append(cmp.UniqueToFirst, types.WordCount{Word: word, Count: count1})
			continue
		}
		cmp.CommonWords = append(cmp.CommonWords, types.CommonWord{Word: word, Count1: count1, Count2: count2})
		cmp.FrequencyChanges = append(cmp.FrequencyChanges, types.FrequencyChange{
			Word: word, Count1: count1, Count2: count2, Delta: count2 - count1,
		})
	}
	for word, count2 := range second {
		if _, shared := first[word]; !shared {
			cmp.UniqueToSecond = append(cmp.UniqueToSecond, types.WordCount{Word: word, Count: count2})
		}
	}

	sort.Slice(cmp.CommonWords, func(i, j int) bool {
		return cmp.CommonWords[i].Word < cmp.CommonWords[j].Word
	})
	sort.Slice(cmp.UniqueToFirst, func(i, j int) bool {
		return cmp.UniqueToFirst[i].Word < cmp.UniqueToFirst[j].Word
	})
	sort.Slice(cmp.UniqueToSecond, func(i, j int) bool {
		return cmp.UniqueToSecond[i].Word < cmp.UniqueToSecond[j].Word
	})
	sort.SliceStable(cmp.FrequencyChanges, func(i, j int) bool {
		return abs(cmp.FrequencyChanges[i].Delta) > abs(cmp.FrequencyChanges[j].Delta)
	})
	return cmp
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
