package types

// CommonWord is a word present in both compared analyses, with each
// side's count.
type CommonWord struct {
	Word   string
	Count1 int
	Count2 int
}

// FrequencyChange is the signed count delta (Count2 - Count1) for a word
// present in both compared analyses.
type FrequencyChange struct {
	Word   string
	Count1 int
	Count2 int
	Delta  int
}

// Comparison is the set-based diff of two word-frequency analyses.
// FrequencyChanges is ordered by descending absolute delta; tie order is
// unspecified and callers must not depend on it.
type Comparison struct {
	FirstID          string
	SecondID         string
	CommonWords      []CommonWord
	UniqueToFirst    []WordCount
	UniqueToSecond   []WordCount
	FrequencyChanges []FrequencyChange
}
