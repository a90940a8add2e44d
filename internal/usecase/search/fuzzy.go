package search

// fuzzyThreshold is the similarity a title must exceed to earn the fuzzy bonus.
const fuzzyThreshold = 0.7

// Similarity returns the fraction of needle's runes found, in order, in haystack.
// It walks haystack once and advances through needle on every match, so extra
// characters in haystack cost nothing while transposed ones do.
// An empty needle has similarity 0.
func Similarity(needle, haystack string) float64 {
	if needle == "" {
		return 0
	}
	n := []rune(needle)
	matched := 0
	for _, r := range haystack {
		if matched == len(n) {
			break
		}
		if r == n[matched] {
			matched++
		}
	}
	return float64(matched) / float64(len(n))
}
