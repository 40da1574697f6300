package scoring

import (
	"sort"
	"strings"
)

// TokenSetRatio compares two strings by their whitespace-separated token
// sets and returns a similarity in [0,1]. Shared tokens count as a full
// match when one set contains the other; otherwise the sorted differences
// are compared by indel distance. Lengths are measured in runes.
func TokenSetRatio(a, b string) float64 {
	tokensA := tokenSet(a)
	tokensB := tokenSet(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	var intersect, diffAB, diffBA []string
	for tok := range tokensA {
		if tokensB[tok] {
			intersect = append(intersect, tok)
		} else {
			diffAB = append(diffAB, tok)
		}
	}
	for tok := range tokensB {
		if !tokensA[tok] {
			diffBA = append(diffBA, tok)
		}
	}

	if len(intersect) > 0 && (len(diffAB) == 0 || len(diffBA) == 0) {
		return 1
	}

	sort.Strings(intersect)
	sort.Strings(diffAB)
	sort.Strings(diffBA)

	abJoined := []rune(strings.Join(diffAB, " "))
	baJoined := []rune(strings.Join(diffBA, " "))
	abLen := len(abJoined)
	baLen := len(baJoined)
	sectLen := len([]rune(strings.Join(intersect, " ")))

	sep := 0
	if sectLen > 0 {
		sep = 1
	}
	sectABLen := sectLen + sep + abLen
	sectBALen := sectLen + sep + baLen

	result := normalizedSimilarity(indelDistance(abJoined, baJoined), sectABLen+sectBALen)
	if sectLen == 0 {
		return result
	}

	sectABRatio := normalizedSimilarity(sep+abLen, sectLen+sectABLen)
	sectBARatio := normalizedSimilarity(sep+baLen, sectLen+sectBALen)
	return max(result, sectABRatio, sectBARatio)
}

func tokenSet(s string) map[string]bool {
	fields := strings.Fields(s)
	out := make(map[string]bool, len(fields))
	for _, f := range fields {
		out[f] = true
	}
	return out
}

func normalizedSimilarity(dist, total int) float64 {
	if total == 0 {
		return 1
	}
	return 1 - float64(dist)/float64(total)
}

// indelDistance is the insertion/deletion edit distance, len(a)+len(b)-2*LCS.
func indelDistance(a, b []rune) int {
	return len(a) + len(b) - 2*lcsLength(a, b)
}

func lcsLength(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
