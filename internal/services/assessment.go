package services

import "strings"

// AxisScores holds the per-axis partition of MBTI responses. Each map is
// keyed by question id; values are +1 for the first letter of the pair
// (E, S, T, J) and -1 for the second (I, N, F, P).
type AxisScores struct {
	EI map[string]int `json:"ei"`
	SN map[string]int `json:"sn"`
	TF map[string]int `json:"tf"`
	JP map[string]int `json:"jp"`

	// Dropped counts responses whose value was outside the fixed
	// answer set and therefore excluded from every axis.
	Dropped int `json:"-"`
}

// AggregateMBTI partitions single-letter answers into the four MBTI axes.
// Only the exact uppercase letters E, I, S, N, T, F, J, P are recognized;
// anything else, including lowercase or padded variants, is dropped.
func AggregateMBTI(responses map[string]string) AxisScores {
	scores := AxisScores{
		EI: make(map[string]int),
		SN: make(map[string]int),
		TF: make(map[string]int),
		JP: make(map[string]int),
	}

	for id, answer := range responses {
		switch answer {
		case "E":
			scores.EI[id] = 1
		case "I":
			scores.EI[id] = -1
		case "S":
			scores.SN[id] = 1
		case "N":
			scores.SN[id] = -1
		case "T":
			scores.TF[id] = 1
		case "F":
			scores.TF[id] = -1
		case "J":
			scores.JP[id] = 1
		case "P":
			scores.JP[id] = -1
		default:
			scores.Dropped++
		}
	}

	return scores
}

// DeriveType computes the four-letter type code from aggregated scores.
// A tied or empty axis resolves to the first letter of its pair.
func DeriveType(scores AxisScores) string {
	var b strings.Builder
	b.WriteByte(pick(scores.EI, 'E', 'I'))
	b.WriteByte(pick(scores.SN, 'S', 'N'))
	b.WriteByte(pick(scores.TF, 'T', 'F'))
	b.WriteByte(pick(scores.JP, 'J', 'P'))
	return b.String()
}

func pick(axis map[string]int, first, second byte) byte {
	sum := 0
	for _, v := range axis {
		sum += v
	}
	if sum >= 0 {
		return first
	}
	return second
}
