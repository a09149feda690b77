package fixture

// Mark is the feedback shown on one tile after a guess.
type Mark string

const (
	MarkCorrect Mark = "correct"
	MarkPresent Mark = "present"
	MarkAbsent  Mark = "absent"
)

// Evaluate scores guess against answer. Exact matches are marked first so a
// repeated letter is only marked present as often as it remains unmatched in
// the answer. Both words must be lowercase a-z of equal length.
func Evaluate(answer, guess string) []Mark {
	marks := make([]Mark, len(guess))
	var remaining [26]int

	for i := 0; i < len(guess); i++ {
		if guess[i] == answer[i] {
			marks[i] = MarkCorrect
			continue
		}
		remaining[answer[i]-'a']++
	}

	for i := 0; i < len(guess); i++ {
		if marks[i] == MarkCorrect {
			continue
		}
		if j := guess[i] - 'a'; remaining[j] > 0 {
			marks[i] = MarkPresent
			remaining[j]--
		} else {
			marks[i] = MarkAbsent
		}
	}
	return marks
}

// Solved reports whether every mark is correct.
func Solved(marks []Mark) bool {
	for _, m := range marks {
		if m != MarkCorrect {
			return false
		}
	}
	return len(marks) > 0
}
