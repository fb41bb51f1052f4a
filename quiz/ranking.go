package quiz

import "sort"

// Standing is one student's position on a quiz leaderboard.
type Standing struct {
	StudentID uint  `json:"student_id"`
	Marks     int   `json:"marks"`
	TimeTaken int64 `json:"time_taken"`
	Rank      int   `json:"rank"`
}

// Better reports whether a outranks b: more marks, or equal marks in less
// time.
func Better(a, b Standing) bool {
	if a.Marks != b.Marks {
		return a.Marks > b.Marks
	}
	return a.TimeTaken < b.TimeTaken
}

// Sort orders entries best first and rewrites Rank from 1. Exact ties keep
// the lower student id first so the order is stable across runs.
func Sort(entries []Standing) {
	sort.SliceStable(entries, func(i, j int) bool {
		if Better(entries[i], entries[j]) {
			return true
		}
		if Better(entries[j], entries[i]) {
			return false
		}
		return entries[i].StudentID < entries[j].StudentID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
}

// Upsert places e on the board. An existing entry of the same student is
// replaced only when e is strictly better. The result is sorted, ranked and
// cut to cap entries (0 keeps all). changed is false when e was not applied.
func Upsert(entries []Standing, e Standing, cap int) (out []Standing, changed bool) {
	out = make([]Standing, 0, len(entries)+1)
	found := false
	for _, cur := range entries {
		if cur.StudentID != e.StudentID {
			out = append(out, cur)
			continue
		}
		found = true
		if Better(e, cur) {
			out = append(out, e)
			changed = true
		} else {
			out = append(out, cur)
		}
	}
	if !found {
		out = append(out, e)
		changed = true
	}

	Sort(out)
	if cap > 0 && len(out) > cap {
		out = out[:cap]
	}
	return out, changed
}

// Sorted checks the leaderboard order invariant on adjacent pairs.
func Sorted(entries []Standing) bool {
	for i := 1; i < len(entries); i++ {
		a, b := entries[i-1], entries[i]
		if !(a.Marks > b.Marks || (a.Marks == b.Marks && a.TimeTaken <= b.TimeTaken)) {
			return false
		}
	}
	return true
}
