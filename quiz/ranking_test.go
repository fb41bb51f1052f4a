package quiz

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBetter(t *testing.T) {
	assert.True(t, Better(Standing{Marks: 8, TimeTaken: 90}, Standing{Marks: 5, TimeTaken: 10}))
	assert.True(t, Better(Standing{Marks: 5, TimeTaken: 10}, Standing{Marks: 5, TimeTaken: 11}))
	assert.False(t, Better(Standing{Marks: 5, TimeTaken: 10}, Standing{Marks: 5, TimeTaken: 10}))
	assert.False(t, Better(Standing{Marks: 4, TimeTaken: 1}, Standing{Marks: 5, TimeTaken: 100}))
}

func TestSortRanksFromOne(t *testing.T) {
	entries := []Standing{
		{StudentID: 1, Marks: 3, TimeTaken: 50},
		{StudentID: 2, Marks: 8, TimeTaken: 70},
		{StudentID: 3, Marks: 8, TimeTaken: 40},
		{StudentID: 4, Marks: 3, TimeTaken: 50},
	}
	Sort(entries)

	ids := []uint{}
	for i, e := range entries {
		ids = append(ids, e.StudentID)
		assert.Equal(t, i+1, e.Rank)
	}
	assert.Equal(t, []uint{3, 2, 1, 4}, ids)
	assert.True(t, Sorted(entries))
}

func TestUpsertFirstAttemptInserts(t *testing.T) {
	out, changed := Upsert(nil, Standing{StudentID: 7, Marks: 5, TimeTaken: 30}, 0)

	assert.True(t, changed)
	require.Len(t, out, 1)
	assert.Equal(t, 1, out[0].Rank)
}

func TestUpsertReplacesOnlyWhenStrictlyBetter(t *testing.T) {
	board := []Standing{
		{StudentID: 1, Marks: 5, TimeTaken: 30, Rank: 1},
		{StudentID: 2, Marks: 4, TimeTaken: 20, Rank: 2},
	}

	out, changed := Upsert(board, Standing{StudentID: 2, Marks: 4, TimeTaken: 20}, 0)
	assert.False(t, changed)
	assert.Equal(t, board, out)

	out, changed = Upsert(board, Standing{StudentID: 2, Marks: 3, TimeTaken: 5}, 0)
	assert.False(t, changed)
	assert.Equal(t, 4, out[1].Marks)

	out, changed = Upsert(board, Standing{StudentID: 2, Marks: 5, TimeTaken: 25}, 0)
	assert.True(t, changed)
	require.Len(t, out, 2)
	assert.Equal(t, uint(2), out[0].StudentID)
	assert.Equal(t, 1, out[0].Rank)
	assert.Equal(t, uint(1), out[1].StudentID)
}

func TestUpsertCap(t *testing.T) {
	var board []Standing
	for id := uint(1); id <= 5; id++ {
		board, _ = Upsert(board, Standing{StudentID: id, Marks: int(id), TimeTaken: 10}, 3)
	}

	require.Len(t, board, 3)
	assert.Equal(t, []uint{5, 4, 3}, []uint{board[0].StudentID, board[1].StudentID, board[2].StudentID})

	// a score below the cut does not make it onto a full board
	board, _ = Upsert(board, Standing{StudentID: 9, Marks: 1, TimeTaken: 1}, 3)
	for _, e := range board {
		assert.NotEqual(t, uint(9), e.StudentID)
	}
}

func TestUpsertKeepsOrderUnderRandomUpdates(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	var board []Standing

	for i := 0; i < 500; i++ {
		e := Standing{
			StudentID: uint(rnd.Intn(40) + 1),
			Marks:     rnd.Intn(20),
			TimeTaken: int64(rnd.Intn(600)),
		}
		board, _ = Upsert(board, e, 25)

		require.True(t, Sorted(board), "unsorted after update %d", i)
		require.LessOrEqual(t, len(board), 25)
		seen := map[uint]bool{}
		for _, s := range board {
			require.False(t, seen[s.StudentID], "student %d listed twice", s.StudentID)
			seen[s.StudentID] = true
		}
	}
}

func TestSortedDetectsViolations(t *testing.T) {
	assert.True(t, Sorted(nil))
	assert.False(t, Sorted([]Standing{{Marks: 1}, {Marks: 2}}))
	assert.False(t, Sorted([]Standing{{Marks: 2, TimeTaken: 9}, {Marks: 2, TimeTaken: 3}}))
}
