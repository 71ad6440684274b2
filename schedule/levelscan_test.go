package schedule

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScanLevelsSequentialBelowThreshold(t *testing.T) {
	levels := []Level{1, 2, 3}
	got := scanLevels(levels, func(lv Level) []int { return []int{int(lv) * 10} })
	sort.Ints(got)
	assert.Equal(t, []int{10, 20, 30}, got)
}

func TestScanLevelsConcurrentAboveThreshold(t *testing.T) {
	levels := make([]Level, 0, 50)
	for i := Level(1); i <= 50; i++ {
		levels = append(levels, i)
	}
	got := scanLevels(levels, func(lv Level) []int {
		if lv%2 == 0 {
			return nil
		}
		return []int{int(lv)}
	})
	assert.Len(t, got, 25, "exactly the odd levels should contribute a result")
}

func TestScanLevelsEmpty(t *testing.T) {
	got := scanLevels[int](nil, func(Level) []int { return []int{1} })
	assert.Empty(t, got)
}
