package services

import (
	"sort"
	"time"

	"github.com/tahcohcat/habitquest-web/internal/dateutil"
	"github.com/tahcohcat/habitquest-web/internal/models"
)

var dayLabels = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// BestDayNone is reported when no complete day exists to bucket by weekday.
const BestDayNone = "—"

// StreakStats are the derived metrics for one habit's check-in history.
type StreakStats struct {
	CurrentStreak    int     `json:"current_streak"`
	BestStreak       int     `json:"best_streak"`
	Rolling7         int     `json:"rolling_7"`
	Rolling30        int     `json:"rolling_30"`
	CompletionRate   float64 `json:"completion_rate"`
	ConsistencyScore int     `json:"consistency_score"`
	BestDay          string  `json:"best_day"`
}

// CalculateStreakStats derives streak metrics from an unordered check-in
// history for a single habit. A day is complete when its count reached
// target. today is injectable so callers and tests stay deterministic.
//
// Duplicate rows for the same day key collapse to the maximum count seen,
// so overlapping inputs can never inflate a day past its largest record.
func CalculateStreakStats(checkins []models.Checkin, target int, today time.Time) StreakStats {
	counts := make(map[string]int, len(checkins))
	for _, c := range checkins {
		if c.Count > counts[c.DateKey] {
			counts[c.DateKey] = c.Count
		}
	}

	isComplete := func(dateKey string) bool {
		return counts[dateKey] >= target
	}

	// Current streak: walk back from today. An unlogged today does not
	// break the streak, it just doesn't count yet.
	cursor := today
	if !isComplete(dateutil.ToDayKey(cursor)) {
		cursor = dateutil.AddDays(cursor, -1)
	}

	currentStreak := 0
	for isComplete(dateutil.ToDayKey(cursor)) {
		currentStreak++
		cursor = dateutil.AddDays(cursor, -1)
	}

	// Best streak: longest run of consecutive complete days anywhere in
	// the history.
	sortedKeys := make([]string, 0, len(counts))
	for key := range counts {
		sortedKeys = append(sortedKeys, key)
	}
	sort.Strings(sortedKeys)

	bestStreak := 0
	runLength := 0
	prevKey := ""

	for _, key := range sortedKeys {
		if !isComplete(key) {
			continue
		}
		// Consecutive means exactly one calendar day apart. Comparing day
		// keys keeps this correct across DST shifts.
		if prevKey != "" && dateutil.ToDayKey(dateutil.AddDays(dateutil.ParseDayKey(prevKey), 1)) == key {
			runLength++
		} else {
			runLength = 1
		}
		if runLength > bestStreak {
			bestStreak = runLength
		}
		prevKey = key
	}

	rolling := func(days int) int {
		count := 0
		for i := 0; i < days; i++ {
			if isComplete(dateutil.ToDayKey(dateutil.AddDays(today, -i))) {
				count++
			}
		}
		return count
	}

	rolling7 := rolling(7)
	rolling30 := rolling(30)
	completionRate := float64(rolling30) / 30
	consistencyScore := int(completionRate*100 + 0.5)

	// Best weekday: the weekday with the most complete days, first bucket
	// wins ties.
	var dayBuckets [7]int
	for _, key := range sortedKeys {
		if isComplete(key) {
			dayBuckets[dateutil.ParseDayKey(key).Weekday()]++
		}
	}

	bestDay := BestDayNone
	maxBucket := 0
	for i, n := range dayBuckets {
		if n > maxBucket {
			maxBucket = n
			bestDay = dayLabels[i]
		}
	}

	return StreakStats{
		CurrentStreak:    currentStreak,
		BestStreak:       bestStreak,
		Rolling7:         rolling7,
		Rolling30:        rolling30,
		CompletionRate:   completionRate,
		ConsistencyScore: consistencyScore,
		BestDay:          bestDay,
	}
}
