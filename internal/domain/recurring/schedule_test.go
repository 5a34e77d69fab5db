package recurring_test

import (
	"strings"
	"testing"
	"time"

	"Grana/internal/domain/recurring"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestNextOccurrence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		frequency recurring.FrequencyType
		interval  int
		from      time.Time
		want      time.Time
	}{
		{
			name:      "daily",
			frequency: recurring.FrequencyDaily,
			interval:  1,
			from:      day(2024, time.March, 10),
			want:      day(2024, time.March, 11),
		},
		{
			name:      "daily with interval",
			frequency: recurring.FrequencyDaily,
			interval:  3,
			from:      day(2024, time.March, 10),
			want:      day(2024, time.March, 13),
		},
		{
			name:      "weekly",
			frequency: recurring.FrequencyWeekly,
			interval:  1,
			from:      day(2024, time.March, 10),
			want:      day(2024, time.March, 17),
		},
		{
			name:      "weekly with interval",
			frequency: recurring.FrequencyWeekly,
			interval:  2,
			from:      day(2024, time.March, 10),
			want:      day(2024, time.March, 24),
		},
		{
			name:      "monthly keeps the day",
			frequency: recurring.FrequencyMonthly,
			interval:  1,
			from:      day(2024, time.January, 15),
			want:      day(2024, time.February, 15),
		},
		{
			name:      "monthly clamps to leap february",
			frequency: recurring.FrequencyMonthly,
			interval:  1,
			from:      day(2024, time.January, 31),
			want:      day(2024, time.February, 29),
		},
		{
			name:      "monthly clamps to regular february",
			frequency: recurring.FrequencyMonthly,
			interval:  1,
			from:      day(2023, time.January, 31),
			want:      day(2023, time.February, 28),
		},
		{
			name:      "monthly clamps 31 to 30",
			frequency: recurring.FrequencyMonthly,
			interval:  1,
			from:      day(2024, time.March, 31),
			want:      day(2024, time.April, 30),
		},
		{
			name:      "monthly with interval skips short months",
			frequency: recurring.FrequencyMonthly,
			interval:  2,
			from:      day(2024, time.January, 31),
			want:      day(2024, time.March, 31),
		},
		{
			name:      "monthly crosses the year",
			frequency: recurring.FrequencyMonthly,
			interval:  1,
			from:      day(2024, time.December, 31),
			want:      day(2025, time.January, 31),
		},
		{
			name:      "monthly twelve months lands on same day",
			frequency: recurring.FrequencyMonthly,
			interval:  12,
			from:      day(2024, time.May, 31),
			want:      day(2025, time.May, 31),
		},
		{
			name:      "yearly",
			frequency: recurring.FrequencyYearly,
			interval:  1,
			from:      day(2024, time.June, 10),
			want:      day(2025, time.June, 10),
		},
		{
			name:      "yearly clamps leap day",
			frequency: recurring.FrequencyYearly,
			interval:  1,
			from:      day(2024, time.February, 29),
			want:      day(2025, time.February, 28),
		},
		{
			name:      "yearly interval lands back on leap day",
			frequency: recurring.FrequencyYearly,
			interval:  4,
			from:      day(2024, time.February, 29),
			want:      day(2028, time.February, 29),
		},
		{
			name:      "custom advances in days",
			frequency: recurring.FrequencyCustom,
			interval:  10,
			from:      day(2024, time.March, 10),
			want:      day(2024, time.March, 20),
		},
		{
			name:      "interval below one defaults to one",
			frequency: recurring.FrequencyDaily,
			interval:  0,
			from:      day(2024, time.March, 10),
			want:      day(2024, time.March, 11),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := recurring.NextOccurrence(tt.frequency, tt.interval, tt.from)
			if !got.Equal(tt.want) {
				t.Fatalf("expected %s, got %s", tt.want.Format("2006-01-02"), got.Format("2006-01-02"))
			}
		})
	}

	t.Run("unknown frequency returns zero time", func(t *testing.T) {
		got := recurring.NextOccurrence(recurring.FrequencyType("HOURLY"), 1, day(2024, time.March, 10))
		if !got.IsZero() {
			t.Fatalf("expected zero time, got %s", got)
		}
	})

	t.Run("time of day is discarded", func(t *testing.T) {
		from := time.Date(2024, time.March, 10, 17, 45, 12, 0, time.UTC)
		got := recurring.NextOccurrence(recurring.FrequencyDaily, 1, from)
		if !got.Equal(day(2024, time.March, 11)) {
			t.Fatalf("expected midnight of the next day, got %s", got)
		}
	})
}

func TestPreviewOccurrences(t *testing.T) {
	t.Parallel()

	t.Run("projects from the cursor", func(t *testing.T) {
		rule := &recurring.RecurrenceRule{
			Frequency:   recurring.FrequencyMonthly,
			Interval:    1,
			StartDate:   day(2024, time.January, 31),
			NextRunDate: day(2024, time.January, 31),
		}

		got := recurring.PreviewOccurrences(rule, 3)
		want := []time.Time{
			day(2024, time.January, 31),
			day(2024, time.February, 29),
			day(2024, time.March, 29),
		}
		if len(got) != len(want) {
			t.Fatalf("expected %d occurrences, got %d", len(want), len(got))
		}
		for i := range want {
			if !got[i].Equal(want[i]) {
				t.Fatalf("occurrence %d: expected %s, got %s", i, want[i].Format("2006-01-02"), got[i].Format("2006-01-02"))
			}
		}
	})

	t.Run("stops at the end date", func(t *testing.T) {
		endDate := day(2024, time.March, 1)
		rule := &recurring.RecurrenceRule{
			Frequency:   recurring.FrequencyMonthly,
			Interval:    1,
			StartDate:   day(2024, time.January, 1),
			NextRunDate: day(2024, time.January, 1),
			EndDate:     &endDate,
		}

		got := recurring.PreviewOccurrences(rule, 12)
		if len(got) != 3 {
			t.Fatalf("expected 3 occurrences up to the end date, got %d", len(got))
		}
		if !got[2].Equal(endDate) {
			t.Fatalf("expected last occurrence on the end date, got %s", got[2].Format("2006-01-02"))
		}
	})

	t.Run("count below one uses the default", func(t *testing.T) {
		rule := &recurring.RecurrenceRule{
			Frequency:   recurring.FrequencyDaily,
			Interval:    1,
			StartDate:   day(2024, time.January, 1),
			NextRunDate: day(2024, time.January, 1),
		}

		got := recurring.PreviewOccurrences(rule, 0)
		if len(got) != 12 {
			t.Fatalf("expected 12 occurrences by default, got %d", len(got))
		}
	})

	t.Run("count is capped", func(t *testing.T) {
		rule := &recurring.RecurrenceRule{
			Frequency:   recurring.FrequencyDaily,
			Interval:    1,
			StartDate:   day(2024, time.January, 1),
			NextRunDate: day(2024, time.January, 1),
		}

		got := recurring.PreviewOccurrences(rule, 500)
		if len(got) != 60 {
			t.Fatalf("expected cap of 60 occurrences, got %d", len(got))
		}
	})

	t.Run("invalid frequency yields only the cursor", func(t *testing.T) {
		rule := &recurring.RecurrenceRule{
			Frequency:   recurring.FrequencyType("HOURLY"),
			Interval:    1,
			StartDate:   day(2024, time.January, 1),
			NextRunDate: day(2024, time.January, 1),
		}

		got := recurring.PreviewOccurrences(rule, 5)
		if len(got) != 1 {
			t.Fatalf("expected projection to stop after the cursor, got %d occurrences", len(got))
		}
	})
}

func TestRRuleString(t *testing.T) {
	t.Parallel()

	endDate := day(2024, time.December, 31)
	rule := &recurring.RecurrenceRule{
		Frequency:   recurring.FrequencyMonthly,
		Interval:    2,
		StartDate:   day(2024, time.January, 31),
		NextRunDate: day(2024, time.January, 31),
		EndDate:     &endDate,
	}

	got := rule.RRuleString()
	if !strings.Contains(got, "FREQ=MONTHLY") {
		t.Fatalf("expected monthly frequency in %q", got)
	}
	if !strings.Contains(got, "INTERVAL=2") {
		t.Fatalf("expected interval in %q", got)
	}
	if !strings.Contains(got, "UNTIL=") {
		t.Fatalf("expected until clause in %q", got)
	}

	rule.Frequency = recurring.FrequencyCustom
	if got := rule.RRuleString(); !strings.Contains(got, "FREQ=DAILY") {
		t.Fatalf("expected custom cadence exported as daily, got %q", got)
	}

	rule.Frequency = recurring.FrequencyType("HOURLY")
	if got := rule.RRuleString(); got != "" {
		t.Fatalf("expected empty string for unknown frequency, got %q", got)
	}
}
