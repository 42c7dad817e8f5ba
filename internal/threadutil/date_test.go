package threadutil

import (
	"testing"

	"github.com/solvaholic/slacknotes/internal/message"
)

func TestParseDateSeparatorFallsBackWhenUnrecognized(t *testing.T) {
	fallback := &message.CalendarDate{Year: 2026, Month: 1, Day: 2}
	got := ParseDateSeparator("not a real date token", fallback)
	if got != fallback {
		t.Fatalf("expected fallback date preserved for unrecognized token")
	}
}

func TestParseDateSeparatorResolvesMonthDayYear(t *testing.T) {
	got := ParseDateSeparator("June 8th, 2025", nil)
	if got == nil || got.Year != 2025 || got.Month != 6 || got.Day != 8 {
		t.Fatalf("expected June 8 2025, got %+v", got)
	}
}

func TestParseDateSeparatorResolvesToday(t *testing.T) {
	got := ParseDateSeparator("Today", nil)
	if got == nil {
		t.Fatalf("expected a resolved date for Today")
	}
}

func TestLooksLikeTimestampTokenMatchesBareAndBracketed(t *testing.T) {
	cases := []string{"2:01 PM", "[2:01 PM]", "[June 8th at 6:28 PM]"}
	for _, c := range cases {
		if !LooksLikeTimestampToken(c) {
			t.Fatalf("expected %q to look like a timestamp token", c)
		}
	}
}

func TestLooksLikeTimestampTokenRejectsPlainText(t *testing.T) {
	if LooksLikeTimestampToken("just a sentence") {
		t.Fatalf("expected plain text not to look like a timestamp")
	}
}

func TestNormalizeTimestampFallsBackOnParseFailure(t *testing.T) {
	got := NormalizeTimestamp("not a time", "")
	if got != "not a time" {
		t.Fatalf("expected raw fallback, got %q", got)
	}
}
