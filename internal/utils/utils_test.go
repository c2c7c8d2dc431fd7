package utils

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		duration time.Duration
		expected string
	}{
		{0, "00:00:00"},
		{59 * time.Second, "00:00:59"},
		{60 * time.Second, "00:01:00"},
		{61*time.Minute + 1*time.Second, "01:01:01"},
		{25*time.Hour + 45*time.Minute + 30*time.Second, "25:45:30"},
	}

	for _, test := range tests {
		result := FormatDuration(test.duration)
		if result != test.expected {
			t.Errorf("FormatDuration(%v) = %s; expected %s", test.duration, result, test.expected)
		}
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		duration time.Duration
		expected string
	}{
		{0, "0:00:00"},
		{3 * time.Second, "0:00:03"},
		{61*time.Minute + 5*time.Second, "1:01:05"},
	}

	for _, test := range tests {
		if result := FormatClock(test.duration); result != test.expected {
			t.Errorf("FormatClock(%v) = %s; expected %s", test.duration, result, test.expected)
		}
	}
}

func TestClockParts(t *testing.T) {
	h, m, s, ms := ClockParts(3723.25)
	if h != 1 || m != 2 || s != 3 || ms != 250 {
		t.Errorf("ClockParts(3723.25) = %d:%d:%d.%d", h, m, s, ms)
	}

	h, m, s, ms = ClockParts(-5)
	if h+m+s+ms != 0 {
		t.Error("Отрицательное время должно давать нули")
	}

	_, _, s, ms = ClockParts(1.9996)
	if s != 2 || ms != 0 {
		t.Errorf("Ожидалось округление до 2 секунд, получено: %d.%d", s, ms)
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly10", 10, "exactly10"},
		{"this is a very long string", 10, "this is..."},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc"},
		{"abcde", 4, "a..."},
		{"Привет, мир", 8, "Приве..."},
	}

	for _, test := range tests {
		result := TruncateString(test.input, test.maxLen)
		if result != test.expected {
			t.Errorf("TruncateString(%s, %d) = %s; expected %s", test.input, test.maxLen, result, test.expected)
		}
	}
}
