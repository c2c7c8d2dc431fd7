// Package utils содержит утилитарные функции, используемые в разных частях приложения
package utils

import (
	"fmt"
	"math"
	"time"
)

// FormatDuration форматирует time.Duration в формат HH:MM:SS
func FormatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// FormatClock форматирует продолжительность в формат H:MM:SS без ведущего нуля у часов
func FormatClock(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
}

// ClockParts раскладывает секунды на часы, минуты, секунды и миллисекунды
func ClockParts(seconds float64) (h, m, s, ms int) {
	if seconds < 0 {
		seconds = 0
	}
	whole := int(seconds)
	ms = int(math.Round((seconds - float64(whole)) * 1000))
	if ms == 1000 {
		whole++
		ms = 0
	}
	return whole / 3600, (whole % 3600) / 60, whole % 60, ms
}

// TruncateString обрезает строку до указанной длины в символах, добавляя "..." если строка длиннее
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
