package game

import "github.com/shopspring/decimal"

const keepPracticing = "Keep practicing!"

// ClickRating grades a clicks-per-second score.
func ClickRating(cps decimal.Decimal) string {
	switch {
	case cps.GreaterThanOrEqual(decimal.NewFromInt(12)):
		return "INSANE! Are you a robot?!"
	case cps.GreaterThanOrEqual(decimal.NewFromInt(10)):
		return "Lightning fast!"
	case cps.GreaterThanOrEqual(decimal.NewFromInt(8)):
		return "Super speedy!"
	case cps.GreaterThanOrEqual(decimal.NewFromInt(6)):
		return "Nice clicking!"
	case cps.GreaterThanOrEqual(decimal.NewFromInt(4)):
		return "Good effort!"
	}
	return keepPracticing
}

// TypingRating grades a words-per-minute score.
func TypingRating(wpm int) string {
	switch {
	case wpm >= 80:
		return "Professional typist!"
	case wpm >= 60:
		return "Super fast!"
	case wpm >= 40:
		return "Great speed!"
	case wpm >= 25:
		return "Good job!"
	}
	return keepPracticing
}

// MemoryRating grades a finished memory game by its move count.
func MemoryRating(moves int) string {
	switch {
	case moves <= 10:
		return "Perfect memory!"
	case moves <= 14:
		return "Excellent!"
	case moves <= 18:
		return "Great job!"
	case moves <= 24:
		return "Good effort!"
	}
	return keepPracticing
}

// ReactionRating grades an average reaction time in milliseconds.
func ReactionRating(avgMs int64) string {
	switch {
	case avgMs < 200:
		return "Lightning reflexes!"
	case avgMs < 250:
		return "Super fast!"
	case avgMs < 300:
		return "Great reactions!"
	case avgMs < 400:
		return "Good job!"
	}
	return keepPracticing
}
