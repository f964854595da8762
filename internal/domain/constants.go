package domain

// Claim reward bounds (coins), inclusive.
const (
	DailyRewardMin   = 6
	DailyRewardMax   = 36
	WeeklyRewardMin  = 50
	WeeklyRewardMax  = 200
	MonthlyRewardMin = 500
	MonthlyRewardMax = 2000
)

// Message XP tuning.
const (
	MessageXPBase        = 5
	MessageXPLengthDiv   = 20 // +1 XP per 20 characters
	MessageXPLengthBonus = 10 // capped
	XPPerLevelStep       = 50 // xp needed for next level = 50*(level+1)
)
