package models

// CompleteResult is the outcome of checking off a chore
type CompleteResult struct {
	AlreadyComplete   bool        `json:"already_complete"`
	BalloonsAwarded   int         `json:"balloons_awarded"`
	StarsFromBalloons int         `json:"stars_from_balloons"`
	DailyStarAwarded  bool        `json:"daily_star_awarded"`
	Kid               KidSnapshot `json:"updated_kid_stats"`
}

// UncheckResult is the outcome of unchecking a chore
type UncheckResult struct {
	WasNotComplete          bool        `json:"was_not_complete"`
	DailyStarRevoked        bool        `json:"daily_star_revoked"`
	StarFromBalloonsRevoked bool        `json:"star_from_balloons_revoked"`
	Kid                     KidSnapshot `json:"updated_kid_stats"`
}

// KidChores is a kid's snapshot together with the chores due today
type KidChores struct {
	Kid    KidWithStats `json:"kid_info"`
	Chores []DueChore   `json:"chores"`
}

// ResetResult is the outcome of resetting a kid's chores for today
type ResetResult struct {
	CompletionsRemoved int         `json:"completions_removed"`
	DailyStarRevoked   bool        `json:"daily_star_revoked"`
	Kid                KidSnapshot `json:"updated_kid_stats"`
}
