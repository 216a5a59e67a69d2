package badge

// DefaultCatalog is the built-in badge reference data.
func DefaultCatalog() []Definition {
	return []Definition{
		{ID: "first-whistle", Name: "First Whistle", Description: "Played your first session", Category: CategoryParticipation, ConditionType: ConditionSessionsPlayed, ConditionValue: 1},
		{ID: "regular", Name: "Regular", Description: "Played 10 sessions", Category: CategoryParticipation, ConditionType: ConditionSessionsPlayed, ConditionValue: 10},
		{ID: "veteran", Name: "Veteran", Description: "Played 50 sessions", Category: CategoryParticipation, ConditionType: ConditionSessionsPlayed, ConditionValue: 50},
		{ID: "host", Name: "Host", Description: "Organized a session that was played", Category: CategoryOrganizing, ConditionType: ConditionSessionsOrganized, ConditionValue: 1},
		{ID: "club-captain", Name: "Club Captain", Description: "Organized 10 played sessions", Category: CategoryOrganizing, ConditionType: ConditionSessionsOrganized, ConditionValue: 10},
		{ID: "recruiter", Name: "Recruiter", Description: "Brought 3 friends along", Category: CategoryCommunity, ConditionType: ConditionReferralCount, ConditionValue: 3},
		{ID: "hot-streak", Name: "Hot Streak", Description: "Won 5 sessions in a row", Category: CategoryPerformance, ConditionType: ConditionCurrentStreak, ConditionValue: 5},
		{ID: "founder-100", Name: "Founder", Description: "One of the first 100 players", Category: CategoryFounder, ConditionType: ConditionSignupSequenceNumber, ConditionValue: 100},
	}
}
