package domain

// Turn is one entry of a session's history log.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// UserTurn builds a user turn.
func UserTurn(text string) Turn {
	return Turn{Role: RoleUser, Text: text}
}

// BotTurn builds a bot turn.
func BotTurn(text string) Turn {
	return Turn{Role: RoleBot, Text: text}
}
