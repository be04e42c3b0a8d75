package model

// GeneratedReply is one AI-suggested reply and its tone.
type GeneratedReply struct {
	Text string `json:"text"`
	Tone string `json:"tone"`
}

// ReplyRecord is a stored reply-generation request and its suggestions.
type ReplyRecord struct {
	ID               string           `json:"reply_id"`
	OriginalMessage  string           `json:"original_message"`
	GeneratedReplies []GeneratedReply `json:"generated_replies"`
	Platform         string           `json:"platform"`
	DetectedIntent   *string          `json:"detected_intent,omitempty"`
	IsFavorite       *bool            `json:"is_favorite,omitempty"`
	SelectedReply    *string          `json:"selected_reply,omitempty"`
	PostedAt         *string          `json:"posted_at,omitempty"`
	PostedPlatform   *string          `json:"posted_platform,omitempty"`
	CreatedAt        string           `json:"created_at"`
}

// ScheduledPost is a post queued for publishing by the backend.
type ScheduledPost struct {
	ID             string   `json:"post_id"`
	Content        string   `json:"content"`
	Platform       string   `json:"platform"`
	ScheduledFor   string   `json:"scheduled_for"`
	Status         string   `json:"status"`
	Topic          *string  `json:"topic,omitempty"`
	Hashtags       []string `json:"hashtags,omitempty"`
	Tone           *string  `json:"tone,omitempty"`
	PostedAt       *string  `json:"posted_at,omitempty"`
	PostedPlatform *string  `json:"posted_platform,omitempty"`
	CreatedAt      string   `json:"created_at"`
}

// NewPost is the payload for scheduling a post.
type NewPost struct {
	Content      string   `json:"content"`
	Platform     string   `json:"platform"`
	ScheduledFor string   `json:"scheduled_for"`
	Topic        *string  `json:"topic,omitempty"`
	Hashtags     []string `json:"hashtags,omitempty"`
	Tone         *string  `json:"tone,omitempty"`
}

// PostPrompt asks the backend to write a post about a topic.
type PostPrompt struct {
	Topic         string  `json:"topic"`
	Platform      string  `json:"platform"`
	Mood          *string `json:"mood,omitempty"`
	IncludeEmojis bool    `json:"include_emojis"`
	PromptID      *string `json:"prompt_id,omitempty"`
}

// GeneratedPost is the text written for a PostPrompt. It is not queued;
// schedule it with a NewPost to publish.
type GeneratedPost struct {
	Success    bool    `json:"success"`
	PostID     string  `json:"post_id"`
	Content    string  `json:"content"`
	Platform   string  `json:"platform"`
	Mood       string  `json:"mood"`
	PromptName *string `json:"prompt_name,omitempty"`
	Model      *string `json:"model,omitempty"`
	TokensUsed *int    `json:"tokens_used,omitempty"`
}
