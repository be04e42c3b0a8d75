package backend

import (
	"fmt"
	"strings"

	"github.com/harrisonrobin/schedalize/pkg/model"
)

// The dev backend does not call a model; generation returns deterministic
// placeholder text built from the request.

func placeholderTaskContent(task model.CalendarTask, opts model.GenerateOptions) (string, string) {
	mood := "casual"
	if task.Mood != nil && *task.Mood != "" {
		mood = *task.Mood
	}
	if opts.Mood != nil && *opts.Mood != "" {
		mood = *opts.Mood
	}

	body := task.Title
	if task.TemplateContent != nil && *task.TemplateContent != "" {
		body = *task.TemplateContent
	}
	if opts.Length != nil && *opts.Length == "short" {
		if i := strings.IndexAny(body, ".!?"); i > 0 {
			body = body[:i+1]
		}
	}

	content := fmt.Sprintf("(%s) %s", mood, body)
	if opts.IncludeEmojis == nil || *opts.IncludeEmojis {
		content += " ✨"
	}
	return content, mood
}

func placeholderReplies(message string, emojis bool) []model.GeneratedReply {
	suffix := ""
	if emojis {
		suffix = " 🙂"
	}
	return []model.GeneratedReply{
		{Tone: "friendly", Text: fmt.Sprintf("Thanks for reaching out about %q!%s", message, suffix)},
		{Tone: "professional", Text: fmt.Sprintf("Thank you for your message regarding %q. We'll follow up shortly.", message)},
		{Tone: "witty", Text: "You had me at hello." + suffix},
	}
}

func placeholderPost(topic, platform, mood string, emojis bool) string {
	content := fmt.Sprintf("(%s) Some thoughts on %s for my %s followers.", mood, topic, platform)
	if emojis {
		content += " 🚀"
	}
	return content
}
