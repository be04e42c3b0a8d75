package model

// Template is the fixed content a calendar task is instantiated from.
type Template struct {
	Title           string  `json:"title" yaml:"title"`
	Description     *string `json:"description,omitempty" yaml:"description,omitempty"`
	TaskType        string  `json:"task_type" yaml:"task_type"`
	Platform        *string `json:"platform,omitempty" yaml:"platform,omitempty"`
	TemplateContent *string `json:"template_content,omitempty" yaml:"template_content,omitempty"`
	Mood            *string `json:"mood,omitempty" yaml:"mood,omitempty"`
	PromptID        *string `json:"prompt_id,omitempty" yaml:"prompt_id,omitempty"`
}
