// Package templates holds the starter content calendar and loads custom
// template sets from YAML files.
package templates

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/harrisonrobin/schedalize/pkg/model"
)

func ptr(s string) *string { return &s }

// Starter is the built-in first week, in import order.
var Starter = []model.Template{
	{
		Title:           "Introduce yourself",
		TaskType:        "post",
		Platform:        ptr("instagram"),
		TemplateContent: ptr("Tell your audience who you are, what you make and why you started."),
		Mood:            ptr("warm"),
	},
	{
		Title:           "Behind the scenes",
		TaskType:        "post",
		Platform:        ptr("tiktok"),
		TemplateContent: ptr("Show a short clip of how your work gets done on a normal day."),
		Mood:            ptr("casual"),
	},
	{
		Title:           "Share a quick tip",
		TaskType:        "post",
		Platform:        ptr("x"),
		TemplateContent: ptr("Post one practical tip your followers can use today."),
		Mood:            ptr("helpful"),
	},
	{
		Title:           "Reply to comments",
		TaskType:        "engagement",
		Description:     ptr("Spend ten minutes answering comments and DMs."),
		TemplateContent: ptr("Thank people for their comments and answer open questions."),
		Mood:            ptr("friendly"),
	},
	{
		Title:           "Customer story",
		TaskType:        "post",
		Platform:        ptr("instagram"),
		TemplateContent: ptr("Feature a customer and what they achieved with your product."),
		Mood:            ptr("inspiring"),
	},
	{
		Title:           "Newsletter teaser",
		TaskType:        "post",
		Platform:        ptr("email"),
		TemplateContent: ptr("Preview what subscribers get in this week's newsletter."),
		Mood:            ptr("excited"),
	},
	{
		Title:           "Weekly recap",
		TaskType:        "post",
		Platform:        ptr("x"),
		TemplateContent: ptr("Summarise the week: what shipped, what you learned, what's next."),
		Mood:            ptr("reflective"),
	},
}

type file struct {
	Templates []model.Template `yaml:"templates"`
}

// LoadFile reads a template set from a YAML file with a top-level
// `templates:` list. Order in the file is import order.
func LoadFile(path string) ([]model.Template, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template file: %w", err)
	}
	var f file
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("failed to decode template file %s: %w", path, err)
	}
	for i, tpl := range f.Templates {
		if tpl.Title == "" {
			return nil, fmt.Errorf("template %d in %s has no title", i+1, path)
		}
		if tpl.TaskType == "" {
			f.Templates[i].TaskType = "post"
		}
	}
	return f.Templates, nil
}
