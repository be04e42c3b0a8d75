package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/harrisonrobin/schedalize/pkg/dates"
	"github.com/harrisonrobin/schedalize/pkg/model"
	"github.com/spf13/cobra"
)

func replyCmd(a *app) *cobra.Command {
	var platform string
	var emojis bool

	cmd := &cobra.Command{
		Use:   "reply <message>",
		Short: "Generate reply suggestions for a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			replies, err := client.GenerateReplies(cmd.Context(), args[0], platform, emojis)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, r := range replies {
				fmt.Fprintf(out, "%d. [%s] %s\n", i+1, r.Tone, r.Text)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&platform, "platform", "p", "twitter", "Platform the message came from")
	cmd.Flags().BoolVar(&emojis, "emojis", false, "Include emojis")
	return cmd
}

func postsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "Manage scheduled posts",
	}
	cmd.AddCommand(postsListCmd(a))
	cmd.AddCommand(postsGenerateCmd(a))
	cmd.AddCommand(postsScheduleCmd(a))
	cmd.AddCommand(postsDeleteCmd(a))
	return cmd
}

func postsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List scheduled posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			posts, err := client.FetchScheduledPosts(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(posts) == 0 {
				fmt.Fprintln(out, "No scheduled posts.")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "SCHEDULED FOR\tSTATUS\tPLATFORM\tCONTENT\tID")
			for _, p := range posts {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ScheduledFor, p.Status, p.Platform, truncate(p.Content, 60), p.ID)
			}
			return tw.Flush()
		},
	}
}

func postsGenerateCmd(a *app) *cobra.Command {
	var platform, mood, prompt, at string
	var emojis bool

	cmd := &cobra.Command{
		Use:   "generate <topic>",
		Short: "Write a post about a topic, optionally scheduling it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if at != "" {
				if _, ok := dates.NewNormalizer(nil).Parse(at); !ok {
					return fmt.Errorf("invalid --schedule %q: use YYYY-MM-DD or an ISO-8601 timestamp", at)
				}
			}
			client, err := a.client()
			if err != nil {
				return err
			}

			req := model.PostPrompt{Topic: args[0], Platform: platform, IncludeEmojis: emojis}
			if mood != "" {
				req.Mood = &mood
			}
			if prompt != "" {
				req.PromptID = &prompt
			}
			post, err := client.GeneratePost(cmd.Context(), req)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, post.Content)

			if at == "" {
				return nil
			}
			topic := args[0]
			id, err := client.SchedulePost(cmd.Context(), model.NewPost{
				Content:      post.Content,
				Platform:     platform,
				ScheduledFor: at,
				Topic:        &topic,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\nScheduled post %s for %s\n", id, at)
			return nil
		},
	}

	cmd.Flags().StringVarP(&platform, "platform", "p", "twitter", "Platform to write for")
	cmd.Flags().StringVar(&mood, "mood", "", "Mood to write in")
	cmd.Flags().StringVar(&prompt, "prompt", "", "Prompt id")
	cmd.Flags().BoolVar(&emojis, "emojis", true, "Include emojis")
	cmd.Flags().StringVar(&at, "schedule", "", "Also schedule the post (YYYY-MM-DD or ISO-8601)")
	return cmd
}

func postsScheduleCmd(a *app) *cobra.Command {
	var platform, at, topic, tone string
	var hashtags []string

	cmd := &cobra.Command{
		Use:   "schedule <content>",
		Short: "Schedule a post for publishing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := dates.NewNormalizer(nil).Parse(at); !ok {
				return fmt.Errorf("invalid --at %q: use YYYY-MM-DD or an ISO-8601 timestamp", at)
			}
			client, err := a.client()
			if err != nil {
				return err
			}

			post := model.NewPost{
				Content:      args[0],
				Platform:     platform,
				ScheduledFor: at,
				Hashtags:     hashtags,
			}
			if topic != "" {
				post.Topic = &topic
			}
			if tone != "" {
				post.Tone = &tone
			}
			id, err := client.SchedulePost(cmd.Context(), post)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Scheduled post %s for %s\n", id, at)
			return nil
		},
	}

	cmd.Flags().StringVarP(&platform, "platform", "p", "twitter", "Platform to publish on")
	cmd.Flags().StringVar(&at, "at", "", "When to publish (YYYY-MM-DD or ISO-8601)")
	cmd.Flags().StringVar(&topic, "topic", "", "Topic")
	cmd.Flags().StringVar(&tone, "tone", "", "Tone")
	cmd.Flags().StringSliceVar(&hashtags, "hashtag", nil, "Hashtags (repeatable)")
	cmd.MarkFlagRequired("at")
	return cmd
}

func postsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <post-id>",
		Short: "Delete a scheduled post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			if err := client.DeleteScheduledPost(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted post %s\n", args[0])
			return nil
		},
	}
}
