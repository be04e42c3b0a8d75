package backend

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/harrisonrobin/schedalize/pkg/dates"
	"github.com/harrisonrobin/schedalize/pkg/model"
)

// GET /api/v1/calendar/tasks
func (s *Server) listTasks(c *gin.Context) {
	q := model.TaskQuery{}
	if v := c.Query("include_completed"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid include_completed"})
			return
		}
		q.IncludeCompleted = b
	}

	var window model.DateRange
	for param, dst := range map[string]*dates.Date{"start_date": &window.Start, "end_date": &window.End} {
		v := c.Query(param)
		if v == "" {
			continue
		}
		d, err := dates.ParseDate(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid %s (YYYY-MM-DD)", param)})
			return
		}
		*dst = d
	}
	if !window.Start.IsZero() || !window.End.IsZero() {
		q.Range = &window
	}

	tasks := s.store.Tasks(userID(c), q)
	c.JSON(http.StatusOK, gin.H{"tasks": nonNil(tasks), "count": len(tasks)})
}

// GET /api/v1/calendar/tasks/today
func (s *Server) todayTasks(c *gin.Context) {
	today := s.today()
	tasks := s.store.TasksOn(userID(c), today)
	c.JSON(http.StatusOK, gin.H{"tasks": nonNil(tasks), "count": len(tasks), "date": today.String()})
}

// POST /api/v1/calendar/import-templates
func (s *Server) importTemplates(c *gin.Context) {
	var req struct {
		Templates []model.Template `json:"templates"`
		StartDate *dates.Date      `json:"start_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[backend][import][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start := s.today()
	if req.StartDate != nil && !req.StartDate.IsZero() {
		start = *req.StartDate
	}

	n := s.store.Import(userID(c), start, req.Templates, s.now())
	log.Printf("[backend][import] user=%s start=%s imported=%d", userID(c), start, n)
	c.JSON(http.StatusOK, gin.H{"success": true, "imported_count": n})
}

// POST /api/v1/calendar/push
func (s *Server) pushTasks(c *gin.Context) {
	var req struct {
		FromDate *dates.Date `json:"from_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.FromDate != nil && req.FromDate.IsZero() {
		req.FromDate = nil
	}

	pushed := s.store.Push(userID(c), req.FromDate)
	log.Printf("[backend][push] user=%s pushed=%d", userID(c), len(pushed))
	c.JSON(http.StatusOK, model.PushResult{
		Success:     true,
		PushedCount: len(pushed),
		Tasks:       pushed,
		Message:     fmt.Sprintf("Pushed %d tasks forward by one day", len(pushed)),
	})
}

// POST /api/v1/calendar/tasks/:id/complete
func (s *Server) completeTask(c *gin.Context) {
	var req struct {
		GeneratedContent *string `json:"generated_content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := s.store.Complete(userID(c), c.Param("id"), req.GeneratedContent, s.now())
	switch {
	case errors.Is(err, ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	case errors.Is(err, ErrAlreadyCompleted):
		c.JSON(http.StatusConflict, gin.H{"error": "Task already completed"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "task": task})
}

// POST /api/v1/calendar/tasks/:id/generate
func (s *Server) generateTaskContent(c *gin.Context) {
	var opts model.GenerateOptions
	if err := c.ShouldBindJSON(&opts); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := s.store.Task(userID(c), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	content, mood := placeholderTaskContent(task, opts)
	if err := s.store.SetGenerated(userID(c), task.ID, content); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	c.JSON(http.StatusOK, model.GeneratedContent{
		Success: true,
		TaskID:  task.ID,
		Content: content,
		Mood:    mood,
	})
}

// GET /api/v1/replies/history
func (s *Server) replyHistory(c *gin.Context) {
	replies := s.store.Replies(userID(c))
	c.JSON(http.StatusOK, gin.H{"replies": replies, "count": len(replies)})
}

// POST /api/v1/replies/generate
func (s *Server) generateReplies(c *gin.Context) {
	var req struct {
		Message       string  `json:"message" binding:"required"`
		Platform      string  `json:"platform" binding:"required"`
		SenderInfo    *string `json:"sender_info"`
		IncludeEmojis *bool   `json:"include_emojis"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	emojis := req.IncludeEmojis == nil || *req.IncludeEmojis
	replies := placeholderReplies(req.Message, emojis)
	s.store.AddReply(userID(c), model.ReplyRecord{
		OriginalMessage:  req.Message,
		GeneratedReplies: replies,
		Platform:         req.Platform,
		CreatedAt:        timestamp(s.now()),
	})
	c.JSON(http.StatusOK, gin.H{"replies": replies})
}

// GET /api/v1/posts/scheduled
func (s *Server) scheduledPosts(c *gin.Context) {
	posts := s.store.Posts(userID(c))
	c.JSON(http.StatusOK, gin.H{"posts": posts, "count": len(posts)})
}

// POST /api/v1/posts/schedule
func (s *Server) schedulePost(c *gin.Context) {
	var req model.NewPost
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Content == "" || req.Platform == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content and platform are required"})
		return
	}
	if _, ok := dates.NewNormalizer(s.loc).Parse(req.ScheduledFor); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scheduled_for (ISO-8601)"})
		return
	}

	post := s.store.AddPost(userID(c), model.ScheduledPost{
		Content:      req.Content,
		Platform:     req.Platform,
		ScheduledFor: req.ScheduledFor,
		Status:       "pending",
		Topic:        req.Topic,
		Hashtags:     req.Hashtags,
		Tone:         req.Tone,
		CreatedAt:    s.now().UTC().Format(time.RFC3339),
	})
	c.JSON(http.StatusOK, gin.H{"success": true, "post_id": post.ID, "scheduled_for": post.ScheduledFor})
}

// POST /api/v1/posts/generate-human
func (s *Server) generatePost(c *gin.Context) {
	var req struct {
		Topic         string  `json:"topic" binding:"required"`
		Platform      string  `json:"platform" binding:"required"`
		Mood          *string `json:"mood"`
		IncludeEmojis *bool   `json:"include_emojis"`
		PromptID      *string `json:"prompt_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mood := "casual"
	if req.Mood != nil && *req.Mood != "" {
		mood = *req.Mood
	}
	emojis := req.IncludeEmojis == nil || *req.IncludeEmojis
	c.JSON(http.StatusOK, model.GeneratedPost{
		Success:  true,
		PostID:   uuid.NewString(),
		Content:  placeholderPost(req.Topic, req.Platform, mood, emojis),
		Platform: req.Platform,
		Mood:     mood,
	})
}

// DELETE /api/v1/posts/scheduled/:id
func (s *Server) deletePost(c *gin.Context) {
	if err := s.store.DeletePost(userID(c), c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func nonNil(tasks []model.CalendarTask) []model.CalendarTask {
	if tasks == nil {
		return []model.CalendarTask{}
	}
	return tasks
}
