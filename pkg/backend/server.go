// Package backend is an in-memory implementation of the schedalize API.
// It backs `schedalize serve-dev` and the end-to-end tests of the client.
package backend

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harrisonrobin/schedalize/pkg/dates"
)

type Server struct {
	store  *Store
	secret []byte
	now    func() time.Time
	loc    *time.Location
}

type Option func(*Server)

// WithClock overrides time.Now for timestamps and "today".
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithLocation sets the server time zone used for "today".
func WithLocation(loc *time.Location) Option {
	return func(s *Server) { s.loc = loc }
}

// WithStore shares a store between servers.
func WithStore(store *Store) Option {
	return func(s *Server) { s.store = store }
}

func New(secret []byte, opts ...Option) *Server {
	s := &Server{
		store:  NewStore(),
		secret: secret,
		now:    time.Now,
		loc:    time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Store() *Store { return s.store }

func (s *Server) today() dates.Date {
	return dates.DateOf(s.now().In(s.loc))
}

// Router wires every endpoint behind the bearer auth middleware.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	v1 := r.Group("/api/v1", AuthMiddleware(s.secret))

	cal := v1.Group("/calendar")
	cal.GET("/tasks", s.listTasks)
	cal.GET("/tasks/today", s.todayTasks)
	cal.POST("/tasks/:id/complete", s.completeTask)
	cal.POST("/tasks/:id/generate", s.generateTaskContent)
	cal.POST("/import-templates", s.importTemplates)
	cal.POST("/push", s.pushTasks)

	replies := v1.Group("/replies")
	replies.GET("/history", s.replyHistory)
	replies.POST("/generate", s.generateReplies)

	posts := v1.Group("/posts")
	posts.GET("/scheduled", s.scheduledPosts)
	posts.POST("/schedule", s.schedulePost)
	posts.POST("/generate-human", s.generatePost)
	posts.DELETE("/scheduled/:id", s.deletePost)

	return r
}
