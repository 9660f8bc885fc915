package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"govreport/internal/history"
	"govreport/internal/llm"
	"govreport/internal/media"
	"govreport/internal/report"
	"govreport/internal/storage"
)

// The web channel has no per-user identity, so every browser shares one
// conversation, persisted in the journal like any bot conversation.
const webIdentity = "web"

type Server struct {
	processor  *report.Processor
	journal    storage.Journal
	uploadsDir string
	staticDir  string
	port       int
	server     *http.Server
}

func New(processor *report.Processor, journal storage.Journal, uploadsDir, staticDir string, port int) *Server {
	return &Server{
		processor:  processor,
		journal:    journal,
		uploadsDir: uploadsDir,
		staticDir:  staticDir,
		port:       port,
	}
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/api/messages", s.listMessages)
	r.POST("/api/messages", s.postMessage)
	r.POST("/api/upload", s.uploadImage)
	r.Static("/uploads", s.uploadsDir)
	r.Static("/static", s.staticDir)
	r.GET("/", s.index)
	return r
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:        fmt.Sprintf(":%d", s.port),
		Handler:     s.Router(),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}
	log.Printf("🌐 Web channel listening on http://localhost:%d", s.port)
	return s.server.ListenAndServe()
}

func (s *Server) Stop() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) index(c *gin.Context) {
	c.File(filepath.Join(s.staticDir, "index.html"))
}

type messageItem struct {
	Sender    string `json:"sender"`
	Type      string `json:"type"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

func (s *Server) listMessages(c *gin.Context) {
	turns, err := s.journal.Turns(webIdentity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	items := make([]messageItem, 0, len(turns))
	for _, t := range turns {
		items = append(items, itemForTurn(t))
	}
	c.JSON(http.StatusOK, items)
}

func itemForTurn(t storage.Turn) messageItem {
	item := messageItem{
		Sender:    "user",
		Type:      "text",
		Content:   t.Text,
		Timestamp: t.LoggedAt * 1000,
	}
	if history.RoleForSender(t.Sender) == llm.RoleAssistant {
		item.Sender = "bot"
	}
	if name, ok := imageFilename(t.Text); ok {
		item.Type = "image"
		item.Content = "/uploads/" + name
	}
	return item
}

// imageFilename recovers the stored filename from a rendered image turn.
func imageFilename(text string) (string, bool) {
	const prefix = "[Image: "
	if !strings.HasPrefix(text, prefix) {
		return "", false
	}
	rest := text[len(prefix):]
	end := strings.IndexByte(rest, ']')
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}

func (s *Server) postMessage(c *gin.Context) {
	var body struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message content is required"})
		return
	}

	_, err := s.processor.ProcessText(c.Request.Context(), webIdentity, body.Content)
	if err != nil {
		if errors.Is(err, media.ErrEmptyInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Message content is required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (s *Server) uploadImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file part in the request"})
		return
	}
	if file.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No selected file"})
		return
	}

	filename := "web_" + uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))
	path := filepath.Join(s.uploadsDir, filename)
	if err := c.SaveUploadedFile(file, path); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	_, err = s.processor.ProcessImage(c.Request.Context(), webIdentity, path, c.PostForm("caption"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "filename": filename})
}
