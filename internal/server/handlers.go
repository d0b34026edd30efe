package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abhisek/skillcheck/internal/analysis"
	"github.com/abhisek/skillcheck/internal/api"
	"github.com/abhisek/skillcheck/internal/assistant"
	"github.com/abhisek/skillcheck/internal/i18n"
	"github.com/abhisek/skillcheck/internal/store"
)

// detail writes an error body in the shape clients parse.
func detail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": msg})
}

func (s *Server) home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Digital Skills Assessment API is running!",
		"version": APIVersion,
	})
}

func (s *Server) health(c *gin.Context) {
	bot := "not_available"
	if s.opts.Assistant.HasModel() {
		bot = "initialized"
	}
	c.JSON(http.StatusOK, api.Health{Status: "healthy", RAGBot: bot, Version: APIVersion})
}

func (s *Server) questions(c *gin.Context) {
	lang := i18n.Default
	if code := c.Param("language"); code != "" {
		if !i18n.IsSupported(code) {
			detail(c, http.StatusBadRequest, "Language not supported")
			return
		}
		lang = i18n.Lang(code)
	}
	qs := s.opts.Bank.Questions(lang)
	c.JSON(http.StatusOK, api.QuestionSet{Questions: qs, Total: len(qs)})
}

func (s *Server) createProfile(c *gin.Context) {
	var p api.Profile
	if err := c.ShouldBindJSON(&p); err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	rec := &store.Profile{
		UserID:     s.newID(),
		Name:       p.Name,
		Age:        p.Age,
		Goal:       p.Goal,
		Experience: p.Experience,
	}
	if err := s.opts.Profiles.Create(c.Request.Context(), rec); err != nil {
		s.log.Error("create profile", zap.Error(err))
		detail(c, http.StatusInternalServerError, "Could not save profile")
		return
	}

	c.JSON(http.StatusOK, api.ProfileResponse{
		Message: "Profile saved successfully!",
		UserID:  rec.UserID,
		Profile: p,
	})
}

func (s *Server) getProfile(c *gin.Context) {
	userID := c.Param("user_id")
	p, err := s.opts.Profiles.Get(c.Request.Context(), userID)
	if errors.Is(err, store.ErrNotFound) {
		detail(c, http.StatusNotFound, "User profile not found")
		return
	}
	if err != nil {
		s.log.Error("get profile", zap.String("user_id", userID), zap.Error(err))
		detail(c, http.StatusInternalServerError, "Could not load profile")
		return
	}
	c.JSON(http.StatusOK, api.UserProfile{
		UserID: p.UserID,
		Profile: api.Profile{
			Name:       p.Name,
			Age:        p.Age,
			Goal:       p.Goal,
			Experience: p.Experience,
		},
	})
}

func (s *Server) submit(c *gin.Context) {
	var sub api.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	ctx := c.Request.Context()

	if _, err := s.opts.Profiles.Get(ctx, sub.UserID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			detail(c, http.StatusNotFound, "User profile not found")
			return
		}
		s.log.Error("load profile for submit", zap.String("user_id", sub.UserID), zap.Error(err))
		detail(c, http.StatusInternalServerError, "Could not load profile")
		return
	}

	res, err := Grade(s.opts.Bank, sub)
	if errors.Is(err, errNoAnswers) {
		detail(c, http.StatusBadRequest, "No answers submitted")
		return
	}

	stored := res
	stored.UserID = ""
	stored.Answers = sub.Answers
	payload, err := json.Marshal(stored)
	if err == nil {
		err = s.opts.Results.Put(ctx, sub.UserID, payload)
	}
	if err != nil {
		s.log.Error("store result", zap.String("user_id", sub.UserID), zap.Error(err))
		detail(c, http.StatusInternalServerError, "Could not store results")
		return
	}

	s.metrics.quizSubmissions.WithLabelValues(analysis.LevelName(res.Percentage)).Inc()
	s.log.Info("quiz graded",
		zap.String("user_id", sub.UserID),
		zap.Int("score", res.Score),
		zap.Int("total", res.Total),
		zap.Int("percentage", res.Percentage))

	c.JSON(http.StatusOK, res)
}

func (s *Server) results(c *gin.Context) {
	userID := c.Param("user_id")
	payload, err := s.opts.Results.Latest(c.Request.Context(), userID)
	if errors.Is(err, store.ErrNotFound) {
		detail(c, http.StatusNotFound, "Quiz results not found")
		return
	}
	if err != nil {
		s.log.Error("load result", zap.String("user_id", userID), zap.Error(err))
		detail(c, http.StatusInternalServerError, "Could not load results")
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

func (s *Server) chat(c *gin.Context) {
	var req api.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if req.UserID == "" {
		req.UserID = "anonymous"
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.opts.ChatTimeout)
	defer cancel()
	reply := s.opts.Assistant.Answer(ctx, assistant.Question{
		UserID:  req.UserID,
		Message: req.Message,
		History: s.recentExchanges(c.Request.Context(), req.UserID),
	})
	s.metrics.chatReplies.WithLabelValues(string(reply.Source)).Inc()

	now := s.now().UTC()
	if reply.Source == assistant.SourceError {
		c.JSON(http.StatusOK, api.ChatReply{Response: reply.Text, UserID: req.UserID, Error: "request cancelled"})
		return
	}

	entry := &store.ChatEntry{
		UserID:      req.UserID,
		UserMessage: req.Message,
		BotResponse: reply.Text,
		Source:      string(reply.Source),
		CreatedAt:   now,
	}
	// History is best effort; the learner still gets the reply.
	if err := s.opts.Chats.Append(c.Request.Context(), entry); err != nil {
		s.log.Warn("store chat entry", zap.String("user_id", req.UserID), zap.Error(err))
	}

	c.JSON(http.StatusOK, api.ChatReply{
		Response:  reply.Text,
		UserID:    req.UserID,
		Timestamp: now.Format(time.RFC3339),
	})
}

// recentExchanges loads the learner's earlier chat for model context. The
// shared "anonymous" id has no history of its own.
func (s *Server) recentExchanges(ctx context.Context, userID string) []assistant.Exchange {
	if userID == "anonymous" {
		return nil
	}
	entries, err := s.opts.Chats.History(ctx, userID)
	if err != nil {
		s.log.Warn("load chat context", zap.String("user_id", userID), zap.Error(err))
		return nil
	}
	out := make([]assistant.Exchange, len(entries))
	for i, e := range entries {
		out[i] = assistant.Exchange{Message: e.UserMessage, Reply: e.BotResponse}
	}
	return out
}

func (s *Server) chatHistory(c *gin.Context) {
	userID := c.Param("user_id")
	entries, err := s.opts.Chats.History(c.Request.Context(), userID)
	if err != nil {
		s.log.Error("load chat history", zap.String("user_id", userID), zap.Error(err))
		detail(c, http.StatusInternalServerError, "Could not load chat history")
		return
	}
	turns := make([]api.ChatTurn, len(entries))
	for i, e := range entries {
		turns[i] = api.ChatTurn{
			UserMessage: e.UserMessage,
			BotResponse: e.BotResponse,
			Timestamp:   e.CreatedAt.Format(time.RFC3339),
		}
	}
	c.JSON(http.StatusOK, gin.H{"history": turns})
}
