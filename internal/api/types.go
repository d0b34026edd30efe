package api

import (
	"strings"
	"time"

	"github.com/abhisek/skillcheck/internal/quiz"
)

// Profile is the learner profile sent before a quiz starts.
type Profile struct {
	Name       string `json:"name" binding:"required"`
	Age        int    `json:"age" binding:"required,gt=0"`
	Goal       string `json:"goal" binding:"required"`
	Experience string `json:"experience" binding:"required"`
}

// DefaultProfile derives the profile the login screen submits. Only the
// email's local part is used.
func DefaultProfile(email string) Profile {
	name, _, _ := strings.Cut(email, "@")
	return Profile{
		Name:       name,
		Age:        25,
		Goal:       "Improve digital skills",
		Experience: "Beginner",
	}
}

// ProfileResponse is returned by POST /profile.
type ProfileResponse struct {
	Message string  `json:"message"`
	UserID  string  `json:"user_id"`
	Profile Profile `json:"profile"`
}

// UserProfile is returned by GET /users/:id/profile.
type UserProfile struct {
	UserID  string  `json:"user_id"`
	Profile Profile `json:"profile"`
}

// QuestionSet is the payload of GET /quiz/questions/:lang.
type QuestionSet struct {
	Questions []quiz.Question `json:"questions"`
	Total     int             `json:"total"`
}

// SubmittedAnswer is one graded answer on the wire. QuestionID is the
// question's bank id, or its 1-based position for questions without one;
// TimeTaken is milliseconds since quiz start.
type SubmittedAnswer struct {
	QuestionID     int     `json:"question_id" binding:"required"`
	SelectedAnswer int     `json:"selected_answer"`
	TimeTaken      float64 `json:"time_taken"`
}

// Submission is the body of POST /quiz/submit.
type Submission struct {
	UserID    string            `json:"user_id" binding:"required"`
	Answers   []SubmittedAnswer `json:"answers"`
	TotalTime float64           `json:"total_time"`
}

// NewSubmission converts a finished session to its wire form.
func NewSubmission(userID string, s *quiz.Session) Submission {
	sub := Submission{
		UserID:    userID,
		Answers:   make([]SubmittedAnswer, 0, len(s.Answers)),
		TotalTime: millis(s.Elapsed()),
	}
	for _, a := range s.Answers {
		id := a.QuestionID
		if id == 0 {
			id = a.QuestionIndex + 1
		}
		sub.Answers = append(sub.Answers, SubmittedAnswer{
			QuestionID:     id,
			SelectedAnswer: a.SelectedAnswer,
			TimeTaken:      millis(a.Elapsed),
		})
	}
	return sub
}

func millis(d time.Duration) float64 {
	return float64(d.Milliseconds())
}

// GroupStat is one entry of skill_analysis or difficulty_analysis.
type GroupStat struct {
	Correct    int `json:"correct"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// Result is the graded outcome returned by POST /quiz/submit.
type Result struct {
	UserID             string               `json:"user_id,omitempty"`
	Score              int                  `json:"score"`
	Total              int                  `json:"total"`
	Percentage         int                  `json:"percentage"`
	SkillAnalysis      map[string]GroupStat `json:"skill_analysis"`
	DifficultyAnalysis map[string]GroupStat `json:"difficulty_analysis"`
	TimeTaken          float64              `json:"time_taken"`
	Answers            []SubmittedAnswer    `json:"answers,omitempty"`
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
	UserID  string `json:"user_id"`
}

// ChatReply is returned by POST /chat.
type ChatReply struct {
	Response  string `json:"response"`
	UserID    string `json:"user_id"`
	Timestamp string `json:"timestamp,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ChatTurn is one exchange in a user's chat history.
type ChatTurn struct {
	UserMessage string `json:"user_message"`
	BotResponse string `json:"bot_response"`
	Timestamp   string `json:"timestamp"`
}

// Health is returned by GET /health.
type Health struct {
	Status  string `json:"status"`
	RAGBot  string `json:"rag_bot"`
	Version string `json:"version,omitempty"`
}
