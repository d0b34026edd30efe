package play

import (
	"github.com/abhisek/skillcheck/internal/api"
	"github.com/abhisek/skillcheck/internal/i18n"
	"github.com/abhisek/skillcheck/internal/quiz"
)

// questionsLoadedMsg is sent when questions were fetched again after a
// language toggle.
type questionsLoadedMsg struct {
	Lang      i18n.Lang
	Questions []quiz.Question
	Err       error
}

// submittedMsg is sent when the service accepted the attempt.
type submittedMsg struct {
	Result *api.Result
}

// submitFailedMsg is sent when the submission failed.
type submitFailedMsg struct {
	Err error
}
