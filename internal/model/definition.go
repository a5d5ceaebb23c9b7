package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// Submitted definitions. Instructors post these to create or edit courses and
// forms; the services validate them and fold them into the course aggregate.

// QuestionDefinition is one submitted question entry. For quiz questions the
// correct-answer fields may be set; feedback questions ignore them.
type QuestionDefinition struct {
	Name              string   `json:"name" validate:"required"`
	Description       string   `json:"description" validate:"required"`
	Type              string   `json:"type" validate:"required"`
	Options           []string `json:"options"`
	Key               string   `json:"key"`
	HasCorrectAnswers bool     `json:"hasCorrectAnswers"`
	CorrectAnswers    []string `json:"correctAnswers"`
}

// FormDefinition is a submitted form: metadata plus an ordered question list.
type FormDefinition struct {
	Name        string               `json:"name" validate:"required"`
	Description string               `json:"description" validate:"required"`
	Questions   []QuestionDefinition `json:"questions" validate:"required,min=1,dive"`
	Key         string               `json:"key"`
}

// CourseDefinition is a submitted course, optionally with nested forms for
// bulk import.
type CourseDefinition struct {
	Name          string           `json:"name" validate:"required"`
	Description   string           `json:"description" validate:"required"`
	Key           string           `json:"key" validate:"required"`
	FeedbackForms []FormDefinition `json:"feedbackForms"`
	QuizForms     []FormDefinition `json:"quizForms"`
}

// Live feed entry kinds
const (
	LiveKindFeedback = "feedback"
	LiveKindQuiz     = "quiz"
)

// LiveForm is one entry of the cross-course live feed: a currently running
// form in its redacted projection, tagged by kind.
type LiveForm struct {
	Kind     string             `json:"kind"`
	CourseID primitive.ObjectID `json:"courseId"`
	Feedback *FeedbackForm      `json:"feedbackForm,omitempty"`
	Quiz     *QuizForm          `json:"quizForm,omitempty"`
}
