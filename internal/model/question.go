package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// FeedbackQuestionType defines the type of a feedback question
type FeedbackQuestionType string

const (
	FeedbackSlider       FeedbackQuestionType = "SLIDER"
	FeedbackStars        FeedbackQuestionType = "STARS"
	FeedbackFulltext     FeedbackQuestionType = "FULLTEXT"
	FeedbackYesNo        FeedbackQuestionType = "YES_NO"
	FeedbackSingleChoice FeedbackQuestionType = "SINGLE_CHOICE"
)

// Valid reports whether t is a recognized feedback question type.
func (t FeedbackQuestionType) Valid() bool {
	switch t {
	case FeedbackSlider, FeedbackStars, FeedbackFulltext, FeedbackYesNo, FeedbackSingleChoice:
		return true
	}
	return false
}

// NeedsOptions reports whether the type requires an option list.
func (t FeedbackQuestionType) NeedsOptions() bool {
	return t == FeedbackSingleChoice
}

// QuizQuestionType defines the type of a quiz question
type QuizQuestionType string

const (
	QuizSingleChoice   QuizQuestionType = "SINGLE_CHOICE"
	QuizMultipleChoice QuizQuestionType = "MULTIPLE_CHOICE"
	QuizFulltext       QuizQuestionType = "FULLTEXT"
)

// Valid reports whether t is a recognized quiz question type.
func (t QuizQuestionType) Valid() bool {
	switch t {
	case QuizSingleChoice, QuizMultipleChoice, QuizFulltext:
		return true
	}
	return false
}

// NeedsOptions reports whether the type requires an option list.
func (t QuizQuestionType) NeedsOptions() bool {
	return t == QuizSingleChoice || t == QuizMultipleChoice
}

// FeedbackQuestion is a question-bank entry shared by the feedback forms of one
// course.
type FeedbackQuestion struct {
	ID          primitive.ObjectID   `json:"id" bson:"id"`
	Name        string               `json:"name" bson:"name"`
	Description string               `json:"description" bson:"description"`
	Type        FeedbackQuestionType `json:"type" bson:"type"`
	Options     []string             `json:"options" bson:"options"`
	Key         string               `json:"key" bson:"key"`
}

// NewFeedbackQuestion creates a feedback question with a fresh identifier.
func NewFeedbackQuestion(name, description string, qType FeedbackQuestionType, options []string) FeedbackQuestion {
	return FeedbackQuestion{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Description: description,
		Type:        qType,
		Options:     options,
	}
}

// Content projects the question into a wrapper's resolved question content.
func (q FeedbackQuestion) Content() *QuestionContent {
	return &QuestionContent{
		ID:          q.ID,
		Name:        q.Name,
		Description: q.Description,
		Type:        string(q.Type),
		Options:     append([]string(nil), q.Options...),
	}
}

// QuizQuestion is a question-bank entry shared by the quiz forms of one course.
type QuizQuestion struct {
	ID                primitive.ObjectID `json:"id" bson:"id"`
	Name              string             `json:"name" bson:"name"`
	Description       string             `json:"description" bson:"description"`
	Type              QuizQuestionType   `json:"type" bson:"type"`
	Options           []string           `json:"options" bson:"options"`
	HasCorrectAnswers bool               `json:"hasCorrectAnswers" bson:"hasCorrectAnswers"`
	CorrectAnswers    []string           `json:"correctAnswers" bson:"correctAnswers"`
	Key               string             `json:"key" bson:"key"`
}

// NewQuizQuestion creates a quiz question with a fresh identifier.
func NewQuizQuestion(name, description string, qType QuizQuestionType, options []string, hasCorrect bool, correct []string) QuizQuestion {
	return QuizQuestion{
		ID:                primitive.NewObjectID(),
		Name:              name,
		Description:       description,
		Type:              qType,
		Options:           options,
		HasCorrectAnswers: hasCorrect,
		CorrectAnswers:    correct,
	}
}

// Content projects the question into a wrapper's resolved question content.
// Correct-answer metadata is included only when includeCorrect is set.
func (q QuizQuestion) Content(includeCorrect bool) *QuestionContent {
	content := &QuestionContent{
		ID:          q.ID,
		Name:        q.Name,
		Description: q.Description,
		Type:        string(q.Type),
		Options:     append([]string(nil), q.Options...),
	}
	if includeCorrect {
		content.HasCorrectAnswers = q.HasCorrectAnswers
		content.CorrectAnswers = append([]string(nil), q.CorrectAnswers...)
	}
	return content
}
