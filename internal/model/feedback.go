package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// FeedbackForm is a form collecting feedback answers during a live session.
type FeedbackForm struct {
	Form `bson:",inline"`
}

// NewFeedbackForm creates a feedback form in NOT_STARTED state.
func NewFeedbackForm(courseID primitive.ObjectID, name, description string, questions []QuestionWrapper, connectCode int) FeedbackForm {
	return FeedbackForm{Form: NewForm(courseID, name, description, questions, connectCode)}
}

// CopyWithoutResults returns a copy safe for public display: the structure of
// the form with every collected answer cleared. The receiver is not mutated.
func (f FeedbackForm) CopyWithoutResults() FeedbackForm {
	return FeedbackForm{Form: f.cloneWithoutResults()}
}

// CopyWithQuestionContents returns a copy where every wrapper carries the full
// question definition resolved from the course's question bank, alongside the
// collected answers. The receiver is not mutated.
func (f FeedbackForm) CopyWithQuestionContents(course *Course) FeedbackForm {
	c := FeedbackForm{Form: f.clone()}
	for i := range c.Questions {
		if q := course.FeedbackQuestionByID(c.Questions[i].QuestionID); q != nil {
			c.Questions[i].QuestionContent = q.Content()
		}
	}
	return c
}

// CopyWithoutResultsButWithQuestionContents combines the two projections: full
// question metadata, no collected answers.
func (f FeedbackForm) CopyWithoutResultsButWithQuestionContents(course *Course) FeedbackForm {
	c := f.CopyWithQuestionContents(course)
	for i := range c.Questions {
		c.Questions[i].Results = []Result{}
	}
	return c
}
