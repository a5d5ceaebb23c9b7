package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// QuizForm is a form running a scored quiz session. On top of the common form
// shape it counts submitted attempts and can reveal correct answers to
// participants.
type QuizForm struct {
	Form               `bson:",inline"`
	AttemptCount       int  `json:"attemptCount" bson:"attemptCount"`
	ShowCorrectAnswers bool `json:"showCorrectAnswers" bson:"showCorrectAnswers"`
}

// NewQuizForm creates a quiz form in NOT_STARTED state with no attempts.
func NewQuizForm(courseID primitive.ObjectID, name, description string, questions []QuestionWrapper, connectCode int) QuizForm {
	return QuizForm{Form: NewForm(courseID, name, description, questions, connectCode)}
}

// SubmitAnswer records a participant's answer and counts the attempt.
func (f *QuizForm) SubmitAnswer(userID, questionID primitive.ObjectID, values []string) error {
	if err := f.Form.SubmitAnswer(userID, questionID, values); err != nil {
		return err
	}
	f.AttemptCount++
	return nil
}

// CopyWithoutResults returns a copy safe for public display: the structure of
// the form with every collected answer cleared. The receiver is not mutated.
func (f QuizForm) CopyWithoutResults() QuizForm {
	c := f
	c.Form = f.cloneWithoutResults()
	return c
}

// CopyWithQuestionContents returns the owner view: every wrapper carries the
// full question definition, correct-answer metadata included, alongside the
// collected answers. The receiver is not mutated.
func (f QuizForm) CopyWithQuestionContents(course *Course) QuizForm {
	c := f
	c.Form = f.clone()
	for i := range c.Questions {
		if q := course.QuizQuestionByID(c.Questions[i].QuestionID); q != nil {
			c.Questions[i].QuestionContent = q.Content(true)
		}
	}
	return c
}

// CopyWithoutResultsButWithQuestionContents is the participant view: full
// question metadata, no collected answers. Correct answers are only resolved
// once the form reveals them.
func (f QuizForm) CopyWithoutResultsButWithQuestionContents(course *Course) QuizForm {
	c := f
	c.Form = f.cloneWithoutResults()
	for i := range c.Questions {
		if q := course.QuizQuestionByID(c.Questions[i].QuestionID); q != nil {
			c.Questions[i].QuestionContent = q.Content(f.ShowCorrectAnswers)
		}
	}
	return c
}

// Score tallies, per participant, how many answered questions match the
// question's correct answers. Computed lazily from the collected results and
// never stored.
func (f *QuizForm) Score(course *Course) map[primitive.ObjectID]int {
	scores := make(map[primitive.ObjectID]int)
	for i := range f.Participants {
		scores[f.Participants[i].UserID] = 0
	}
	for i := range f.Questions {
		question := course.QuizQuestionByID(f.Questions[i].QuestionID)
		if question == nil || !question.HasCorrectAnswers {
			continue
		}
		for _, result := range f.Questions[i].Results {
			if matchesAnswers(result.Values, question.CorrectAnswers) {
				scores[result.ParticipantID]++
			}
		}
	}
	return scores
}

// matchesAnswers compares submitted values against the correct set, ignoring
// order.
func matchesAnswers(values, correct []string) bool {
	if len(values) != len(correct) {
		return false
	}
	want := make(map[string]int, len(correct))
	for _, v := range correct {
		want[v]++
	}
	for _, v := range values {
		if want[v] == 0 {
			return false
		}
		want[v]--
	}
	return true
}
