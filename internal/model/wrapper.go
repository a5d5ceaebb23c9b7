package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// Result is one participant's collected answer for one question of one form.
type Result struct {
	ParticipantID primitive.ObjectID `json:"participantId" bson:"participantId"`
	Values        []string           `json:"values" bson:"values"`
}

// QuestionContent is the resolved question definition attached to a wrapper by
// the view projections. It is computed on read and never persisted.
type QuestionContent struct {
	ID                primitive.ObjectID `json:"id"`
	Name              string             `json:"name"`
	Description       string             `json:"description"`
	Type              string             `json:"type"`
	Options           []string           `json:"options"`
	HasCorrectAnswers bool               `json:"hasCorrectAnswers,omitempty"`
	CorrectAnswers    []string           `json:"correctAnswers,omitempty"`
}

// QuestionWrapper links a question-bank entry to the answers collected for it
// inside one form instance. The referenced question is shared read-only across
// all forms of the course that reuse it.
type QuestionWrapper struct {
	QuestionID      primitive.ObjectID `json:"questionId" bson:"questionId"`
	Results         []Result           `json:"results" bson:"results"`
	QuestionContent *QuestionContent   `json:"questionContent,omitempty" bson:"-"`
}

// NewQuestionWrapper creates a wrapper with no collected answers.
func NewQuestionWrapper(questionID primitive.ObjectID) QuestionWrapper {
	return QuestionWrapper{QuestionID: questionID, Results: []Result{}}
}

// SetResult records values for a participant, replacing any prior answer by the
// same participant. Last write wins.
func (w *QuestionWrapper) SetResult(participantID primitive.ObjectID, values []string) {
	for i := range w.Results {
		if w.Results[i].ParticipantID == participantID {
			w.Results[i].Values = append([]string(nil), values...)
			return
		}
	}
	w.Results = append(w.Results, Result{
		ParticipantID: participantID,
		Values:        append([]string(nil), values...),
	})
}

// clone copies the wrapper. Results are deep-copied, the resolved content is not
// carried over.
func (w QuestionWrapper) clone() QuestionWrapper {
	results := make([]Result, len(w.Results))
	for i, r := range w.Results {
		results[i] = Result{
			ParticipantID: r.ParticipantID,
			Values:        append([]string(nil), r.Values...),
		}
	}
	return QuestionWrapper{QuestionID: w.QuestionID, Results: results}
}
