package pkg

import "time"

// LogRecord is one row of the query history.  Records are written once and
// never updated.
type LogRecord struct {
	ID        int64     `json:"id"`
	Symptoms  string    `json:"symptoms"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

// SymptomsRequest is the body of POST /check_symptoms.
type SymptomsRequest struct {
	Symptoms string `json:"symptoms"`
}

// QuestionsRequest is the body of POST /prepare_questions.  Analysis is the
// text previously returned by /check_symptoms.
type QuestionsRequest struct {
	Symptoms string `json:"symptoms"`
	Analysis string `json:"analysis"`
}

// Response wraps the model output returned to the caller.
type Response struct {
	Response string `json:"response"`
}

// ErrorResponse carries a user facing validation message.
type ErrorResponse struct {
	Error string `json:"error"`
}
