package types

import "net/http"

// Status values carried by Result.
const (
	StatusSuccess = "success"
	StatusSkipped = "skipped"
	StatusFailure = "failure"
)

// Result é o retorno uniforme de uma execução, para os dois pipelines.
type Result struct {
	StatusCode int    `json:"statusCode"`
	Status     string `json:"status"`
	Body       string `json:"body"`
	ErrorKind  string `json:"errorKind,omitempty"`
}

// SuccessResult builds the result of a run that published its notification.
func SuccessResult(body string) Result {
	return Result{StatusCode: http.StatusOK, Status: StatusSuccess, Body: body}
}

// SkippedResult builds the result of a run that ended without publishing.
func SkippedResult(body string) Result {
	return Result{StatusCode: http.StatusOK, Status: StatusSkipped, Body: body}
}

// FailureResult builds the result of a failed run.
func FailureResult(err error) Result {
	return Result{
		StatusCode: http.StatusInternalServerError,
		Status:     StatusFailure,
		Body:       err.Error(),
		ErrorKind:  KindOf(err),
	}
}
