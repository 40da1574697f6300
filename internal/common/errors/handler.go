package errors

import (
	"context"
	"encoding/json"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// ErrorHandler fails or throws mapping jobs depending on the error code.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// JobContext is the part of a mapping job's variables worth reporting when
// the job fails.
type JobContext struct {
	SessionID string `json:"sessionId"`
	Template  string `json:"template,omitempty"`
}

// ParseJobContext reads sessionId and template from the job variables.
// Unreadable variables give an empty context.
func ParseJobContext(job entities.Job) JobContext {
	var jc JobContext
	if job.ActivatedJob == nil || job.Variables == "" {
		return jc
	}
	_ = json.Unmarshal([]byte(job.Variables), &jc)
	return jc
}

// HandleJobError reports err to the broker. Retryable codes fail the job so
// the broker retries it; the rest throw a BPMN error the process can catch.
func (h *ErrorHandler) HandleJobError(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	stdErr := AsStandardError(err)
	bpmnErr := ConvertToBPMNError(stdErr)
	jc := ParseJobContext(job)
	if jc.SessionID != "" {
		bpmnErr.ErrorVariables["sessionId"] = jc.SessionID
	}

	h.logError(job, jc, stdErr, bpmnErr)

	if retries := RetriesLeft(bpmnErr, job.Retries); retries > 0 {
		h.failJob(ctx, client, job, bpmnErr, retries)
		return
	}
	h.throwBPMNError(ctx, client, job, bpmnErr)
}

// RetriesLeft is the retry count to hand back to the broker: the code's
// budget capped by what the job still has. Zero means throw.
func RetriesLeft(bpmnErr *BPMNError, jobRetries int32) int {
	if !bpmnErr.Retryable || bpmnErr.Retries <= 0 || jobRetries <= 0 {
		return 0
	}
	if int(jobRetries) < bpmnErr.Retries {
		return int(jobRetries)
	}
	return bpmnErr.Retries
}

func (h *ErrorHandler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError, retries int) {
	cmd := client.NewFailJobCommand().
		JobKey(job.Key).
		Retries(int32(retries)).
		ErrorMessage(bpmnErr.Message)

	if vars := errorVariables(bpmnErr); vars != "" {
		if withVars, err := cmd.VariablesFromString(vars); err == nil {
			_, _ = withVars.Send(ctx)
			return
		}
	}
	_, _ = cmd.Send(ctx)
}

func (h *ErrorHandler) throwBPMNError(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError) {
	cmd := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(bpmnErr.Code).
		ErrorMessage(bpmnErr.Message)

	if vars := errorVariables(bpmnErr); vars != "" {
		if withVars, err := cmd.VariablesFromString(vars); err == nil {
			_, _ = withVars.Send(ctx)
			return
		}
	}
	_, _ = cmd.Send(ctx)
}

// errorVariables encodes the variables sent along with a failure, or "" when
// there are none.
func errorVariables(bpmnErr *BPMNError) string {
	vars := bpmnErr.ToErrorVariables()
	if len(vars) == 0 {
		return ""
	}
	data, err := json.Marshal(vars)
	if err != nil || string(data) == "null" {
		return ""
	}
	return string(data)
}

func (h *ErrorHandler) logError(job entities.Job, jc JobContext, stdErr *StandardError, bpmnErr *BPMNError) {
	if h.logger == nil {
		return
	}
	fields := map[string]interface{}{
		"errorCode":     string(stdErr.Code),
		"bpmnErrorCode": bpmnErr.Code,
		"message":       bpmnErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"retries":       bpmnErr.Retries,
		"errorCategory": GetErrorCategory(stdErr.Code),
		"sessionId":     jc.SessionID,
	}
	if jc.Template != "" {
		fields["template"] = jc.Template
	}
	if job.ActivatedJob != nil {
		fields["jobKey"] = job.Key
		fields["jobType"] = job.Type
		fields["workflowInstance"] = job.ProcessInstanceKey
	}
	h.logger.Error("Mapping job failed", fields)
}
