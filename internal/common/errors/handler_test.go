package errors

import (
	stderrors "errors"
	"testing"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== Test Helper Functions =====

type recordingLogger struct {
	msgs   []string
	fields []map[string]interface{}
}

func (l *recordingLogger) Error(msg string, fields map[string]interface{}) {
	l.msgs = append(l.msgs, msg)
	l.fields = append(l.fields, fields)
}

func createTestJob(variables string, retries int32) entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                42,
		Type:               "map-entities-to-layout",
		ProcessInstanceKey: 7,
		Retries:            retries,
		Variables:          variables,
	}}
}

// ===== Tests =====

func TestParseJobContext(t *testing.T) {
	tests := []struct {
		name     string
		job      entities.Job
		expected JobContext
	}{
		{"session and template", createTestJob(`{"sessionId":"s-1","template":"one-column","entities":["врач"]}`, 3), JobContext{SessionID: "s-1", Template: "one-column"}},
		{"session only", createTestJob(`{"sessionId":"s-2"}`, 3), JobContext{SessionID: "s-2"}},
		{"broken variables", createTestJob(`{"sessionId":`, 3), JobContext{}},
		{"no variables", createTestJob("", 3), JobContext{}},
		{"nil job", entities.Job{}, JobContext{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseJobContext(tt.job))
		})
	}
}

func TestRetriesLeft(t *testing.T) {
	tests := []struct {
		name       string
		err        *StandardError
		jobRetries int32
		expected   int
	}{
		{"cache outage retries once", NewCacheUnavailableError(stderrors.New("timeout")), 3, 1},
		{"vocabulary failure uses its budget", NewVocabularyLoadFailedError("sql", stderrors.New("down")), 5, 3},
		{"capped by the job's remaining retries", NewVocabularyLoadFailedError("sql", stderrors.New("down")), 2, 2},
		{"exhausted job throws", NewCacheUnavailableError(stderrors.New("timeout")), 0, 0},
		{"invalid request throws", NewInvalidRequestError("entities missing"), 3, 0},
		{"non-retryable code with a budget throws", &StandardError{Code: ErrCodeMappingFailed, Retryable: false}, 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RetriesLeft(ConvertToBPMNError(tt.err), tt.jobRetries))
		})
	}
}

func TestLogError_IncludesMappingContext(t *testing.T) {
	log := &recordingLogger{}
	h := NewErrorHandler(log)
	job := createTestJob(`{"sessionId":"s-9","template":"medical-clinic"}`, 3)
	std := NewCacheUnavailableError(stderrors.New("timeout"))

	h.logError(job, ParseJobContext(job), std, ConvertToBPMNError(std))

	require.Len(t, log.fields, 1)
	fields := log.fields[0]
	assert.Equal(t, "s-9", fields["sessionId"])
	assert.Equal(t, "medical-clinic", fields["template"])
	assert.Equal(t, "CACHE_UNAVAILABLE", fields["errorCode"])
	assert.Equal(t, int64(42), fields["jobKey"])
	assert.Equal(t, 1, fields["retries"])
}

func TestLogError_NilLogger(t *testing.T) {
	h := NewErrorHandler(nil)
	std := NewInternalError(stderrors.New("boom"))
	assert.NotPanics(t, func() {
		h.logError(entities.Job{}, JobContext{}, std, ConvertToBPMNError(std))
	})
}

func TestErrorVariables(t *testing.T) {
	bpmn := ConvertToBPMNError(NewInvalidRequestError("entities missing"))
	bpmn.ErrorVariables["sessionId"] = "s-1"

	vars := errorVariables(bpmn)

	assert.Contains(t, vars, `"errorCode":"INVALID_REQUEST"`)
	assert.Contains(t, vars, `"sessionId":"s-1"`)
}
