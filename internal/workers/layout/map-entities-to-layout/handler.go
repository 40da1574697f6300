package mapentitiestolayout

import (
	"context"
	"encoding/json"
	"fmt"

	"visual-mapper/internal/cache"
	"visual-mapper/internal/common/errors"
	"visual-mapper/internal/common/logger"
	"visual-mapper/internal/common/metrics"
	"visual-mapper/internal/mapping/pipeline"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "map-entities-to-layout"

type Handler struct {
	config     *Config
	mapper     cache.Mapper
	cache      *cache.Cache
	logger     logger.Logger
	errHandler *errors.ErrorHandler
}

// NewHandler builds the handler. c and log may be nil.
func NewHandler(config *Config, mapper cache.Mapper, c *cache.Cache, log logger.Logger) *Handler {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		mapper:     mapper,
		cache:      c,
		logger:     log,
		errHandler: errors.NewErrorHandler(log),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.fail(ctx, client, job, errors.NewInvalidRequestError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
}

// Execute maps the job input to a layout.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if len(input.Entities) > h.config.MaxTerms || len(input.Keyphrases) > h.config.MaxTerms {
		return nil, errors.NewInvalidRequestError(
			fmt.Sprintf("at most %d entities and %d keyphrases are accepted", h.config.MaxTerms, h.config.MaxTerms))
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.NewMappingFailedError(err)
	}

	resp, hit := h.cache.Map(ctx, h.mapper, pipeline.Request{
		SessionID:  input.SessionId,
		Entities:   input.Entities,
		Keyphrases: input.Keyphrases,
		Template:   input.Template,
	})

	h.logger.Info("layout mapped", map[string]interface{}{
		"sessionId": resp.SessionID,
		"template":  resp.Layout.Template,
		"matches":   len(resp.Matches),
		"warnings":  len(resp.Warnings),
		"cacheHit":  hit,
	})

	return &Output{
		Mapping:          resp,
		SelectedTemplate: resp.Layout.Template,
		ComponentCount:   resp.Layout.Count,
		WarningCount:     len(resp.Warnings),
	}, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.fail(ctx, client, job, errors.NewInternalError(fmt.Errorf("encode output: %w", err)))
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{"error": err})
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, "COMPLETE_FAILED").Inc()
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	std := errors.AsStandardError(err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(std.Code)).Inc()
	h.errHandler.HandleJobError(ctx, client, job, std)
}
