// internal/workers/recommendation/generate-recommendations/handler.go
package generaterecommendations

import (
	"context"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"recommender-workers/internal/common/errors"
	"recommender-workers/internal/common/logger"
	"recommender-workers/internal/common/metrics"
	"recommender-workers/internal/common/observability"
	"recommender-workers/internal/common/validation"
	"recommender-workers/internal/inference"
)

const TaskType = "generate-recommendations"

type Handler struct {
	config       *Config
	engine       *inference.Engine
	obs          *observability.Observability
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, engine *inference.Engine, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		engine:       engine,
		obs:          obs,
		errorHandler: errors.NewErrorHandler(log),
		logger:       log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.fail(ctx, client, job, startTime, errors.NewInvalidSubmissionError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.fail(ctx, client, job, startTime, err)
		return
	}

	h.completeJob(ctx, client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
	h.obs.RecordJobProcessed(ctx, TaskType, "success")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(startTime), "success")
}

// Execute validates the questionnaire, runs the engine and assigns a run id
// that later persistence steps carry along.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	profile, err := resolveProfile(input)
	if err != nil {
		return nil, err
	}

	ctx, span := observability.StartSpan(ctx, "inference.generate",
		attribute.Int64("student.id", input.StudentID),
		attribute.Int64("response.id", input.ResponseID),
	)
	run, err := h.engine.Generate(ctx, inference.Profile(profile), input.ResponseID)
	observability.EndSpan(span, err)
	if err != nil {
		return nil, err
	}

	h.obs.RecordInference(ctx, run.RulesFired, len(run.Recommendations))

	output := &Output{
		RunID:           uuid.New().String(),
		StudentID:       input.StudentID,
		ResponseID:      input.ResponseID,
		Recommendations: run.Recommendations,
		RulesEvaluated:  run.RulesEvaluated,
		RulesFired:      run.RulesFired,
	}

	h.logger.Info("recommendations generated", map[string]interface{}{
		"runId":           output.RunID,
		"studentId":       input.StudentID,
		"responseId":      input.ResponseID,
		"recommendations": len(output.Recommendations),
	})
	return output, nil
}

func resolveProfile(input *Input) (map[string]interface{}, error) {
	if input == nil {
		return nil, errors.NewInvalidSubmissionError("input cannot be nil")
	}

	var profile map[string]interface{}
	switch {
	case input.Submission != nil:
		if res := validation.ValidateStruct(input.Submission); !res.Valid {
			return nil, errors.NewInvalidSubmissionError(res.Summary())
		}
		profile = input.Submission.Profile()
	case input.Profile != nil:
		profile = input.Profile
	default:
		return nil, errors.NewInvalidProfileError("either submission or profile is required")
	}

	res, err := validation.ValidateProfile(profile)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if !res.Valid {
		return nil, errors.NewInvalidProfileError(res.Summary())
	}
	return profile, nil
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, startTime time.Time, err error) {
	code := string(errors.Normalize(err).Code)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, code).Inc()
	h.obs.RecordJobProcessed(ctx, TaskType, "failed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(startTime), "failed")
	h.errorHandler.HandleJobError(ctx, client, job, err)
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	h.logger.Info("job completed successfully", map[string]interface{}{
		"jobKey": job.Key,
	})
}
