// internal/workers/recommendation/save-recommendations/handler.go
package saverecommendations

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/goccy/go-json"

	"recommender-workers/internal/common/errors"
	"recommender-workers/internal/common/logger"
	"recommender-workers/internal/common/metrics"
	"recommender-workers/internal/common/observability"
	"recommender-workers/internal/common/validation"
	"recommender-workers/internal/models"
)

const TaskType = "save-recommendations"

const insertRecommendationQuery = `
	INSERT INTO recommendations (
		student_id, response_id, program_id, rank_position,
		confidence_score, justification, rules_triggered, run_id
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING recommendation_id`

type Handler struct {
	config       *Config
	db           *sql.DB
	obs          *observability.Observability
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, db *sql.DB, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		db:           db,
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

// Execute writes the ranked list in a single transaction. Either every row
// is stored or none is.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.NewInvalidSubmissionError("input cannot be nil")
	}
	if res := validation.ValidateStruct(input); !res.Valid {
		return nil, errors.NewInvalidSubmissionError(res.Summary())
	}

	output := &Output{RecommendationIDs: make([]int64, 0, len(input.Recommendations))}
	if len(input.Recommendations) == 0 {
		h.logger.Info("no recommendations to save", map[string]interface{}{
			"responseId": input.ResponseID,
		})
		return output, nil
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, h.persistError(ctx, err)
	}
	defer func() { _ = tx.Rollback() }()

	var runID sql.NullString
	if input.RunID != "" {
		runID = sql.NullString{String: input.RunID, Valid: true}
	}

	for _, rec := range input.Recommendations {
		var id int64
		err := tx.QueryRowContext(ctx, insertRecommendationQuery,
			input.StudentID,
			input.ResponseID,
			rec.ProgramID,
			rec.Rank,
			rec.Confidence,
			rec.Justification,
			models.JoinRuleIDs(rec.RulesTriggered),
			runID,
		).Scan(&id)
		if err != nil {
			return nil, h.persistError(ctx, fmt.Errorf("insert rank %d: %w", rec.Rank, err))
		}
		output.RecommendationIDs = append(output.RecommendationIDs, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, h.persistError(ctx, fmt.Errorf("commit: %w", err))
	}
	output.SavedCount = len(output.RecommendationIDs)

	h.logger.Info("recommendations saved", map[string]interface{}{
		"studentId":  input.StudentID,
		"responseId": input.ResponseID,
		"runId":      input.RunID,
		"savedCount": output.SavedCount,
	})
	return output, nil
}

func (h *Handler) persistError(ctx context.Context, err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errors.NewQueryTimeoutError("save_recommendations")
	}
	return errors.NewRecommendationPersistFailedError(err)
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
	}
}
