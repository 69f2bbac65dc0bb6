package logger

import (
	"go.temporal.io/sdk/workflow"
	"go.uber.org/zap"
)

// FromWorkflow returns a logger tagged with the workflow execution of ctx.
// Replayed workflow code logs nothing.
func FromWorkflow(ctx workflow.Context) *zap.Logger {
	if workflow.IsReplaying(ctx) {
		return zap.NewNop()
	}
	info := workflow.GetInfo(ctx)
	if info == nil {
		return log
	}
	return log.With(
		zap.String("workflowType", info.WorkflowType.Name),
		zap.String("workflowID", info.WorkflowExecution.ID),
		zap.String("runID", info.WorkflowExecution.RunID),
	)
}

// InfoWf logs an info message with workflow context
func InfoWf(ctx workflow.Context, msg string, fields ...zap.Field) {
	FromWorkflow(ctx).Info(msg, fields...)
}

// WarnWf logs a warning message with workflow context
func WarnWf(ctx workflow.Context, msg string, fields ...zap.Field) {
	FromWorkflow(ctx).Warn(msg, fields...)
}

// ErrorWf logs an error with workflow context
func ErrorWf(ctx workflow.Context, err error, fields ...zap.Field) {
	if err != nil {
		FromWorkflow(ctx).Error(err.Error(), fields...)
		return
	}
	FromWorkflow(ctx).Error("error occurred", fields...)
}
