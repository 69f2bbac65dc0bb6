package temporal

import (
	"context"

	"go.temporal.io/sdk/client"
)

// Orchestrator starts workflows. client.Client satisfies it.
//
//go:generate mockgen -source=orchestrator.go -destination=../../mocks/temporal_orchestrator.go -package=mocks -mock_names=Orchestrator=MockTemporalOrchestrator
type Orchestrator interface {
	ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error)
}
