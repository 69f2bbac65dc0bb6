package webhook_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"

	"github.com/peridotvault/peridot-core/internal/mocks"
	"github.com/peridotvault/peridot-core/internal/webhook"
)

func TestTemporalDispatcher_Notify(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	orchestrator := mocks.NewMockTemporalOrchestrator(ctrl)
	clock := mocks.NewMockClock(ctrl)
	clock.EXPECT().Now().Return(signedAt).AnyTimes()

	orchestrator.EXPECT().
		ExecuteWorkflow(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, options client.StartWorkflowOptions, wf interface{}, args ...interface{}) (client.WorkflowRun, error) {
			assert.Equal(t, "peridot-webhooks", options.TaskQueue)
			assert.True(t, strings.HasPrefix(options.ID, "webhook-notify-purchased-"))
			require.Len(t, args, 1)
			event, ok := args[0].(webhook.WebhookEvent)
			require.True(t, ok)
			assert.Equal(t, "purchased", event.EventType)
			assert.Len(t, event.EventID, 26)
			assert.Equal(t, options.ID, "webhook-notify-purchased-"+event.EventID)
			return client.WorkflowRun(nil), nil
		})

	d := webhook.NewTemporalDispatcher(orchestrator, "peridot-webhooks", clock)
	require.NoError(t, d.Notify(context.Background(), purchaseEvent()))

	d.Close()
	assert.ErrorIs(t, d.Notify(context.Background(), purchaseEvent()), webhook.ErrDispatcherClosed)
}

func TestTemporalDispatcher_Notify_StartError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	orchestrator := mocks.NewMockTemporalOrchestrator(ctrl)
	clock := mocks.NewMockClock(ctrl)
	clock.EXPECT().Now().Return(signedAt).AnyTimes()

	orchestrator.EXPECT().
		ExecuteWorkflow(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(client.WorkflowRun(nil), errors.New("namespace not found"))

	d := webhook.NewTemporalDispatcher(orchestrator, "peridot-webhooks", clock)
	err := d.Notify(context.Background(), purchaseEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start webhook notification workflow")
}
