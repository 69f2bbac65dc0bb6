package messaging_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peridotvault/peridot-core/internal/domain"
	"github.com/peridotvault/peridot-core/internal/messaging"
	"github.com/peridotvault/peridot-core/internal/mocks"
)

func TestFanout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	first := mocks.NewMockPublisher(ctrl)
	second := mocks.NewMockPublisher(ctrl)
	fan := messaging.NewFanout(first, second)

	event := &domain.LedgerEvent{EventType: domain.EventTypePurchased, TxHash: "0x01"}
	gomock.InOrder(
		first.EXPECT().PublishEvent(ctx, event).Return(nil),
		second.EXPECT().PublishEvent(ctx, event).Return(nil),
	)
	require.NoError(t, fan.PublishEvent(ctx, event))

	failing := &domain.LedgerEvent{EventType: domain.EventTypePurchased, TxHash: "0x02"}
	first.EXPECT().PublishEvent(ctx, failing).Return(errors.New("store unavailable"))
	err := fan.PublishEvent(ctx, failing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publisher 0")

	first.EXPECT().Close()
	second.EXPECT().Close()
	fan.Close()
}
