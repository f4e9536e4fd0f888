package syncing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/rokt-tap/infrastructure/integrator/rokt"
	roktdomain "github.com/vfg2006/rokt-tap/infrastructure/integrator/rokt/domain"
	roktmocks "github.com/vfg2006/rokt-tap/infrastructure/integrator/rokt/mocks"
	repomocks "github.com/vfg2006/rokt-tap/infrastructure/repository/mocks"
	"github.com/vfg2006/rokt-tap/internal/config"
	"github.com/vfg2006/rokt-tap/internal/domain"
	"github.com/vfg2006/rokt-tap/internal/usecases/syncing/mocks"
	"github.com/vfg2006/rokt-tap/pkg/clock"
	"github.com/vfg2006/rokt-tap/pkg/log"
	"go.uber.org/mock/gomock"
)

func intPtr(i int) *int { return &i }

var referenceNow = time.Date(2024, 3, 2, 9, 30, 0, 0, time.UTC)

func streamFactory(client *roktmocks.MockClient, clk clock.Clock) StreamFactory {
	return func() (Streamer, error) {
		return rokt.NewCampaignsBreakdownStream(client, config.Rokt{AccountID: "A1", DaysBack: intPtr(1)}, clk, log.Discard())
	}
}

func TestRun_Sucesso(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	clk := clock.NewFake(referenceNow)
	client := roktmocks.NewMockClient(ctrl)
	sink := mocks.NewMockRecordSink(ctrl)

	client.EXPECT().
		Post(gomock.Any(), "/query/accounts/A1/campaigns/", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ any) (roktdomain.Response, error) {
			clk.Advance(2 * time.Second)
			return roktdomain.Response{
				"data": []any{
					map[string]any{"campaign_id": "C1", "campaign_name": "Promo", "datetime": "2024-03-01T00:00:00", "impressions": 100.0},
					map[string]any{},
					map[string]any{"campaign_id": "C2", "datetime": "2024-03-02T00:00:00"},
				},
			}, nil
		})

	sink.EXPECT().Name().Return("fake").AnyTimes()
	gomock.InOrder(
		sink.EXPECT().Open(gomock.Any(), domain.StreamCampaignsBreakdown, domain.CampaignsBreakdownSchema(), domain.KeyProperties).Return(nil),
		sink.EXPECT().WriteRecord(gomock.Any(), "A1", gomock.Any()).
			Do(func(_ context.Context, _ string, record domain.MetricRecord) {
				assert.Equal(t, "C1", record.CampaignID())
				assert.Equal(t, "2024-03-01", record.Date())
			}).Return(nil),
		sink.EXPECT().WriteRecord(gomock.Any(), "A1", gomock.Any()).Return(nil),
		sink.EXPECT().Flush(gomock.Any()).Return(nil),
	)

	service := NewService(streamFactory(client, clk), []RecordSink{sink}, clk, log.Discard())
	result, err := service.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, result.RunID, 10)
	assert.Equal(t, "A1", result.AccountID)
	assert.Equal(t, "2024-03-01T00:00:00.000", result.StartDate)
	assert.Equal(t, "2024-03-02T23:59:59.000", result.EndDate)
	assert.Equal(t, 2, result.Emitted)
	assert.Equal(t, 1, result.Dropped)
	assert.Equal(t, 2*time.Second, result.Duration)
}

func TestRun_ErroDoClientPropaga(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	clk := clock.NewFake(referenceNow)
	client := roktmocks.NewMockClient(ctrl)
	sink := mocks.NewMockRecordSink(ctrl)

	client.EXPECT().Post(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, &roktdomain.AuthenticationError{StatusCode: 401, Body: "invalid_client"})

	sink.EXPECT().Name().Return("fake").AnyTimes()
	sink.EXPECT().Open(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	service := NewService(streamFactory(client, clk), []RecordSink{sink}, clk, log.Discard())
	result, err := service.Run(context.Background())

	assert.Nil(t, result)
	var authErr *roktdomain.AuthenticationError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, 401, authErr.StatusCode)
}

func TestRun_ErroNoSinkAbortaSemFlush(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	clk := clock.NewFake(referenceNow)
	client := roktmocks.NewMockClient(ctrl)
	sink := mocks.NewMockRecordSink(ctrl)

	client.EXPECT().Post(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(roktdomain.Response{"data": []any{
			map[string]any{"campaign_id": "C1", "datetime": "2024-03-01T00:00:00"},
			map[string]any{"campaign_id": "C2", "datetime": "2024-03-01T00:00:00"},
		}}, nil)

	sink.EXPECT().Name().Return("fake").AnyTimes()
	sink.EXPECT().Open(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	sink.EXPECT().WriteRecord(gomock.Any(), "A1", gomock.Any()).Return(errors.New("disco cheio"))

	service := NewService(streamFactory(client, clk), []RecordSink{sink}, clk, log.Discard())
	_, err := service.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disco cheio")
}

func TestRun_ErroAoMontarStream(t *testing.T) {
	service := NewService(func() (Streamer, error) {
		return nil, domain.ErrInvalidSyncWindow
	}, nil, clock.NewFake(referenceNow), log.Discard())

	_, err := service.Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidSyncWindow)
}

func TestRun_ComStreamerMock(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	window, err := domain.NewSyncWindow(domain.SyncWindowOptions{AccountID: "A1"}, referenceNow)
	require.NoError(t, err)

	streamer := mocks.NewMockStreamer(ctrl)
	streamer.EXPECT().Name().Return(domain.StreamCampaignsBreakdown).AnyTimes()
	streamer.EXPECT().Window().Return(window)
	streamer.EXPECT().Schema().Return(domain.CampaignsBreakdownSchema()).AnyTimes()
	streamer.EXPECT().ProduceRecords(gomock.Any()).Return(nil, &roktdomain.MalformedResponseError{Field: "data"})

	service := NewService(func() (Streamer, error) { return streamer, nil }, nil, clock.NewFake(referenceNow), log.Discard())
	_, err = service.Run(context.Background())

	var malformed *roktdomain.MalformedResponseError
	assert.True(t, errors.As(err, &malformed))
}

func TestRepositorySink(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := repomocks.NewMockCampaignMetricRepository(ctrl)
	sink := NewRepositorySink(repo, log.Discard())
	ctx := context.Background()

	records := []domain.MetricRecord{
		{"campaign_id": "C1", "date": "2024-03-01"},
		{"campaign_id": "C2", "date": "2024-03-01"},
	}

	repo.EXPECT().SaveOrUpdate(gomock.Any(), "A1", records).Return(int64(2), nil)

	require.NoError(t, sink.Open(ctx, domain.StreamCampaignsBreakdown, domain.Schema{}, nil))
	for _, r := range records {
		require.NoError(t, sink.WriteRecord(ctx, "A1", r))
	}
	require.NoError(t, sink.Flush(ctx))

	// buffer vazio após o flush: nenhuma nova gravação
	require.NoError(t, sink.Flush(ctx))
}

func TestRepositorySink_ErroNoRepositorio(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := repomocks.NewMockCampaignMetricRepository(ctrl)
	sink := NewRepositorySink(repo, log.Discard())
	ctx := context.Background()

	repo.EXPECT().SaveOrUpdate(gomock.Any(), "A1", gomock.Any()).Return(int64(0), errors.New("conexão recusada"))

	require.NoError(t, sink.WriteRecord(ctx, "A1", domain.MetricRecord{"campaign_id": "C1"}))
	err := sink.Flush(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conexão recusada")
}
