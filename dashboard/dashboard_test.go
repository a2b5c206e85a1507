package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/civicdesk/models"
	"github.com/linesmerrill/civicdesk/notify"
)

type MockSource struct {
	mock.Mock
}

func (m *MockSource) OverviewStatistics(ctx context.Context) (models.StatisticsSnapshot, error) {
	ret := m.Called(ctx)
	return ret.Get(0).(models.StatisticsSnapshot), ret.Error(1)
}

func (m *MockSource) ResidentStatistics(ctx context.Context) (models.StatisticsSnapshot, error) {
	ret := m.Called(ctx)
	return ret.Get(0).(models.StatisticsSnapshot), ret.Error(1)
}

func TestLoadOverviewReplacesSnapshot(t *testing.T) {
	first := models.StatisticsSnapshot{TotalComplaints: 10, ResolvedComplaints: 4, PendingComplaints: 5, Announcements: 2, Users: 30}
	second := models.StatisticsSnapshot{TotalComplaints: 11}
	src := &MockSource{}
	src.On("OverviewStatistics", mock.Anything).Return(first, nil).Once()
	src.On("OverviewStatistics", mock.Anything).Return(second, nil).Once()

	s := New(src, nil, nil)
	_, ok := s.Snapshot()
	assert.False(t, ok)

	require.NoError(t, s.LoadOverview(context.Background()))
	got, ok := s.Snapshot()
	assert.True(t, ok)
	assert.Equal(t, first, got)

	require.NoError(t, s.LoadOverview(context.Background()))
	got, _ = s.Snapshot()
	assert.Equal(t, second, got, "no fields carried over from the previous snapshot")
	assert.False(t, s.FetchedAt().IsZero())
	src.AssertExpectations(t)
}

func TestFailedLoadKeepsPriorSnapshot(t *testing.T) {
	good := models.StatisticsSnapshot{TotalComplaints: 3, PendingComplaints: 3}
	src := &MockSource{}
	src.On("ResidentStatistics", mock.Anything).Return(good, nil).Once()
	src.On("ResidentStatistics", mock.Anything).Return(models.StatisticsSnapshot{TotalComplaints: 99}, errors.New("503")).Once()
	rec := &notify.Recorder{}

	s := New(src, rec, nil)
	require.NoError(t, s.LoadResident(context.Background()))
	assert.Error(t, s.Load(context.Background(), Resident))

	got, ok := s.Snapshot()
	assert.True(t, ok)
	assert.Equal(t, good, got)
	assert.EqualError(t, s.Err(), "503")
	assert.Equal(t, 1, rec.Count(notify.Error))
}

func TestScopeString(t *testing.T) {
	assert.Equal(t, "overview", Overview.String())
	assert.Equal(t, "resident", Resident.String())
}

func TestCloseDuringFetchDropsResult(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	src := &MockSource{}
	src.On("OverviewStatistics", mock.Anything).Return(models.StatisticsSnapshot{TotalComplaints: 8}, nil).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Once()
	rec := &notify.Recorder{}

	s := New(src, rec, nil)
	done := make(chan error, 1)
	go func() { done <- s.LoadOverview(context.Background()) }()

	<-started
	s.Close()
	close(release)
	require.NoError(t, <-done)

	_, ok := s.Snapshot()
	assert.False(t, ok)
	assert.True(t, s.FetchedAt().IsZero())

	require.NoError(t, s.LoadOverview(context.Background()))
	src.AssertNumberOfCalls(t, "OverviewStatistics", 1)
}

func TestLateFailureAfterCloseIsSilent(t *testing.T) {
	release := make(chan struct{})
	src := &MockSource{}
	src.On("ResidentStatistics", mock.Anything).Return(models.StatisticsSnapshot{}, errors.New("503")).Run(func(mock.Arguments) {
		<-release
	}).Once()
	rec := &notify.Recorder{}

	s := New(src, rec, nil)
	done := make(chan error, 1)
	go func() { done <- s.LoadResident(context.Background()) }()
	s.Close()
	close(release)
	require.NoError(t, <-done)

	assert.NoError(t, s.Err())
	assert.Zero(t, rec.Count(notify.Error))
}

func TestOlderLoadDoesNotOverwriteNewer(t *testing.T) {
	older := models.StatisticsSnapshot{TotalComplaints: 1}
	newer := models.StatisticsSnapshot{TotalComplaints: 2}
	started := make(chan struct{})
	release := make(chan struct{})
	src := &MockSource{}
	src.On("OverviewStatistics", mock.Anything).Return(older, nil).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Once()
	src.On("OverviewStatistics", mock.Anything).Return(newer, nil).Once()

	s := New(src, nil, nil)
	done := make(chan error, 1)
	go func() { done <- s.LoadOverview(context.Background()) }()
	<-started
	require.NoError(t, s.LoadOverview(context.Background()))
	close(release)
	require.NoError(t, <-done)

	got, _ := s.Snapshot()
	assert.Equal(t, newer, got)
}
