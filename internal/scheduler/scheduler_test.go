package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/quantum-leap/backend/pkg/logger"
)

type stubJob struct {
	name     string
	schedule string
}

func (j *stubJob) Name() string             { return j.name }
func (j *stubJob) Schedule() string         { return j.schedule }
func (j *stubJob) Run(context.Context) error { return nil }

func TestAddJob(t *testing.T) {
	s := New(logger.Nop())

	err := s.AddJob(&stubJob{name: "alert_scan", schedule: "0 0 * * * *"})
	require.NoError(t, err)
	assert.Equal(t, []string{"alert_scan"}, s.GetAllJobs())

	// 중복 등록 거부
	err = s.AddJob(&stubJob{name: "alert_scan", schedule: "0 0 * * * *"})
	assert.Error(t, err)
}

func TestAddJob_InvalidSchedule(t *testing.T) {
	s := New(logger.Nop())
	err := s.AddJob(&stubJob{name: "bad", schedule: "not a schedule"})
	assert.Error(t, err)
}

func TestRunJob_Unknown(t *testing.T) {
	s := New(logger.Nop())
	assert.Error(t, s.RunJob("missing"))
}

func TestJobHistory(t *testing.T) {
	h := &JobHistory{}

	h.AddResult(JobResult{JobName: "alert_scan", Success: true})
	h.AddResult(JobResult{JobName: "alert_scan", Success: false, Error: "boom"})
	h.AddResult(JobResult{JobName: "alert_scan", Success: true})

	assert.InDelta(t, 2.0/3.0, h.GetSuccessRate(), 0.001)

	latest := h.GetLatestResults(2)
	require.Len(t, latest, 2)
	assert.False(t, latest[0].Success)
	assert.True(t, latest[1].Success)

	assert.Empty(t, (&JobHistory{}).GetLatestResults(5))
	assert.Equal(t, 0.0, (&JobHistory{}).GetSuccessRate())
}

func TestJobHistory_Capped(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < 150; i++ {
		h.AddResult(JobResult{Success: true})
	}
	assert.Len(t, h.Results, 100)
}
