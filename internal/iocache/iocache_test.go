package iocache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// TestManagerZeroValue verifies that an uninitialized manager returns nil
// stores instead of panicking.
func TestManagerZeroValue(t *testing.T) {
	m := &CacheStoreManager{}
	assert.Nil(t, m.GetReportStore())
	assert.Nil(t, m.GetAnalysisStore())
}

func TestMockCacheManager(t *testing.T) {
	mgr := &MockCacheManager{}
	reportStore := &MockCacheStore{}
	analysisStore := &MockAnalysisStore{}

	mgr.On("GetReportStore").Return(reportStore)
	mgr.On("GetAnalysisStore").Return(analysisStore)

	assert.Equal(t, reportStore, mgr.GetReportStore())
	assert.Equal(t, analysisStore, mgr.GetAnalysisStore())
	mgr.AssertExpectations(t)
}

func TestMockAnalysisStoreFlow(t *testing.T) {
	store := &MockAnalysisStore{}
	start := time.Now()

	store.On("BeginAnalysis", "report", start, mock.Anything).Return(int64(7), nil)
	store.On("EndAnalysis", int64(7), mock.Anything, 3).Return(nil)

	id, err := store.BeginAnalysis("report", start, map[string]any{"limit": 10})
	assert.NoError(t, err)
	assert.Equal(t, int64(7), id)

	assert.NoError(t, store.EndAnalysis(id, time.Now(), 3))
	store.AssertExpectations(t)
}
