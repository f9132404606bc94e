package refreshable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTriggerStrategies(t *testing.T) {
	t.Parallel()

	for _, current := range []testData{initial, pending, failcur, succcur} {
		p := FromRemoteData(current)
		assert.False(t, NeverTrigger(p))
		assert.True(t, AlwaysTrigger(p))
		assert.Equal(t, current.IsInitial(), TriggerIfInitial(p), current.String())
		assert.Equal(t, current.IsFailure(), TriggerIfFailure(p), current.String())
	}
}

func TestAsNonBlockingAccessStrategy(t *testing.T) {
	t.Parallel()

	p := FromRemoteData(failcur)
	assert.Equal(t, TriggerRefreshAndUseCurrent, AsNonBlockingAccessStrategy(TriggerIfFailure[string, string])(p))
	assert.Equal(t, UseCurrent, AsNonBlockingAccessStrategy(TriggerIfInitial[string, string])(p))
	assert.Equal(t, UseCurrent, JustReturn(p))
}

func TestWaitWhileUnsettled(t *testing.T) {
	t.Parallel()

	access := WaitWhileUnsettled(AsNonBlockingAccessStrategy(TriggerIfFailure[string, string]))
	assert.Equal(t, WaitForRefresh, access(FromRemoteData(initial)))
	assert.Equal(t, WaitForRefresh, access(testPair{Current: pending, Request: RequestPending}))
	assert.Equal(t, TriggerRefreshAndUseCurrent, access(FromRemoteData(failcur)))
	assert.Equal(t, UseCurrent, access(FromRemoteData(succcur)))
}

func TestAccessStrategyFromTriggerStrategyAndWaitPredicate(t *testing.T) {
	t.Parallel()

	access := AccessStrategyFromTriggerStrategyAndWaitPredicate(TriggerIfFailure[string, string], IsUnsettled[string, string])
	assert.Equal(t, WaitForRefresh, access(FromRemoteData(initial)))
	assert.Equal(t, WaitForRefresh, access(testPair{Current: pending, Request: RequestPending}))
	assert.Equal(t, TriggerRefreshAndUseCurrent, access(FromRemoteData(failcur)))
	assert.Equal(t, TriggerRefreshAndUseCurrent, access(testPair{Current: failcur, Request: RequestPending}))
	assert.Equal(t, UseCurrent, access(FromRemoteData(succcur)))

	neverWait := AccessStrategyFromTriggerStrategyAndWaitPredicate(AlwaysTrigger[string, string],
		func(testPair) bool { return false })
	assert.Equal(t, TriggerRefreshAndUseCurrent, neverWait(FromRemoteData(initial)))
}
