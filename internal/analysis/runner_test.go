package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"export-pilot/constants"
	"export-pilot/internal/common"
	"export-pilot/internal/repository"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestRunner(t *testing.T) (*Runner, repository.RunRepository) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := repository.Open(context.Background(), repository.Config{DSN: dsn, MaxOpenConns: 1}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	runs := repository.NewRunRepository(db, nil)
	return NewRunner(runs, nil, WithTiming(50, time.Millisecond, 0)), runs
}

func waitDone(t *testing.T, r *Runner) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, r.Wait(ctx))
}

func TestStartCompletesRun(t *testing.T) {
	runner, runs := newTestRunner(t)
	projectID := uuid.New()

	run, err := runner.Start(context.Background(), projectID, constants.RunKindDiagnosis, constants.MarketEU,
		func(ctx context.Context) (json.RawMessage, error) {
			return json.RawMessage(`{"score":90}`), nil
		})
	require.NoError(t, err)
	assert.Equal(t, constants.RunStatusRunning, run.Status)

	waitDone(t, runner)

	got, err := runs.GetByID(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.RunStatusComplete, got.Status)
	assert.Equal(t, 100, got.Progress)
	assert.JSONEq(t, `{"score":90}`, string(got.Result))
}

func TestStartFailurePersistsCause(t *testing.T) {
	runner, runs := newTestRunner(t)

	run, err := runner.Start(context.Background(), uuid.New(), constants.RunKindDocs, constants.MarketEU,
		func(ctx context.Context) (json.RawMessage, error) {
			return nil, errors.New("boom")
		})
	require.NoError(t, err)

	waitDone(t, runner)

	got, err := runs.GetByID(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.RunStatusFailed, got.Status)
	assert.Equal(t, "boom", got.Error)
}

func TestStartRejectsConcurrentSameKind(t *testing.T) {
	runner, _ := newTestRunner(t)
	projectID := uuid.New()

	release := make(chan struct{})
	_, err := runner.Start(context.Background(), projectID, constants.RunKindLabs, constants.MarketEU,
		func(ctx context.Context) (json.RawMessage, error) {
			<-release
			return json.RawMessage(`{}`), nil
		})
	require.NoError(t, err)

	_, err = runner.Start(context.Background(), projectID, constants.RunKindLabs, constants.MarketEU,
		func(ctx context.Context) (json.RawMessage, error) {
			return json.RawMessage(`{}`), nil
		})
	assert.ErrorIs(t, err, common.ErrRunActive)

	// A different kind on the same project is fine.
	_, err = runner.Start(context.Background(), projectID, constants.RunKindDocs, constants.MarketEU,
		func(ctx context.Context) (json.RawMessage, error) {
			return json.RawMessage(`{}`), nil
		})
	assert.NoError(t, err)

	close(release)
	waitDone(t, runner)

	// The slot frees once the first run finished.
	_, err = runner.Start(context.Background(), projectID, constants.RunKindLabs, constants.MarketEU,
		func(ctx context.Context) (json.RawMessage, error) {
			return json.RawMessage(`{}`), nil
		})
	assert.NoError(t, err)
	waitDone(t, runner)
}
