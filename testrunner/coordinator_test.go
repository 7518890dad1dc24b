package testrunner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authcheck-cli/testreport"
)

type recordingObserver struct {
	mu        sync.Mutex
	reports   []*testreport.Report
	storeErrs []error
	err       error
}

func (o *recordingObserver) ObserveReport(ctx context.Context, report *testreport.Report) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.reports = append(o.reports, report)
	return o.err
}

func (o *recordingObserver) ObserveStoreError(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.storeErrs = append(o.storeErrs, err)
}

type failingStore struct{}

func (failingStore) Save(*testreport.Report) error { return errors.New("disk full") }
func (failingStore) LoadLatest() (*testreport.Report, error) {
	return nil, testreport.ErrNoReport
}

func TestCoordinator_Trigger_PersistsAndNotifies(t *testing.T) {
	dir := t.TempDir()
	store := testreport.NewFileStore(filepath.Join(dir, "report.json"))
	observer := &recordingObserver{err: errors.New("observer trouble")}
	registry := StaticRegistry{
		{Name: "ok", Group: "g", Unit: func() error { return nil }},
		{Name: "skip", Group: "g", Unit: func() error { return Skip("reason X") }},
	}

	c := NewCoordinator(newTestRunner(DefaultTimeout), registry, store, zerolog.Nop(),
		WithObservers(observer), WithLockFile(filepath.Join(dir, "report.json.lock")))

	report, err := c.Trigger(context.Background())
	require.NoError(t, err, "observer errors must not fail the run")

	loaded, err := c.Latest()
	require.NoError(t, err)
	assert.Equal(t, report, loaded)
	require.Len(t, observer.reports, 1)
	assert.Same(t, report, observer.reports[0])
	assert.Equal(t, "reason X", report.Results[1].Message)
}

func TestCoordinator_Trigger_EmptyRunIsStillPersisted(t *testing.T) {
	store := testreport.NewFileStore(filepath.Join(t.TempDir(), "report.json"))
	c := NewCoordinator(newTestRunner(DefaultTimeout), StaticRegistry{}, store, zerolog.Nop())

	_, err := c.Trigger(context.Background())
	require.NoError(t, err)

	_, statErr := os.Stat(store.Path())
	require.NoError(t, statErr)

	loaded, err := store.LoadLatest()
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Stats.Total)
}

func TestCoordinator_Trigger_StoreFailureSurfaces(t *testing.T) {
	observer := &recordingObserver{}
	c := NewCoordinator(newTestRunner(DefaultTimeout), StaticRegistry{}, failingStore{}, zerolog.Nop(),
		WithObservers(observer))

	report, err := c.Trigger(context.Background())

	assert.Nil(t, report)
	assert.EqualError(t, err, "disk full")
	assert.Empty(t, observer.reports)
	assert.Len(t, observer.storeErrs, 1)
}

func TestCoordinator_Trigger_RegistryFailure(t *testing.T) {
	store := testreport.NewFileStore(filepath.Join(t.TempDir(), "report.json"))
	registry := RegistryFunc(func() ([]Case, error) { return nil, errors.New("bad suite file") })
	c := NewCoordinator(newTestRunner(DefaultTimeout), registry, store, zerolog.Nop())

	_, err := c.Trigger(context.Background())

	assert.ErrorContains(t, err, "bad suite file")
	_, loadErr := store.LoadLatest()
	assert.ErrorIs(t, loadErr, testreport.ErrNoReport)
}

func TestCoordinator_Trigger_ConcurrentRunsAreSerialized(t *testing.T) {
	dir := t.TempDir()
	store := testreport.NewFileStore(filepath.Join(dir, "report.json"))

	var mu sync.Mutex
	active, maxActive := 0, 0
	unit := func() error {
		mu.Lock()
		active++
		if active > maxActive {
			maxActive = active
		}
		mu.Unlock()

		mu.Lock()
		active--
		mu.Unlock()
		return nil
	}
	registry := StaticRegistry{{Name: "a", Group: "g", Unit: unit}, {Name: "b", Group: "g", Unit: unit}}
	c := NewCoordinator(newTestRunner(DefaultTimeout), registry, store, zerolog.Nop(),
		WithLockFile(filepath.Join(dir, "run.lock")))

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Trigger(context.Background())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 1, maxActive)

	loaded, err := store.LoadLatest()
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Stats.Total)
}
