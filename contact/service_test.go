package contact

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contactus-backend/database"
	"contactus-backend/models"
)

type failingStore struct {
	database.ContactStore
	err   error
	calls int
}

func (s *failingStore) Append(context.Context, *models.ContactSubmission) (uint64, error) {
	s.calls++
	return 0, s.err
}

type panickingStore struct{ database.ContactStore }

func (panickingStore) Append(context.Context, *models.ContactSubmission) (uint64, error) {
	panic("boom")
}

func TestSubmit_Accepted(t *testing.T) {
	store := database.NewMemoryStore()
	svc := NewService(store)

	before := time.Now().UTC()
	res := svc.Submit(context.Background(), validInput())
	require.Equal(t, Accepted, res.Outcome, "err: %v", res.Err)
	require.NotNil(t, res.Submission)
	assert.NotZero(t, res.Submission.ID)

	got, err := store.Get(context.Background(), res.Submission.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, "Test message", got.Inquiry)
	assert.False(t, got.CreatedAt.Before(before))
	assert.WithinDuration(t, time.Now(), got.CreatedAt, 5*time.Second)
}

func TestSubmit_RejectedSkipsStore(t *testing.T) {
	store := &failingStore{err: errors.New("must not be called")}
	res := NewService(store).Submit(context.Background(), map[string]any{"name": "Alice"})

	assert.Equal(t, Rejected, res.Outcome)
	assert.True(t, res.Errors.Has("email"))
	assert.Zero(t, store.calls)
}

func TestSubmit_StorageFault(t *testing.T) {
	store := &failingStore{err: &database.StorageError{Op: "append", Err: errors.New("disk full")}}
	res := NewService(store).Submit(context.Background(), validInput())

	assert.Equal(t, Faulted, res.Outcome)
	assert.Equal(t, FaultStorage, res.Fault)
	assert.ErrorContains(t, res.Err, "disk full")
	assert.Nil(t, res.Errors)
	assert.Equal(t, 1, store.calls, "no retries")
}

func TestSubmit_UnexpectedFault(t *testing.T) {
	res := NewService(&failingStore{err: errors.New("weird")}).Submit(context.Background(), validInput())
	assert.Equal(t, Faulted, res.Outcome)
	assert.Equal(t, FaultUnexpected, res.Fault)

	res = NewService(panickingStore{}).Submit(context.Background(), validInput())
	assert.Equal(t, Faulted, res.Outcome)
	assert.Equal(t, FaultUnexpected, res.Fault)
	assert.ErrorContains(t, res.Err, "boom")
}

func TestSubmit_ConcurrentSubmissionsGetDistinctIDs(t *testing.T) {
	svc := NewService(database.NewMemoryStore())

	var wg sync.WaitGroup
	results := make([]Result, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = svc.Submit(context.Background(), validInput())
		}(i)
	}
	wg.Wait()

	require.Equal(t, Accepted, results[0].Outcome)
	require.Equal(t, Accepted, results[1].Outcome)
	assert.NotEqual(t, results[0].Submission.ID, results[1].Submission.ID)
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "accepted", Accepted.String())
	assert.Equal(t, "rejected", Rejected.String())
	assert.Equal(t, "faulted", Faulted.String())
	assert.Equal(t, "unknown", Outcome(0).String())
}
