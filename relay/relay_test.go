package relay

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/f3rmion/fy-multisig/logutil"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRelay(t *testing.T, store Store) *Client {
	t.Helper()
	r := chi.NewRouter()
	NewServer(store, logutil.Discard()).Routes(r)
	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return NewClient(ts.URL)
}

func TestClientServer(t *testing.T) {
	ctx := context.Background()
	c := newRelay(t, NewMemoryStore(time.Hour))

	st, err := c.StartSession(ctx, 3, "abcd")
	require.NoError(t, err)
	require.NotEmpty(t, st.ID)
	require.Equal(t, 3, st.NumSigners)
	require.Equal(t, "abcd", st.UnsignedTransaction)

	joined, err := c.Join(ctx, st.ID)
	require.NoError(t, err)
	require.Equal(t, st.NumSigners, joined.NumSigners)
	require.Equal(t, st.UnsignedTransaction, joined.UnsignedTransaction)

	require.NoError(t, c.SubmitIdentity(ctx, st.ID, "id_0"))
	require.NoError(t, c.SubmitIdentity(ctx, st.ID, "id_1"))
	// resubmission is a no-op
	require.NoError(t, c.SubmitIdentity(ctx, st.ID, "id_0"))
	require.NoError(t, c.SubmitCommitment(ctx, st.ID, "c_0"))

	got, err := c.Status(ctx, st.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"id_0", "id_1"}, got.Identities)
	require.Equal(t, []string{"c_0"}, got.Commitments)
	require.Empty(t, got.SignatureShares)

	require.NoError(t, c.SubmitIdentity(ctx, st.ID, "id_2"))
	err = c.SubmitIdentity(ctx, st.ID, "id_3")
	require.ErrorIs(t, err, ErrSessionFull)

	require.NoError(t, c.SubmitSignatureShare(ctx, st.ID, "s_0"))

	// the session outlives the first participants to finish
	require.NoError(t, c.EndSession(ctx, st.ID, "id_0"))
	require.NoError(t, c.EndSession(ctx, st.ID, "id_1"))
	got, err = c.Status(ctx, st.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"id_0", "id_1"}, got.FinishedBy)

	require.NoError(t, c.EndSession(ctx, st.ID, "id_2"))
	_, err = c.Status(ctx, st.ID)
	require.ErrorIs(t, err, ErrSessionNotFound)
	require.ErrorIs(t, c.EndSession(ctx, st.ID, "id_2"), ErrSessionNotFound)
}

func TestEndSessionCountsParticipants(t *testing.T) {
	ctx := context.Background()
	c := newRelay(t, NewMemoryStore(time.Hour))

	st, err := c.StartSession(ctx, 3, "abcd")
	require.NoError(t, err)
	for _, id := range []string{"id_0", "id_1", "id_2"} {
		require.NoError(t, c.SubmitIdentity(ctx, st.ID, id))
	}

	// a rerun or a retried request ends the same participant again
	require.NoError(t, c.EndSession(ctx, st.ID, "id_0"))
	require.NoError(t, c.EndSession(ctx, st.ID, "id_0"))
	require.NoError(t, c.EndSession(ctx, st.ID, "id_1"))

	got, err := c.Status(ctx, st.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"id_0", "id_1"}, got.FinishedBy)

	require.ErrorIs(t, c.EndSession(ctx, st.ID, ""), ErrInvalidRequest)
	require.ErrorIs(t, c.EndSession(ctx, st.ID, "id_9"), ErrInvalidRequest)

	require.NoError(t, c.EndSession(ctx, st.ID, "id_2"))
	_, err = c.Status(ctx, st.ID)
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestServerRejectsBadRequests(t *testing.T) {
	ctx := context.Background()
	c := newRelay(t, NewMemoryStore(0))

	_, err := c.StartSession(ctx, 1, "abcd")
	require.ErrorIs(t, err, ErrInvalidRequest)
	_, err = c.StartSession(ctx, 2, "")
	require.ErrorIs(t, err, ErrInvalidRequest)

	st, err := c.StartSession(ctx, 2, "abcd")
	require.NoError(t, err)
	_, err = c.Submit(ctx, st.ID, KindCommitments, "")
	require.ErrorIs(t, err, ErrInvalidRequest)

	_, err = c.Join(ctx, "missing")
	require.ErrorIs(t, err, ErrSessionNotFound)

	resp, err := http.Post(c.Base+"/sessions/"+st.ID+"/bogus", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	req, err := http.NewRequest(http.MethodPost, c.Base+"/sessions", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestConnectionString(t *testing.T) {
	c := NewClient("https://relay.example.com:8443/")
	cs := c.ConnectionString("0b9c6a1e-2f1d-4e5b-9f44-6b0c8f6a1d2e")
	require.Equal(t, "https://relay.example.com:8443/sessions/0b9c6a1e-2f1d-4e5b-9f44-6b0c8f6a1d2e", cs)

	base, id, err := ParseConnectionString(cs)
	require.NoError(t, err)
	require.Equal(t, "https://relay.example.com:8443", base)
	require.Equal(t, "0b9c6a1e-2f1d-4e5b-9f44-6b0c8f6a1d2e", id)

	base, id, err = ParseConnectionString("http://host/relay/sessions/abc")
	require.NoError(t, err)
	require.Equal(t, "http://host/relay", base)
	require.Equal(t, "abc", id)

	for _, bad := range []string{
		"ftp://host/sessions/abc",
		"http://host/sessions/",
		"http://host/other/abc",
		"http://host/sessions/abc/identities",
	} {
		_, _, err := ParseConnectionString(bad)
		require.Error(t, err, bad)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1000, 0)
	m := NewMemoryStore(time.Minute)
	m.now = func() time.Time { return now }

	require.NoError(t, m.Create(ctx, &Status{ID: "a", NumSigners: 2}))
	now = now.Add(30 * time.Second)
	_, err := m.Append(ctx, "a", KindIdentities, "x")
	require.NoError(t, err)

	// the append refreshed the deadline
	now = now.Add(45 * time.Second)
	_, err = m.Get(ctx, "a")
	require.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = m.Get(ctx, "a")
	require.ErrorIs(t, err, ErrSessionNotFound)
	require.Equal(t, 1, m.Sweep())
}

func testStore(t *testing.T, store Store) {
	ctx := context.Background()
	id := uuid.NewString()

	require.NoError(t, store.Create(ctx, &Status{ID: id, NumSigners: 3, UnsignedTransaction: "tx"}))
	require.Error(t, store.Create(ctx, &Status{ID: id, NumSigners: 3}))

	var wg sync.WaitGroup
	for _, v := range []string{"a", "b", "c", "a", "b"} {
		wg.Add(1)
		go func(v string) {
			defer wg.Done()
			_, err := store.Append(ctx, id, KindCommitments, v)
			assert.NoError(t, err)
		}(v)
	}
	wg.Wait()

	st, err := store.Get(ctx, id)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a", "b", "c"}, st.Commitments)
	require.Equal(t, "tx", st.UnsignedTransaction)

	_, err = store.Append(ctx, id, KindCommitments, "d")
	require.ErrorIs(t, err, ErrSessionFull)
	_, err = store.Append(ctx, id, Kind("bogus"), "d")
	require.ErrorIs(t, err, ErrInvalidRequest)
	_, err = store.Append(ctx, "missing-"+id, KindCommitments, "d")
	require.ErrorIs(t, err, ErrSessionNotFound)

	for _, v := range []string{"a", "b", "c"} {
		_, err = store.Append(ctx, id, KindIdentities, v)
		require.NoError(t, err)
	}

	require.NoError(t, store.Finish(ctx, id, "a"))
	require.NoError(t, store.Finish(ctx, id, "a"))
	require.NoError(t, store.Finish(ctx, id, "b"))
	st, err = store.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, st.FinishedBy)
	require.ErrorIs(t, store.Finish(ctx, id, "x"), ErrInvalidRequest)

	require.NoError(t, store.Finish(ctx, id, "c"))
	_, err = store.Get(ctx, id)
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore(time.Minute))
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("FYRELAY_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("FYRELAY_TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	testStore(t, NewRedisStore(client, time.Minute))
}
