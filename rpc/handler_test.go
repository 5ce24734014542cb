package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/f3rmion/fy-multisig/bjj"
	"github.com/f3rmion/fy-multisig/frost"
	"github.com/f3rmion/fy-multisig/logutil"
	"github.com/f3rmion/fy-multisig/multisig"
	"github.com/f3rmion/fy-multisig/wallet"
	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	calls   int
	err     error
	account string
	signers []string
}

func (f *fakeService) CreateParticipant(_ context.Context, name string) (string, error) {
	f.calls++
	return "id-" + name, f.err
}

func (f *fakeService) CreateSigningCommitment(_ context.Context, account, _ string, signers []string) (string, error) {
	f.calls++
	f.account, f.signers = account, signers
	return "c0", f.err
}

func (f *fakeService) CreateSigningPackage(context.Context, string, []string) (string, error) {
	f.calls++
	return "p0", f.err
}

func (f *fakeService) CreateSignatureShare(_ context.Context, account, _, _ string, signers []string) (string, error) {
	f.calls++
	f.account, f.signers = account, signers
	return "s0", f.err
}

func (f *fakeService) AggregateSignatureShares(context.Context, string, string, string, []string) (string, error) {
	f.calls++
	return "sig", f.err
}

func newServer(t *testing.T, svc Service) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	NewHandler(svc, logutil.Discard()).Routes(r)
	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, ts *httptest.Server, route, body string) (int, map[string]any) {
	t.Helper()
	resp, err := http.Post(ts.URL+"/wallet/multisig/"+route, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestValidRequests(t *testing.T) {
	svc := &fakeService{}
	ts := newServer(t, svc)

	code, out := post(t, ts, "createParticipant", `{"name":"alice"}`)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "id-alice", out["identity"])

	// trailing whitespace is not trailing data
	code, _ = post(t, ts, "createParticipant", "{\"name\":\"bob\"}\n ")
	require.Equal(t, http.StatusOK, code)

	code, out = post(t, ts, "createSignatureShare",
		`{"account":"acc","signingPackage":"aa","unsignedTransaction":"bb","signers":[{"identity":"01"},{"identity":"02"}]}`)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "s0", out["signatureShare"])
	require.Equal(t, "acc", svc.account)
	require.Equal(t, []string{"01", "02"}, svc.signers)

	code, out = post(t, ts, "createSignatureShare",
		`{"signingPackage":"aa","unsignedTransaction":"bb","signers":[{"identity":"01"}]}`)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "", svc.account)

	code, out = post(t, ts, "createSigningCommitment", `{"unsignedTransaction":"bb","signers":[{"identity":"01"}]}`)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "c0", out["commitment"])

	code, out = post(t, ts, "createSigningPackage", `{"unsignedTransaction":"bb","commitments":["01","02"]}`)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "p0", out["signingPackage"])

	code, out = post(t, ts, "aggregateSignatureShares",
		`{"signingPackage":"aa","unsignedTransaction":"bb","signatureShares":["01","02"]}`)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "sig", out["signature"])

	require.Equal(t, 6, svc.calls)
}

func TestMalformedRequestsNeverReachService(t *testing.T) {
	svc := &fakeService{}
	ts := newServer(t, svc)

	cases := []struct {
		route string
		body  string
	}{
		{"createParticipant", `{}`},
		{"createParticipant", `{"name":""}`},
		{"createParticipant", `{"name":"a","extra":1}`},
		{"createParticipant", `{"name":1}`},
		{"createParticipant", `not json`},
		{"createParticipant", `{"name":"a"}{"name":"b"}`},
		{"createParticipant", `{"name":"a"}}`},
		{"createParticipant", `{"name":"a"}]`},
		{"createSignatureShare", `{"unsignedTransaction":"bb","signers":[{"identity":"01"}]}`},
		{"createSignatureShare", `{"signingPackage":"aa","signers":[{"identity":"01"}]}`},
		{"createSignatureShare", `{"signingPackage":"aa","unsignedTransaction":"bb","signers":[]}`},
		{"createSignatureShare", `{"signingPackage":"aa","unsignedTransaction":"bb"}`},
		{"createSignatureShare", `{"signingPackage":"zz","unsignedTransaction":"bb","signers":[{"identity":"01"}]}`},
		{"createSignatureShare", `{"signingPackage":"aa","unsignedTransaction":"bb","signers":[{"identity":""}]}`},
		{"createSignatureShare", `{"signingPackage":"aa","unsignedTransaction":"bb","signers":[{"id":"01"}]}`},
		{"createSigningCommitment", `{"unsignedTransaction":"bb","signers":[]}`},
		{"createSigningPackage", `{"unsignedTransaction":"bb","commitments":["xyz"]}`},
		{"aggregateSignatureShares", `{"signingPackage":"aa","unsignedTransaction":"bb","signatureShares":[]}`},
	}
	for _, c := range cases {
		code, out := post(t, ts, c.route, c.body)
		assert.Equal(t, http.StatusBadRequest, code, "%s %s", c.route, c.body)
		assert.Equal(t, string(multisig.CodeValidation), out["code"], "%s %s", c.route, c.body)
	}
	require.Zero(t, svc.calls)
}

func TestServiceErrorCodes(t *testing.T) {
	cases := []struct {
		code   multisig.Code
		status int
	}{
		{multisig.CodeValidation, http.StatusBadRequest},
		{multisig.CodeDuplicateAccountName, http.StatusConflict},
		{multisig.CodeAccountNotFound, http.StatusNotFound},
		{multisig.CodeNotMultisigSigner, http.StatusPreconditionFailed},
		{multisig.CodeInternal, http.StatusInternalServerError},
	}
	for _, c := range cases {
		svc := &fakeService{err: &multisig.Error{Code: c.code, Err: errors.New("boom")}}
		ts := newServer(t, svc)
		status, out := post(t, ts, "createParticipant", `{"name":"alice"}`)
		assert.Equal(t, c.status, status)
		assert.Equal(t, string(c.code), out["code"])
		assert.Contains(t, out["message"], "boom")
	}
}

func TestWithMultisigService(t *testing.T) {
	ctx := context.Background()
	f := frost.New(&bjj.BJJ{})
	w, err := wallet.Open(ctx, wallet.NewMemoryStore(), f)
	require.NoError(t, err)
	ts := newServer(t, multisig.NewService(w, f, nil))

	code, out := post(t, ts, "createParticipant", `{"name":"alice"}`)
	require.Equal(t, http.StatusOK, code)
	identity, _ := out["identity"].(string)
	_, err = f.ParseIdentityHex(identity)
	require.NoError(t, err)

	code, out = post(t, ts, "createParticipant", `{"name":"alice"}`)
	require.Equal(t, http.StatusConflict, code)
	require.Equal(t, string(multisig.CodeDuplicateAccountName), out["code"])

	code, out = post(t, ts, "createSignatureShare",
		`{"account":"nobody","signingPackage":"aa","unsignedTransaction":"bb","signers":[{"identity":"`+identity+`"}]}`)
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, string(multisig.CodeAccountNotFound), out["code"])
}
