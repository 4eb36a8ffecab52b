package irys

import (
	"context"
	"encoding/binary"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func dialTest(t *testing.T, url string) (*Node, *http.Client) {
	t.Helper()
	client := &http.Client{}
	n, err := Dial(context.Background(), Options{PrivateKey: testKey, NodeURL: url + "/", HTTPClient: client})
	require.NoError(t, err)
	return n.(*Node), client
}

func TestNode_Upload(t *testing.T) {
	defer goleak.VerifyNone(t)

	var got []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/tx/ethereum", r.URL.Path)
		assert.Equal(t, "application/octet-stream", r.Header.Get("Content-Type"))
		got, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"abc123","timestamp":1700000000000}`)
	}))
	defer srv.Close()

	n, client := dialTest(t, srv.URL)
	defer client.CloseIdleConnections()

	receipt, err := n.Upload(context.Background(), []byte("payload"), []Tag{{Name: "App", Value: "hush"}})
	require.NoError(t, err)
	assert.Equal(t, "abc123", receipt.ID)
	assert.Equal(t, int64(1700000000000), receipt.Timestamp)

	require.Greater(t, len(got), 182)
	assert.Equal(t, uint16(SignatureTypeEthereum), binary.LittleEndian.Uint16(got[:2]))
	assert.Equal(t, "payload", string(got[len(got)-len("payload"):]))
}

func TestNode_UploadRejected(t *testing.T) {
	defer goleak.VerifyNone(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not enough balance for transaction", http.StatusPaymentRequired)
	}))
	defer srv.Close()

	n, client := dialTest(t, srv.URL)
	defer client.CloseIdleConnections()

	_, err := n.Upload(context.Background(), []byte("payload"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "402")
	assert.Contains(t, err.Error(), "Not enough balance")
}

func TestNode_Balance(t *testing.T) {
	defer goleak.VerifyNone(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/account/balance/ethereum", r.URL.Path)
		assert.Equal(t, "0x2c7536e3605d9c16a7a3d7b1898e529396a65c23", r.URL.Query().Get("address"))
		_, _ = io.WriteString(w, `{"balance":"1500000000000000000"}`)
	}))
	defer srv.Close()

	n, client := dialTest(t, srv.URL)
	defer client.CloseIdleConnections()

	bal, err := n.Balance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.5", FromAtomic(bal))
}

func TestNode_BalanceMalformed(t *testing.T) {
	defer goleak.VerifyNone(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `not json`)
	}))
	defer srv.Close()

	n, client := dialTest(t, srv.URL)
	defer client.CloseIdleConnections()

	_, err := n.Balance(context.Background())
	assert.ErrorContains(t, err, "decode response")
}

func TestDial_NoNetworkIO(t *testing.T) {
	n, err := Dial(context.Background(), Options{PrivateKey: testKey, NodeURL: "http://127.0.0.1:1"})
	require.NoError(t, err)
	assert.Equal(t, "0x2c7536e3605d9c16a7a3d7b1898e529396a65c23", n.Address())

	_, err = Dial(context.Background(), Options{PrivateKey: ""})
	assert.Error(t, err)
}
