package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"math/big"
	"strings"
	"testing"

	"hush/internal/irys"
	"hush/internal/uploader"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubNetwork struct {
	uploads int
}

func (s *stubNetwork) Address() string { return "0x2c7536e3605d9c16a7a3d7b1898e529396a65c23" }

func (s *stubNetwork) Upload(context.Context, []byte, []irys.Tag) (*irys.NodeReceipt, error) {
	s.uploads++
	return &irys.NodeReceipt{ID: "tx-abc", Timestamp: 1700000000000}, nil
}

func (s *stubNetwork) Balance(context.Context) (*big.Int, error) {
	return big.NewInt(1000000000000000000), nil
}

type harness struct {
	dials   int
	network *stubNetwork
	client  *uploader.Client
}

func newHarness(key string) *harness {
	h := &harness{network: &stubNetwork{}}
	h.client = uploader.New(uploader.Options{
		Dialer: func(context.Context, string) (irys.Network, error) {
			h.dials++
			return h.network, nil
		},
		PrivateKey: func() string { return key },
		GatewayURL: "https://devnet.irys.xyz",
	})
	return h
}

func run(t *testing.T, h *harness, input string) map[string]any {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), strings.NewReader(input), &out, h.client))

	assert.Equal(t, 1, strings.Count(out.String(), "\n"))
	var resp map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	return resp
}

func TestRun_EmptyInput(t *testing.T) {
	for _, in := range []string{"", "   \n\t"} {
		h := newHarness("key")
		resp := run(t, h, in)
		assert.Equal(t, false, resp["success"])
		assert.Equal(t, "No input data received", resp["error"])
		assert.Equal(t, 0, h.dials)
	}
}

func TestRun_MalformedJSON(t *testing.T) {
	h := newHarness("key")
	resp := run(t, h, `{"action":`)
	assert.Equal(t, false, resp["success"])
	assert.NotEmpty(t, resp["error"])
	assert.Equal(t, "input", resp["kind"])
	assert.Equal(t, 0, h.dials)
}

func TestRun_UnknownActionTouchesNothing(t *testing.T) {
	h := newHarness("key")
	resp := run(t, h, `{"action":"bogus"}`)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "Unknown action", resp["error"])
	assert.Equal(t, 0, h.dials)
	assert.Equal(t, 0, h.network.uploads)
}

func TestRun_MissingCredential(t *testing.T) {
	h := newHarness("")
	resp := run(t, h, `{"action":"upload","data":{"content":"hi"}}`)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "IRYS_PRIVATE_KEY not found in environment", resp["error"])
	assert.Equal(t, "initialization", resp["kind"])
	assert.Equal(t, 0, h.dials)
}

func TestRun_Upload(t *testing.T) {
	h := newHarness("key")
	resp := run(t, h, `{"action":"upload","data":{"content":"hi"},"tags":[{"name":"Type","value":"confession"}]}`)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "tx-abc", resp["tx_id"])
	assert.Equal(t, "https://devnet.irys.xyz/tx-abc", resp["gateway_url"])
	assert.Equal(t, resp["gateway_url"], resp["explorer_url"])
	assert.Equal(t, true, resp["verified"])
	assert.Equal(t, float64(1700000000000), resp["timestamp"])
	assert.Equal(t, 1, h.network.uploads)
}

func TestRun_UploadWithoutData(t *testing.T) {
	h := newHarness("key")
	resp := run(t, h, `{"action":"upload"}`)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "No data provided for upload", resp["error"])
	assert.Equal(t, 0, h.network.uploads)
}

func TestRun_Balance(t *testing.T) {
	resp := run(t, newHarness("key"), `{"action":"balance"}`)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "1000000000000000000", resp["balance"])
	assert.Equal(t, "1", resp["formatted"])
}

func TestRun_Address(t *testing.T) {
	resp := run(t, newHarness("key"), `{"action":"address"}`)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "0x2c7536e3605d9c16a7a3d7b1898e529396a65c23", resp["address"])
}

func TestRequest_Operation(t *testing.T) {
	assert.IsType(t, uploadOp{}, Request{Action: ActionUpload}.operation())
	assert.IsType(t, balanceOp{}, Request{Action: ActionBalance}.operation())
	assert.IsType(t, addressOp{}, Request{Action: ActionAddress}.operation())
	assert.IsType(t, unknownOp{}, Request{Action: "UPLOAD"}.operation())
}
