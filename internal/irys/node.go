// Package irys talks to an Irys bundler node: it signs ANS-104 data items
// with an Ethereum key and posts them over HTTP.
package irys

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultNodeURL    = "https://devnet.irys.xyz"
	DefaultGatewayURL = "https://devnet.irys.xyz"
	DefaultTimeout    = 30 * time.Second

	token = "ethereum"
)

// NodeReceipt is what the node returns for an accepted data item.
type NodeReceipt struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
}

// Network is the upload service as seen by the rest of the program.
type Network interface {
	Address() string
	Upload(ctx context.Context, data []byte, tags []Tag) (*NodeReceipt, error)
	Balance(ctx context.Context) (*big.Int, error)
}

// Options configures Dial.
type Options struct {
	PrivateKey string
	NodeURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Node is the HTTP implementation of Network.
type Node struct {
	baseURL string
	signer  *Signer
	http    *http.Client
}

// Dial builds a Node for the given key. It performs no network I/O.
func Dial(_ context.Context, opts Options) (Network, error) {
	signer, err := NewSigner(opts.PrivateKey)
	if err != nil {
		return nil, err
	}
	base := opts.NodeURL
	if base == "" {
		base = DefaultNodeURL
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Node{
		baseURL: strings.TrimRight(base, "/"),
		signer:  signer,
		http:    client,
	}, nil
}

func (n *Node) Address() string { return n.signer.Address() }

// Upload signs data with tags and posts the resulting data item.
func (n *Node) Upload(ctx context.Context, data []byte, tags []Tag) (*NodeReceipt, error) {
	item, err := NewDataItem(n.signer, data, tags)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+"/tx/"+token, bytes.NewReader(item.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	var receipt NodeReceipt
	if err := n.do(req, &receipt); err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}
	if receipt.ID == "" {
		receipt.ID = item.ID()
	}
	log.WithFields(log.Fields{"id": receipt.ID, "bytes": len(data)}).Debug("Data item accepted by node")
	return &receipt, nil
}

// Balance returns the funded balance of the signer's address in wei.
func (n *Node) Balance(ctx context.Context) (*big.Int, error) {
	u := fmt.Sprintf("%s/account/balance/%s?address=%s", n.baseURL, token, url.QueryEscape(n.signer.Address()))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build balance request: %w", err)
	}

	var body struct {
		Balance json.Number `json:"balance"`
	}
	if err := n.do(req, &body); err != nil {
		return nil, fmt.Errorf("balance: %w", err)
	}
	bal, ok := new(big.Int).SetString(body.Balance.String(), 10)
	if !ok {
		return nil, fmt.Errorf("balance: unexpected value %q", body.Balance)
	}
	return bal, nil
}

func (n *Node) do(req *http.Request, out any) error {
	resp, err := n.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("node returned %d: %s", resp.StatusCode, msg)
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

var _ Network = (*Node)(nil)
