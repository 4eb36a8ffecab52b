// Package uploader submits JSON payloads to the durable storage network and
// maps node receipts onto the public receipt shape.
package uploader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"hush/internal/irys"

	log "github.com/sirupsen/logrus"
)

const (
	AppName     = "ZK-Confession"
	ContentType = "application/json"

	// MissingKeyMessage is returned when no signing key is configured.
	MissingKeyMessage = "IRYS_PRIVATE_KEY not found in environment"
)

// Receipt describes a stored item.
type Receipt struct {
	TxID        string `json:"tx_id"`
	GatewayURL  string `json:"gateway_url"`
	ExplorerURL string `json:"explorer_url"`
	Timestamp   int64  `json:"timestamp"`
	Verified    bool   `json:"verified"`
}

// Balance is the funded balance of the signing account.
type Balance struct {
	Raw       string `json:"balance"`
	Formatted string `json:"formatted"`
}

// Dialer opens a connection to the network for a private key.
type Dialer func(ctx context.Context, privateKey string) (irys.Network, error)

// Options configures a Client.
type Options struct {
	Dialer     Dialer
	PrivateKey func() string
	GatewayURL string
	Now        func() time.Time
}

// Client lazily connects to the network on first use and reuses the
// connection for every later call. A failed connection attempt is not
// remembered; the next call tries again.
type Client struct {
	dial       Dialer
	privateKey func() string
	gateway    string
	now        func() time.Time

	mu          sync.Mutex
	initialized bool
	network     irys.Network
}

// New returns a Client. Nothing is dialed until the first operation.
func New(opts Options) *Client {
	c := &Client{
		dial:       opts.Dialer,
		privateKey: opts.PrivateKey,
		gateway:    strings.TrimRight(opts.GatewayURL, "/"),
		now:        opts.Now,
	}
	if c.gateway == "" {
		c.gateway = irys.DefaultGatewayURL
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.privateKey == nil {
		c.privateKey = func() string { return "" }
	}
	return c
}

// NodeDialer returns a Dialer that connects to an Irys node.
func NodeDialer(nodeURL string, timeout time.Duration) Dialer {
	return func(ctx context.Context, key string) (irys.Network, error) {
		return irys.Dial(ctx, irys.Options{PrivateKey: key, NodeURL: nodeURL, Timeout: timeout})
	}
}

func (c *Client) ensure(ctx context.Context) (irys.Network, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return c.network, nil
	}
	key := c.privateKey()
	if key == "" {
		log.Error("Failed to initialize upload client: missing private key")
		return nil, &Error{Kind: KindInitialization, Message: MissingKeyMessage}
	}
	if c.dial == nil {
		return nil, &Error{Kind: KindInitialization, Message: "no network dialer configured"}
	}
	network, err := c.dial(ctx, key)
	if err != nil {
		log.WithError(err).Error("Failed to initialize upload client")
		return nil, newError(KindInitialization, err)
	}
	c.network = network
	c.initialized = true
	log.WithField("address", network.Address()).Info("Upload client initialized")
	return network, nil
}

// DefaultTags returns the tags placed before caller tags on every upload.
func (c *Client) DefaultTags() []irys.Tag {
	return []irys.Tag{
		{Name: "App", Value: AppName},
		{Name: "Content-Type", Value: ContentType},
		{Name: "Timestamp", Value: strconv.FormatInt(c.now().UnixMilli(), 10)},
	}
}

// Upload serializes data as JSON and stores it with the default tags
// followed by tags.
func (c *Client) Upload(ctx context.Context, data any, tags []irys.Tag) (*Receipt, error) {
	network, err := c.ensure(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return nil, newError(KindInput, fmt.Errorf("serialize payload: %w", err))
	}

	all := append(c.DefaultTags(), tags...)
	nr, err := network.Upload(ctx, payload, all)
	if err != nil {
		log.WithError(err).Error("Upload failed")
		return nil, newError(KindUpload, err)
	}
	if nr == nil || nr.ID == "" {
		return nil, newError(KindUpload, errors.New("node returned an empty receipt"))
	}

	url := c.gateway + "/" + nr.ID
	ts := nr.Timestamp
	if ts == 0 {
		ts = c.now().UnixMilli()
	}
	log.WithField("tx_id", nr.ID).Info("Upload successful")
	return &Receipt{
		TxID:        nr.ID,
		GatewayURL:  url,
		ExplorerURL: url,
		Timestamp:   ts,
		Verified:    true,
	}, nil
}

// Balance queries the account balance.
func (c *Client) Balance(ctx context.Context) (*Balance, error) {
	network, err := c.ensure(ctx)
	if err != nil {
		return nil, err
	}
	bal, err := network.Balance(ctx)
	if err != nil {
		return nil, newError(KindQuery, err)
	}
	return &Balance{Raw: bal.String(), Formatted: irys.FromAtomic(bal)}, nil
}

// Address returns the account address bound to the signing key.
func (c *Client) Address(ctx context.Context) (string, error) {
	network, err := c.ensure(ctx)
	if err != nil {
		return "", err
	}
	return network.Address(), nil
}
