// Package adapter implements the one-shot JSON request/response protocol
// used by other processes to reach the upload client: one request on stdin,
// one JSON line on stdout.
package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"hush/internal/irys"
	"hush/internal/uploader"
)

// Action names an adapter operation.
type Action string

const (
	ActionUpload  Action = "upload"
	ActionBalance Action = "balance"
	ActionAddress Action = "address"
)

const (
	msgNoInput       = "No input data received"
	msgUnknownAction = "Unknown action"
	msgMissingData   = "No data provided for upload"
)

// Request is the stdin document.
type Request struct {
	Action Action          `json:"action"`
	Data   json.RawMessage `json:"data,omitempty"`
	Tags   []irys.Tag      `json:"tags,omitempty"`
}

// Response is the stdout document. Only the fields relevant to the
// operation are set.
type Response struct {
	Success bool `json:"success"`

	TxID        string `json:"tx_id,omitempty"`
	GatewayURL  string `json:"gateway_url,omitempty"`
	ExplorerURL string `json:"explorer_url,omitempty"`
	Timestamp   int64  `json:"timestamp,omitempty"`
	Verified    bool   `json:"verified,omitempty"`

	Balance   string `json:"balance,omitempty"`
	Formatted string `json:"formatted,omitempty"`

	Address string `json:"address,omitempty"`

	Error string        `json:"error,omitempty"`
	Kind  uploader.Kind `json:"kind,omitempty"`
}

// Service is the subset of the upload client the adapter drives.
type Service interface {
	Upload(ctx context.Context, data any, tags []irys.Tag) (*uploader.Receipt, error)
	Balance(ctx context.Context) (*uploader.Balance, error)
	Address(ctx context.Context) (string, error)
}

// operation is implemented by exactly one type per action.
type operation interface {
	run(ctx context.Context, svc Service) Response
}

type uploadOp struct {
	data json.RawMessage
	tags []irys.Tag
}

type balanceOp struct{}

type addressOp struct{}

type unknownOp struct{}

func (r Request) operation() operation {
	switch r.Action {
	case ActionUpload:
		return uploadOp{data: r.Data, tags: r.Tags}
	case ActionBalance:
		return balanceOp{}
	case ActionAddress:
		return addressOp{}
	default:
		return unknownOp{}
	}
}

func (op uploadOp) run(ctx context.Context, svc Service) Response {
	if len(op.data) == 0 || bytes.Equal(bytes.TrimSpace(op.data), []byte("null")) {
		return failure(&uploader.Error{Kind: uploader.KindInput, Message: msgMissingData})
	}
	receipt, err := svc.Upload(ctx, op.data, op.tags)
	if err != nil {
		return failure(err)
	}
	return Response{
		Success:     true,
		TxID:        receipt.TxID,
		GatewayURL:  receipt.GatewayURL,
		ExplorerURL: receipt.ExplorerURL,
		Timestamp:   receipt.Timestamp,
		Verified:    receipt.Verified,
	}
}

func (balanceOp) run(ctx context.Context, svc Service) Response {
	bal, err := svc.Balance(ctx)
	if err != nil {
		return failure(err)
	}
	return Response{Success: true, Balance: bal.Raw, Formatted: bal.Formatted}
}

func (addressOp) run(ctx context.Context, svc Service) Response {
	addr, err := svc.Address(ctx)
	if err != nil {
		return failure(err)
	}
	return Response{Success: true, Address: addr}
}

func (unknownOp) run(context.Context, Service) Response {
	return Response{Error: msgUnknownAction, Kind: uploader.KindInput}
}

func failure(err error) Response {
	kind := uploader.KindOf(err)
	if kind == "" {
		kind = uploader.KindUpload
	}
	return Response{Error: err.Error(), Kind: kind}
}

// Handle turns raw input into a response. It never returns an error;
// every failure becomes an unsuccessful Response.
func Handle(ctx context.Context, input []byte, svc Service) Response {
	if len(bytes.TrimSpace(input)) == 0 {
		return Response{Error: msgNoInput, Kind: uploader.KindInput}
	}
	var req Request
	if err := json.Unmarshal(input, &req); err != nil {
		return Response{Error: err.Error(), Kind: uploader.KindInput}
	}
	return req.operation().run(ctx, svc)
}

// Run reads the whole of in, handles it and writes exactly one JSON line to
// out. The returned error only reports I/O failures on out.
func Run(ctx context.Context, in io.Reader, out io.Writer, svc Service) error {
	input, err := io.ReadAll(in)
	var resp Response
	if err != nil {
		resp = Response{Error: fmt.Sprintf("read input: %v", err), Kind: uploader.KindInput}
	} else {
		resp = Handle(ctx, input, svc)
	}
	return Write(out, resp)
}

// Write encodes resp as a single JSON line.
func Write(out io.Writer, resp Response) error {
	line, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	line = append(line, '\n')
	if _, err := out.Write(line); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}
