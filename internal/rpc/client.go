package rpc

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/RowanDark/monocrack/internal/cipher"
	"github.com/RowanDark/monocrack/internal/crack"
)

// Client is a typed client for a remote Cracker service.
type Client struct {
	conn   *grpc.ClientConn
	client CrackerClient
}

// Dial connects to the Cracker service at addr. The connection is
// established lazily on the first call.
func Dial(addr string, opts ...grpc.DialOption) (*Client, error) {
	if addr == "" {
		return nil, errors.New("server address must be provided")
	}
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return &Client{conn: conn, client: NewCrackerClient(conn)}, nil
}

// Close tears down the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Crack runs req remotely and returns the result and the server's run id.
func (c *Client) Crack(ctx context.Context, req crack.Request) (crack.Result, string, error) {
	in, err := toStruct(req)
	if err != nil {
		return crack.Result{}, "", err
	}
	out, err := c.client.Crack(ctx, in)
	if err != nil {
		return crack.Result{}, "", err
	}
	var res struct {
		crack.Result
		RunID string `json:"run_id"`
	}
	if err := fromStruct(out, &res); err != nil {
		return crack.Result{}, "", err
	}
	return res.Result, res.RunID, nil
}

// Encrypt enciphers text remotely. params carries the key, e.g. "shift" or
// "a" and "b".
func (c *Client) Encrypt(ctx context.Context, cipherName, text string, params map[string]any) (string, error) {
	return c.transform(ctx, c.client.Encrypt, cipherName, text, params)
}

// Decrypt deciphers text remotely with a known key.
func (c *Client) Decrypt(ctx context.Context, cipherName, text string, params map[string]any) (string, error) {
	return c.transform(ctx, c.client.Decrypt, cipherName, text, params)
}

type unaryCall func(context.Context, *structpb.Struct, ...grpc.CallOption) (*structpb.Struct, error)

func (c *Client) transform(ctx context.Context, call unaryCall, cipherName, text string, params map[string]any) (string, error) {
	fields := make(map[string]any, len(params)+2)
	for k, v := range params {
		fields[k] = v
	}
	fields["cipher"] = cipherName
	fields["text"] = text
	in, err := structpb.NewStruct(fields)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}
	out, err := call(ctx, in)
	if err != nil {
		return "", err
	}
	return out.GetFields()["output"].GetStringValue(), nil
}

// Detect ranks the cipher families that could have produced text.
func (c *Client) Detect(ctx context.Context, text, language string) ([]cipher.DetectionResult, error) {
	in, err := structpb.NewStruct(map[string]any{"text": text, "language": language})
	if err != nil {
		return nil, err
	}
	out, err := c.client.Detect(ctx, in)
	if err != nil {
		return nil, err
	}
	var res struct {
		Detections []cipher.DetectionResult `json:"detections"`
	}
	if err := fromStruct(out, &res); err != nil {
		return nil, err
	}
	return res.Detections, nil
}
