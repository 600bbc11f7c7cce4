// Package bridgegrpc implements the gRPC half of the Browser Bridge (spec
// §4.2, §6): a bidirectional Open stream between the native messaging host
// and the collector, plus the GetStateStreaming convenience stream a
// BrowserStrategy reads from.
//
// No .proto toolchain is available in this environment, so the service is
// hand-rolled directly against google.golang.org/grpc's low-level
// grpc.ServiceDesc/grpc.ServerStream API instead of codegen'd stubs: frames
// are the same pkg/nativebridge.Frame JSON struct used by the stdin/stdout
// protocol, carried over gRPC via a small custom codec registered in place
// of the usual protobuf one. See DESIGN.md for why this approach was
// chosen over vendoring a generated client.
package bridgegrpc

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
)

const codecName = "proto"

// jsonCodec marshals any value (here, always a *nativebridge.Frame) as JSON
// instead of protobuf wire format. It is registered under the name "proto"
// — the content-subtype grpc-go's transport selects by default when a call
// specifies none — so existing grpc.Dial/grpc.NewServer call sites need no
// extra per-call codec option. This is safe only because this process never
// also speaks real protobuf-encoded gRPC; see DESIGN.md.
type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("bridgegrpc: marshal: %w", err)
	}
	return b, nil
}

func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("bridgegrpc: unmarshal: %w", err)
	}
	return nil
}

func (jsonCodec) Name() string { return codecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
