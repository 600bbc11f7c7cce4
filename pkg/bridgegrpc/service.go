package bridgegrpc

import (
	"google.golang.org/grpc"

	"github.com/eurora-ai/eurora-core/pkg/nativebridge"
)

// ServiceName is the gRPC service name, styled after a protoc-generated
// package path even though no .proto file backs it (spec §6).
const ServiceName = "eurora.bridge.v1.Bridge"

// FrameStream is the typed view over a raw grpc.ServerStream/grpc.ClientStream
// this package hands to handlers, since there is no generated
// Bridge_OpenServer/Client pair to do it for us.
type FrameStream interface {
	Send(*nativebridge.Frame) error
	Recv() (*nativebridge.Frame, error)
}

type serverStream struct{ grpc.ServerStream }

func (s serverStream) Send(f *nativebridge.Frame) error { return s.ServerStream.SendMsg(f) }
func (s serverStream) Recv() (*nativebridge.Frame, error) {
	f := new(nativebridge.Frame)
	if err := s.ServerStream.RecvMsg(f); err != nil {
		return nil, err
	}
	return f, nil
}

// BridgeServer is implemented by the collector-side service (spec §6:
// "Open(stream Frame) returns (stream Frame)", "GetStateStreaming(stream
// StateRequest) returns (stream StateResponse)" — both modeled here as
// Frame streams since Frame is itself the tagged union carrying either
// shape).
type BridgeServer interface {
	Open(stream FrameStream) error
	GetStateStreaming(stream FrameStream) error
}

func openHandler(srv interface{}, stream grpc.ServerStream) error {
	return srv.(BridgeServer).Open(serverStream{stream})
}

func getStateStreamingHandler(srv interface{}, stream grpc.ServerStream) error {
	return srv.(BridgeServer).GetStateStreaming(serverStream{stream})
}

// ServiceDesc is the hand-rolled grpc.ServiceDesc for the Bridge service
// (spec §6). RegisterBridgeServer registers an implementation against a
// *grpc.Server using it.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BridgeServer)(nil),
	Methods:     []grpc.MethodDesc{},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Open",
			Handler:       openHandler,
			ServerStreams: true,
			ClientStreams: true,
		},
		{
			StreamName:    "GetStateStreaming",
			Handler:       getStateStreamingHandler,
			ServerStreams: true,
			ClientStreams: true,
		},
	},
}

// RegisterBridgeServer registers srv on s under ServiceDesc.
func RegisterBridgeServer(s *grpc.Server, srv BridgeServer) {
	s.RegisterService(&ServiceDesc, srv)
}
