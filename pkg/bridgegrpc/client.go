package bridgegrpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"

	"github.com/eurora-ai/eurora-core/pkg/eurora"
	"github.com/eurora-ai/eurora-core/pkg/nativebridge"
)

// clientStream adapts grpc.ClientStream to FrameStream.
type clientStream struct{ grpc.ClientStream }

func (s clientStream) Send(f *nativebridge.Frame) error { return s.ClientStream.SendMsg(f) }
func (s clientStream) Recv() (*nativebridge.Frame, error) {
	f := new(nativebridge.Frame)
	if err := s.ClientStream.RecvMsg(f); err != nil {
		return nil, err
	}
	return f, nil
}

// OpenClientStream dials the Open bidi stream on conn (native-host side of
// spec §4.2/§6).
func OpenClientStream(ctx context.Context, conn *grpc.ClientConn) (FrameStream, error) {
	desc := ServiceDesc.Streams[0]
	cs, err := conn.NewStream(ctx, &desc, "/"+ServiceName+"/Open")
	if err != nil {
		return nil, eurora.WithKind(eurora.KindTransport, fmt.Errorf("open bridge stream: %w", err))
	}
	return clientStream{cs}, nil
}

// ForwardStdioToGRPC is the native host's forwarding loop (spec §4.2): it
// reads framed JSON from stdin, forwards each frame onto the gRPC Open
// stream, and writes frames received from the gRPC stream back onto stdout.
// The first frame sent is always Register. On stream end-of-stream or error
// it reconstructs the stream and re-sends Register, resuming transparently
// (spec §4.2 "the collector must tolerate stream re-establishment"; here
// implemented on the dialing side, which is the party that observes the
// broken stream and owns the reconnect decision).
type ForwardConfig struct {
	Dial     func(ctx context.Context) (*grpc.ClientConn, error)
	Register nativebridge.Frame
	// ReadStdin/WriteStdout are the native-messaging line protocol ends.
	ReadStdin   func() (nativebridge.Frame, error)
	WriteStdout func(nativebridge.Frame) error
}

// Run drives the forward loop until ctx is canceled or a fatal protocol
// error occurs on stdin.
func (c ForwardConfig) Run(ctx context.Context) error {
	for {
		if err := c.runOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
		// stream ended (EOF/error); loop reconnects (spec §4.2, §8 scenario 3).
	}
}

func (c ForwardConfig) runOnce(ctx context.Context) error {
	conn, err := c.Dial(ctx)
	if err != nil {
		return eurora.WithKind(eurora.KindTransport, err)
	}
	defer conn.Close()

	stream, err := OpenClientStream(ctx, conn)
	if err != nil {
		return err
	}

	if err := stream.Send(&c.Register); err != nil {
		return eurora.WithKind(eurora.KindTransport, fmt.Errorf("send register: %w", err))
	}

	errs := make(chan error, 2)

	go func() {
		for {
			frame, err := c.ReadStdin()
			if err != nil {
				errs <- err
				return
			}
			if err := stream.Send(&frame); err != nil {
				errs <- err
				return
			}
		}
	}()

	go func() {
		for {
			frame, err := stream.Recv()
			if err != nil {
				errs <- err
				return
			}
			if err := c.WriteStdout(*frame); err != nil {
				errs <- err
				return
			}
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errs:
		return err
	}
}
