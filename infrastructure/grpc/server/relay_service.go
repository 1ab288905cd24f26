package server

import (
	"chat-relay/domain"
	"context"

	"google.golang.org/grpc"
)

const (
	RelayServiceName         = "chatrelay.v1.Relay"
	RelayConnectFullMethod   = "/" + RelayServiceName + "/Connect"
	relayConnectStreamName   = "Connect"
	relayServiceMetadataFile = "chatrelay/v1/relay.proto"
)

// RelayServer is the server API of the relay service: one bidirectional stream per
// connection, inbound events up and outbound events down.
type RelayServer interface {
	Connect(stream RelayConnectServer) error
}

type RelayConnectServer interface {
	Send(*domain.Event) error
	Recv() (*domain.Inbound, error)
	grpc.ServerStream
}

type relayConnectServer struct {
	grpc.ServerStream
}

func (x *relayConnectServer) Send(m *domain.Event) error {
	return x.ServerStream.SendMsg(m)
}

func (x *relayConnectServer) Recv() (*domain.Inbound, error) {
	m := new(domain.Inbound)
	if err := x.ServerStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func relayConnectHandler(srv any, stream grpc.ServerStream) error {
	return srv.(RelayServer).Connect(&relayConnectServer{ServerStream: stream})
}

var RelayServiceDesc = grpc.ServiceDesc{
	ServiceName: RelayServiceName,
	HandlerType: (*RelayServer)(nil),
	Methods:     []grpc.MethodDesc{},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    relayConnectStreamName,
			Handler:       relayConnectHandler,
			ServerStreams: true,
			ClientStreams: true,
		},
	},
	Metadata: relayServiceMetadataFile,
}

func RegisterRelayServer(s grpc.ServiceRegistrar, srv RelayServer) {
	s.RegisterService(&RelayServiceDesc, srv)
}

// RelayConnectClient is the client side of the Connect stream.
type RelayConnectClient interface {
	Send(*domain.Inbound) error
	Recv() (*domain.Event, error)
	grpc.ClientStream
}

type relayConnectClient struct {
	grpc.ClientStream
}

func (x *relayConnectClient) Send(m *domain.Inbound) error {
	return x.ClientStream.SendMsg(m)
}

func (x *relayConnectClient) Recv() (*domain.Event, error) {
	m := new(domain.Event)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// NewRelayConnectClient opens a Connect stream on conn using the JSON codec.
func NewRelayConnectClient(ctx context.Context, conn grpc.ClientConnInterface, opts ...grpc.CallOption) (RelayConnectClient, error) {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	stream, err := conn.NewStream(ctx, &RelayServiceDesc.Streams[0], RelayConnectFullMethod, opts...)
	if err != nil {
		return nil, err
	}
	return &relayConnectClient{ClientStream: stream}, nil
}
