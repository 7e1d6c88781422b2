package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func dial(t *testing.T) grpc_health_v1.HealthClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv, _ := New()
	go srv.Serve(lis) //nolint:errcheck
	t.Cleanup(func() { Stop(srv) })

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return grpc_health_v1.NewHealthClient(conn)
}

func TestHealthCheckServing(t *testing.T) {
	client := dial(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, svc := range []string{"", ServiceName} {
		resp, err := client.Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: svc})
		require.NoError(t, err, svc)
		assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, resp.GetStatus(), svc)
	}
}

func TestHealthCheckUnknownService(t *testing.T) {
	client := dial(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := client.Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: "nope"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestRecoveryInterceptor(t *testing.T) {
	info := &grpc.UnaryServerInfo{FullMethod: "/test/Panic"}
	_, err := recoveryInterceptor(context.Background(), nil, info,
		func(context.Context, interface{}) (interface{}, error) { panic("boom") })
	assert.Equal(t, codes.Internal, status.Code(err))
}

func TestStopNil(t *testing.T) {
	assert.NotPanics(t, func() { Stop(nil) })
}
