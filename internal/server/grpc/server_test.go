package grpc

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dmitrijs2005/odsregistry/internal/logging"
)

type fakePinger struct {
	fail atomic.Bool
}

func (p *fakePinger) PingContext(context.Context) error {
	if p.fail.Load() {
		return errors.New("db down")
	}
	return nil
}

func startServer(t *testing.T, p Pinger, interval time.Duration) (string, context.CancelFunc, chan error) {
	t.Helper()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := NewGRPCServer("", logging.Nop{}, p)
	srv.checkInterval = interval

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, lis) }()

	return lis.Addr().String(), cancel, done
}

func healthClient(t *testing.T, addr string) grpc_health_v1.HealthClient {
	t.Helper()
	conn, err := gogrpc.NewClient(addr, gogrpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return grpc_health_v1.NewHealthClient(conn)
}

func check(t *testing.T, c grpc_health_v1.HealthClient) grpc_health_v1.HealthCheckResponse_ServingStatus {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	resp, err := c.Check(ctx, &grpc_health_v1.HealthCheckRequest{})
	require.NoError(t, err)
	return resp.GetStatus()
}

func TestServe_ReportsServing(t *testing.T) {
	addr, cancel, done := startServer(t, &fakePinger{}, time.Hour)
	defer cancel()

	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, check(t, healthClient(t, addr)))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestServe_FollowsDatabase(t *testing.T) {
	p := &fakePinger{}
	p.fail.Store(true)

	addr, cancel, _ := startServer(t, p, 20*time.Millisecond)
	defer cancel()

	c := healthClient(t, addr)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING, check(t, c))

	p.fail.Store(false)
	assert.Eventually(t, func() bool {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		resp, err := c.Check(ctx, &grpc_health_v1.HealthCheckRequest{})
		return err == nil && resp.GetStatus() == grpc_health_v1.HealthCheckResponse_SERVING
	}, 2*time.Second, 20*time.Millisecond)
}

func TestPingers_FirstFailureWins(t *testing.T) {
	up, down := &fakePinger{}, &fakePinger{}
	down.fail.Store(true)

	assert.NoError(t, Pingers{up, up}.PingContext(context.Background()))
	assert.NoError(t, Pingers{}.PingContext(context.Background()))
	assert.EqualError(t, Pingers{up, down}.PingContext(context.Background()), "db down")
}

func TestServe_FollowsEveryDependency(t *testing.T) {
	db, cache := &fakePinger{}, &fakePinger{}
	cache.fail.Store(true)

	addr, cancel, _ := startServer(t, Pingers{db, cache}, time.Hour)
	defer cancel()

	assert.Equal(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING, check(t, healthClient(t, addr)))
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:99999", logging.Nop{}, &fakePinger{})
	err := srv.Run(context.Background())
	assert.Error(t, err)
}
