package radclient

import (
	"context"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nicholasamorim/radiusgo/pkg/dictionary"
	"github.com/nicholasamorim/radiusgo/pkg/radius"
)

const testDict = `
ATTRIBUTE User-Name 1 string
ATTRIBUTE NAS-IP-Address 4 ipaddr
ATTRIBUTE Acct-Delay-Time 41 integer
`

func loadTestDict(t *testing.T) *dictionary.Dictionary {
	t.Helper()
	d := dictionary.New()
	require.NoError(t, d.LoadReader(strings.NewReader(testDict), "test.dict"))
	return d
}

// echoServer binds a UDP socket that decodes each request and replies
// with an Access-Accept, for exercising Client.SendPacket end to end.
func echoServer(t *testing.T, secret []byte, dict *dictionary.Dictionary) (addr string, stop func()) {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 0})
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		buf := make([]byte, 4096)
		for {
			conn.SetReadDeadline(time.Now().Add(2 * time.Second))
			n, from, err := conn.ReadFromUDP(buf)
			if err != nil {
				select {
				case <-done:
					return
				default:
					continue
				}
			}
			req, err := radius.Decode(buf[:n], secret, dict)
			if err != nil {
				continue
			}
			reply, err := req.CreateReply()
			if err != nil {
				continue
			}
			wire, err := reply.Encode()
			if err != nil {
				continue
			}
			conn.WriteToUDP(wire, from)
		}
	}()

	return conn.LocalAddr().String(), func() {
		close(done)
		conn.Close()
	}
}

func TestClientSendPacketRoundTrip(t *testing.T) {
	dict := loadTestDict(t)
	secret := []byte("testing123")
	addr, stop := echoServer(t, secret, dict)
	defer stop()

	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Server = host
	cfg.AuthPort = port
	cfg.Secret = secret
	cfg.Dict = dict
	cfg.Timeout = time.Second

	client, err := New(cfg)
	require.NoError(t, err)

	pkt := client.CreateAuthPacket()
	require.NoError(t, pkt.Set("User-Name", "wichert"))

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	reply, err := client.SendPacket(ctx, pkt)
	require.NoError(t, err)
	require.Equal(t, radius.AccessAccept, reply.Code)
	require.Equal(t, pkt.ID, reply.ID)
}

func TestClientTimeoutAfterRetries(t *testing.T) {
	dict := loadTestDict(t)
	secret := []byte("testing123")

	// Bind a socket that never replies, to force the client to exhaust
	// its retry budget.
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 0})
	require.NoError(t, err)
	defer conn.Close()

	host, portStr, err := net.SplitHostPort(conn.LocalAddr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Server = host
	cfg.AuthPort = port
	cfg.Secret = secret
	cfg.Dict = dict
	cfg.Retries = 2
	cfg.Timeout = 200 * time.Millisecond

	client, err := New(cfg)
	require.NoError(t, err)

	pkt := client.CreateAuthPacket()

	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err = client.SendPacket(ctx, pkt)
	elapsed := time.Since(start)

	require.Error(t, err)
	require.True(t, radius.IsTimeout(err))
	require.GreaterOrEqual(t, elapsed, 2*cfg.Timeout)
}

func TestSendPacketCancellationIsNotTimeout(t *testing.T) {
	dict := loadTestDict(t)
	secret := []byte("testing123")

	// A socket that never replies: the client ends up blocked in its
	// reply read, where only cancellation can unblock it early.
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 0})
	require.NoError(t, err)
	defer conn.Close()

	host, portStr, err := net.SplitHostPort(conn.LocalAddr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Server = host
	cfg.AuthPort = port
	cfg.Secret = secret
	cfg.Dict = dict
	cfg.Retries = 1
	cfg.Timeout = 10 * time.Second

	client, err := New(cfg)
	require.NoError(t, err)

	pkt := client.CreateAuthPacket()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err = client.SendPacket(ctx, pkt)
	elapsed := time.Since(start)

	require.Error(t, err)
	require.False(t, radius.IsTimeout(err))
	require.Less(t, elapsed, cfg.Timeout)
}

func TestAcctRetryIncrementsDelayTime(t *testing.T) {
	dict := loadTestDict(t)
	secret := []byte("testing123")

	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 0})
	require.NoError(t, err)
	defer conn.Close()

	host, portStr, err := net.SplitHostPort(conn.LocalAddr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Server = host
	cfg.AcctPort = port
	cfg.Secret = secret
	cfg.Dict = dict
	cfg.Retries = 3
	cfg.Timeout = 1100 * time.Millisecond

	client, err := New(cfg)
	require.NoError(t, err)

	pkt := client.CreateAcctPacket()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err = client.SendPacket(ctx, pkt)
	require.Error(t, err)
	require.True(t, radius.IsTimeout(err))

	vals, err := pkt.Get("Acct-Delay-Time")
	require.NoError(t, err)
	require.Len(t, vals, 1)
	require.GreaterOrEqual(t, vals[0].(int64), int64(1))
}
