package radserver

import (
	"context"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nicholasamorim/radiusgo/pkg/dictionary"
	"github.com/nicholasamorim/radiusgo/pkg/radclient"
	"github.com/nicholasamorim/radiusgo/pkg/radius"
)

const testDict = `
ATTRIBUTE User-Name 1 string
ATTRIBUTE User-Password 2 string encrypt=1
ATTRIBUTE NAS-IP-Address 4 ipaddr
ATTRIBUTE Acct-Status-Type 40 integer
`

func loadTestDict(t *testing.T) *dictionary.Dictionary {
	t.Helper()
	d := dictionary.New()
	require.NoError(t, d.LoadReader(strings.NewReader(testDict), "test.dict"))
	return d
}

func freePort(t *testing.T) int {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 0})
	require.NoError(t, err)
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).Port
}

func TestServerAuthAccept(t *testing.T) {
	dict := loadTestDict(t)
	secret := []byte("s3cr3t")

	hosts := radius.NewHosts()
	hosts.Add(radius.NewRemoteHost(net.ParseIP("127.0.0.1"), secret, "test-nas"))

	authPort := freePort(t)

	cfg := DefaultConfig()
	cfg.Addresses = []string{"127.0.0.1"}
	cfg.AuthPort = authPort
	cfg.AcctPort = freePort(t)
	cfg.CoAPort = freePort(t)
	cfg.Dict = dict
	cfg.Hosts = hosts

	srv, err := New(cfg)
	require.NoError(t, err)
	srv.AuthHandler = func(ctx context.Context, req *radius.Packet) (*radius.Packet, error) {
		reply, err := req.CreateReply()
		require.NoError(t, err)
		return reply, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.ListenAndServe(ctx)
	time.Sleep(50 * time.Millisecond)

	ccfg := radclient.DefaultConfig()
	ccfg.Server = "127.0.0.1"
	ccfg.AuthPort = authPort
	ccfg.Secret = secret
	ccfg.Dict = dict
	ccfg.Timeout = time.Second

	client, err := radclient.New(ccfg)
	require.NoError(t, err)

	pkt := client.CreateAuthPacket()
	require.NoError(t, pkt.Set("User-Name", "wichert"))

	sendCtx, sendCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer sendCancel()
	reply, err := client.SendPacket(sendCtx, pkt)
	require.NoError(t, err)
	require.Equal(t, radius.AccessAccept, reply.Code)
}

func TestServerDropsUnknownHost(t *testing.T) {
	dict := loadTestDict(t)
	secret := []byte("s3cr3t")

	hosts := radius.NewHosts() // no hosts registered

	authPort := freePort(t)
	cfg := DefaultConfig()
	cfg.Addresses = []string{"127.0.0.1"}
	cfg.AuthPort = authPort
	cfg.AcctPort = freePort(t)
	cfg.CoAPort = freePort(t)
	cfg.Dict = dict
	cfg.Hosts = hosts

	srv, err := New(cfg)
	require.NoError(t, err)
	called := false
	srv.AuthHandler = func(ctx context.Context, req *radius.Packet) (*radius.Packet, error) {
		called = true
		return req.CreateReply()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.ListenAndServe(ctx)
	time.Sleep(50 * time.Millisecond)

	conn, err := net.Dial("udp", "127.0.0.1:"+strconv.Itoa(authPort))
	require.NoError(t, err)
	defer conn.Close()

	p := radius.NewAuthPacket(secret, dict)
	p.ID = 1
	wire, err := p.Encode()
	require.NoError(t, err)
	_, err = conn.Write(wire)
	require.NoError(t, err)

	conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	buf := make([]byte, 4096)
	_, err = conn.Read(buf)
	require.Error(t, err) // no reply: unknown host must be dropped
	require.False(t, called)
}

func TestDedupeCacheResendsWithoutReinvokingHandler(t *testing.T) {
	dict := loadTestDict(t)
	secret := []byte("s3cr3t")
	hosts := radius.NewHosts()
	hosts.Add(radius.NewRemoteHost(net.ParseIP("127.0.0.1"), secret, "test-nas"))

	acctPort := freePort(t)
	cfg := DefaultConfig()
	cfg.Addresses = []string{"127.0.0.1"}
	cfg.AuthPort = freePort(t)
	cfg.AcctPort = acctPort
	cfg.CoAPort = freePort(t)
	cfg.Dict = dict
	cfg.Hosts = hosts
	cfg.DedupeWindow = 30 * time.Second

	srv, err := New(cfg)
	require.NoError(t, err)

	invocations := 0
	srv.AcctHandler = func(ctx context.Context, req *radius.Packet) (*radius.Packet, error) {
		invocations++
		return req.CreateReply()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.ListenAndServe(ctx)
	time.Sleep(50 * time.Millisecond)

	conn, err := net.Dial("udp", "127.0.0.1:"+strconv.Itoa(acctPort))
	require.NoError(t, err)
	defer conn.Close()

	p := radius.NewAcctPacket(secret, dict)
	p.ID = 7
	p.Authenticator = [16]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	wire, err := p.Encode()
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = conn.Write(wire)
		require.NoError(t, err)
		conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
		buf := make([]byte, 4096)
		n, err := conn.Read(buf)
		require.NoError(t, err)
		require.Greater(t, n, 0)
	}

	require.Equal(t, 1, invocations)
}
