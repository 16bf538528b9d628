package radius

import "net"

// RemoteHost describes a configured RADIUS peer: the shared secret used to
// encode/decode packets exchanged with it, a human-readable name, and the
// ports it is expected to speak on. Constructed at configuration time and
// immutable thereafter.
type RemoteHost struct {
	Address  net.IP
	Secret   []byte
	Name     string
	AuthPort int
	AcctPort int
	CoAPort  int
}

// NewRemoteHost builds a RemoteHost with the conventional default ports
// (1812/1813/3799).
func NewRemoteHost(address net.IP, secret []byte, name string) *RemoteHost {
	return &RemoteHost{
		Address:  address,
		Secret:   secret,
		Name:     name,
		AuthPort: 1812,
		AcctPort: 1813,
		CoAPort:  3799,
	}
}

// Hosts is a read-mostly registry of RemoteHost, keyed by IP address. It is
// safe to read concurrently from request-processing goroutines; mutation
// (Add/Remove) is only safe during (re)configuration, excluding concurrent
// request processing, per the concurrency model.
type Hosts struct {
	byAddress map[string]*RemoteHost
}

// NewHosts returns an empty host registry.
func NewHosts() *Hosts {
	return &Hosts{byAddress: make(map[string]*RemoteHost)}
}

// Add registers or replaces the RemoteHost for its address.
func (h *Hosts) Add(host *RemoteHost) {
	h.byAddress[host.Address.String()] = host
}

// Remove deletes any RemoteHost registered for address.
func (h *Hosts) Remove(address net.IP) {
	delete(h.byAddress, address.String())
}

// Lookup returns the RemoteHost registered for address, if any.
func (h *Hosts) Lookup(address net.IP) (*RemoteHost, bool) {
	host, ok := h.byAddress[address.String()]
	return host, ok
}

// Authorize is a convenience wrapper returning an *Error with ErrAuthorization
// when address has no registered host, for callers that want a single
// err-or-host return shape.
func (h *Hosts) Authorize(address net.IP) (*RemoteHost, error) {
	host, ok := h.Lookup(address)
	if !ok {
		return nil, NewError(ErrAuthorization, "no host registered for "+address.String())
	}
	return host, nil
}
