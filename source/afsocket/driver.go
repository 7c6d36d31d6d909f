/*
 * MIT License
 *
 * Copyright (c) 2026 syslog-ng authors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package afsocket implements the AF_SOCKET source driver: a listening
// stream or datagram socket that turns incoming bytes into Messages and
// pushes them into a sink queue, gated by max_connections and an optional
// shared dynamic-window pool (spec §4.5).
package afsocket

import (
	"context"
	"net"
	"os"
	"runtime"
	"sync"

	"github.com/syslog-ng/logcore/ioutils"
	"github.com/syslog-ng/logcore/logger"
	"github.com/syslog-ng/logcore/queue"
	"github.com/syslog-ng/logcore/semaphore/sem"
	"github.com/syslog-ng/logcore/stats"
)

// State is a coarse connection-lifecycle marker for the driver itself
// (spec §4.5 "INIT -> BOUND -> LISTENING -> (ACCEPTING <-> FULL)").
type State uint8

const (
	StateInit State = iota
	StateBound
	StateListening
	StateAccepting
	StateFull
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateBound:
		return "BOUND"
	case StateListening:
		return "LISTENING"
	case StateAccepting:
		return "ACCEPTING"
	case StateFull:
		return "FULL"
	default:
		return "UNKNOWN"
	}
}

// Sink is the subset of queue.Queue the driver needs to hand off parsed
// messages; any queue.Queue (memory or disk-backed) satisfies it.
type Sink interface {
	PushTail(e queue.Entry) error
}

// Driver is one AF_SOCKET source: a listening socket plus the bookkeeping
// the spec's connection lifecycle and reload handoff describe.
type Driver struct {
	mu    sync.Mutex
	cfg   Config
	state State
	sink  Sink
	log   logger.Logger

	listener   net.Listener
	packetConn net.PacketConn

	conns     map[*connection]struct{}
	admission sem.Sem // nil when MaxConnections <= 0 (unbounded)

	numConnections      stats.Counter
	rejectedConnections stats.Counter
	socketDropped       stats.Counter
	socketBufMax        stats.Counter
	socketBufUsed       stats.Counter

	stopCh chan struct{}
	wg     sync.WaitGroup

	memInfoDisabled bool
	hostsAccess     HostsAccessFunc

	reloadStore ReloadStore
	reloadKey   string
}

// BindReloadStore wires the persistent-state collaborator carrying the
// listen fd across a config reload (spec §4.5 "Reload",
// "<driver>.listen_fd"). Only takes effect when Config.KeepAlive is set;
// call before Start.
func (d *Driver) BindReloadStore(store ReloadStore, key string) *Driver {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reloadStore = store
	d.reloadKey = key
	return d
}

// New builds a Driver bound to sink; Start actually opens the socket.
func New(ctx context.Context, cfg Config, sink Sink) (*Driver, error) {
	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	var admission sem.Sem
	if cfg.Net.isStream() && cfg.MaxConnections > 0 {
		admission = sem.New(ctx, int64(cfg.MaxConnections))
	}

	return &Driver{
		cfg:                 cfg,
		sink:                sink,
		log:                 logger.New(ctx),
		conns:                map[*connection]struct{}{},
		admission:           admission,
		numConnections:      stats.NullCounter,
		rejectedConnections: stats.NullCounter,
		socketDropped:       stats.NullCounter,
		socketBufMax:        stats.NullCounter,
		socketBufUsed:       stats.NullCounter,
	}, nil
}

// BindCounters attaches the driver's observable counters (spec §4.5
// "rejected_connections_total", "num_connections" and the SO_MEMINFO
// gauges).
func (d *Driver) BindCounters(numConnections, rejectedConnections, socketDropped, socketBufMax, socketBufUsed stats.Counter) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.numConnections = numConnections
	d.rejectedConnections = rejectedConnections
	d.socketDropped = socketDropped
	d.socketBufMax = socketBufMax
	d.socketBufUsed = socketBufUsed
}

// State reports the driver's current lifecycle state.
func (d *Driver) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// OpenConnections reports the number of currently attached stream
// connections (always 1 once running, for a datagram driver).
func (d *Driver) OpenConnections() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.conns)
}

// Addr reports the socket's actual bound address, useful when Config.Address
// requests an ephemeral port ("host:0"). Returns nil before Start succeeds.
func (d *Driver) Addr() net.Addr {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.listener != nil {
		return d.listener.Addr()
	}
	if d.packetConn != nil {
		return d.packetConn.LocalAddr()
	}
	return nil
}

// Start opens the listen socket (or packet socket) and begins accepting.
func (d *Driver) Start(ctx context.Context) error {
	d.mu.Lock()
	if d.state != StateInit {
		d.mu.Unlock()
		return ErrAlreadyStarted
	}
	d.mu.Unlock()

	if d.cfg.MaxConnections > 0 {
		if _, _, err := ioutils.SystemFileDescriptor(d.cfg.MaxConnections + 64); err != nil {
			d.log.Warning("afsocket: could not raise the process file descriptor limit for max_connections", err)
		}
	}

	network := d.cfg.Net.goNetwork()

	if d.cfg.Net.isStream() {
		ln, err := d.listenStream(ctx, network)
		if err != nil {
			return errListenFailed(network, d.cfg.Address, err)
		}
		d.mu.Lock()
		d.listener = ln
		d.state = StateListening
		d.mu.Unlock()

		d.wg.Add(1)
		d.stopCh = make(chan struct{})
		go d.acceptLoop()
		return nil
	}

	pc, err := d.listenPacket(ctx, network)
	if err != nil {
		return errListenFailed(network, d.cfg.Address, err)
	}
	d.mu.Lock()
	d.packetConn = pc
	d.state = StateAccepting
	d.mu.Unlock()

	d.stopCh = make(chan struct{})
	d.wg.Add(1)
	go d.datagramLoop()

	if d.cfg.MemInfoProbeInterval > 0 {
		d.wg.Add(1)
		go d.memInfoLoop()
	}
	return nil
}

// listenStream opens a stream listener, reclaiming a fd persisted by a prior
// generation's Stop when Config.KeepAlive and a ReloadStore are both set
// (spec §4.5 "Reload", "<driver>.listen_fd").
func (d *Driver) listenStream(ctx context.Context, network string) (net.Listener, error) {
	if d.cfg.KeepAlive && d.reloadStore != nil {
		if fd, ok := d.reloadStore.FetchListenFD(d.reloadKey); ok {
			if ln, err := net.FileListener(os.NewFile(uintptr(fd), d.cfg.Address)); err == nil {
				return ln, nil
			}
		}
	}
	lc := net.ListenConfig{}
	return lc.Listen(ctx, network, d.cfg.Address)
}

// listenPacket is listenStream's datagram counterpart.
func (d *Driver) listenPacket(ctx context.Context, network string) (net.PacketConn, error) {
	if d.cfg.KeepAlive && d.reloadStore != nil {
		if fd, ok := d.reloadStore.FetchListenFD(d.reloadKey); ok {
			if pc, err := net.FilePacketConn(os.NewFile(uintptr(fd), d.cfg.Address)); err == nil {
				return pc, nil
			}
		}
	}
	lc := net.ListenConfig{}
	return lc.ListenPacket(ctx, network, d.cfg.Address)
}

// filer is satisfied by every concrete net.Listener/net.PacketConn this
// driver opens (*net.TCPListener, *net.UnixListener, *net.UDPConn,
// *net.UnixConn); File duplicates the underlying descriptor into a new
// os.File independent of the original, letting the original be closed
// without the duplicate going down with it.
type filer interface {
	File() (*os.File, error)
}

// persistListenFD hands the listen fd to the bound ReloadStore before the
// socket is torn down, so the next generation's listenStream/listenPacket
// can reclaim it (spec §4.5 "Reload").
func (d *Driver) persistListenFD(listener net.Listener, packetConn net.PacketConn) {
	var (
		f   *os.File
		err error
	)
	switch {
	case listener != nil:
		if fl, ok := listener.(filer); ok {
			f, err = fl.File()
		}
	case packetConn != nil:
		if fc, ok := packetConn.(filer); ok {
			f, err = fc.File()
		}
	}
	if f == nil {
		return
	}
	if err != nil {
		d.log.Warning("afsocket: failed to duplicate listen fd for reload", err)
		return
	}
	// f is deliberately left open: its duplicated descriptor must outlive
	// this Stop call in this process's fd table until a later Start reclaims
	// it via os.NewFile.
	if err = d.reloadStore.StoreListenFD(d.reloadKey, int(f.Fd())); err != nil {
		d.log.Warning("afsocket: failed to persist listen fd", err)
	}
}

// Stop closes the listening socket and every open connection, waiting for
// their goroutines to exit.
func (d *Driver) Stop(ctx context.Context) error {
	d.mu.Lock()
	if d.state == StateInit {
		d.mu.Unlock()
		return ErrNotStarted
	}
	stopCh := d.stopCh
	listener := d.listener
	packetConn := d.packetConn
	keepAlive := d.cfg.KeepAlive
	store := d.reloadStore
	conns := make([]*connection, 0, len(d.conns))
	for c := range d.conns {
		conns = append(conns, c)
	}
	d.mu.Unlock()

	if keepAlive && store != nil {
		d.persistListenFD(listener, packetConn)
	}

	if stopCh != nil {
		close(stopCh)
	}
	if listener != nil {
		_ = listener.Close()
	}
	if packetConn != nil {
		_ = packetConn.Close()
	}
	for _, c := range conns {
		c.close()
	}
	d.wg.Wait()

	d.mu.Lock()
	d.state = StateInit
	d.mu.Unlock()
	return nil
}

// acceptLoop accepts up to maxAcceptPerWakeup connections per pass before
// yielding (spec §4.5 "accept loops up to 30 times per wakeup"). Go's
// blocking net.Listener.Accept already yields to the scheduler whenever no
// connection is pending, so the cap here is a cooperative-scheduling
// courtesy rather than a hard batch boundary the way it is against an
// edge-triggered epoll socket.
func (d *Driver) acceptLoop() {
	defer d.wg.Done()

	accepted := 0
	for {
		select {
		case <-d.stopCh:
			return
		default:
		}

		conn, err := d.listener.Accept()
		if err != nil {
			select {
			case <-d.stopCh:
				return
			default:
			}
			d.log.Error("afsocket: accept failed", err)
			return
		}

		d.handleAccept(conn)

		accepted++
		if accepted >= maxAcceptPerWakeup {
			accepted = 0
			runtime.Gosched()
		}
	}
}

func (d *Driver) handleAccept(nc net.Conn) {
	d.mu.Lock()
	admission := d.admission
	gate := d.hostsAccess
	d.mu.Unlock()

	if gate != nil && !gate(nc.RemoteAddr()) {
		d.rejectedConnections.Inc()
		d.log.Warning("afsocket: rejecting connection, denied by hosts_access", nil, "remote", nc.RemoteAddr().String())
		_ = nc.Close()
		return
	}

	if admission != nil && !admission.NewWorkerTry() {
		d.rejectedConnections.Inc()
		d.log.Warning("afsocket: rejecting connection, max_connections reached", nil, "remote", nc.RemoteAddr().String())
		_ = nc.Close()
		return
	}

	c := newConnection(d, nc)

	d.mu.Lock()
	d.conns[c] = struct{}{}
	d.state = StateAccepting
	if admission != nil && len(d.conns) >= d.cfg.MaxConnections {
		d.state = StateFull
	}
	d.mu.Unlock()

	d.numConnections.Inc()
	d.wg.Add(1)
	go c.readLoop()
}

// dropConnection removes c from the live set once its read loop exits,
// releasing its admission slot back to the semaphore gating max_connections.
func (d *Driver) dropConnection(c *connection) {
	d.mu.Lock()
	delete(d.conns, c)
	admission := d.admission
	if d.state == StateFull {
		d.state = StateAccepting
	}
	d.mu.Unlock()
	d.numConnections.Add(-1)
	if admission != nil {
		admission.DeferWorker()
	}
}
