// Package server implements the TCP connection manager (spec.md §6.2/6.3):
// one goroutine per accepted connection reads fixed-size OrderMessages and
// publishes them to a single inbound ring buffer; one dedicated engine
// goroutine drains that ring buffer and calls into the (single-writer,
// thread-free) matching engine; per-connection outbound ring buffers carry
// ResponseMessages back out to each connection's own writer goroutine. This
// is the concurrency the core itself is forbidden from owning, relocated to
// the boundary where multiple independent clients actually need serializing.
//
// The original reference used a kqueue event loop and a process-wide
// sig_atomic_t flag for shutdown; net.Listener plus a goroutine per
// connection is the idiomatic Go equivalent, and os/signal.Notify replaces
// the signal handler.
package server

import (
	"context"
	"io"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"matchcore/domain"
	"matchcore/internal/engine"
	"matchcore/internal/logging"
	"matchcore/internal/metrics"
	"matchcore/internal/ringbuffer"
	"matchcore/internal/wire"
)

// readPollInterval bounds how long a connection's read can block before
// readLoop re-checks ctx.Done(), so shutdown is noticed even from a client
// that never sends another message. Grounded on the original reference's
// 1-second kqueue shutdown-flag poll.
const readPollInterval = 1 * time.Second

const inboundRingSize = 4096
const outboundRingSize = 256

// request is one inbound job: a decoded message plus where its response(s)
// must be delivered.
type request struct {
	connID  string
	outbox  *ringbuffer.RingBuffer[wire.ResponseMessage]
	message wire.OrderMessage
}

// Server owns the single engine instance and the inbound ring buffer that
// serializes every connection's requests into it.
type Server struct {
	engine  *engine.Engine
	inbound *ringbuffer.RingBuffer[request]

	listener net.Listener

	// publishMu serializes the connection goroutines' Publish calls into
	// inbound, whose Publish is safe for only one producer at a time.
	publishMu sync.Mutex

	mu    sync.Mutex
	conns map[string]net.Conn
}

// New creates a server around eng. The engine must not be driven by any
// other caller concurrently with Run.
func New(eng *engine.Engine) *Server {
	return &Server{
		engine:  eng,
		inbound: ringbuffer.New[request](inboundRingSize),
		conns:   make(map[string]net.Conn),
	}
}

// Run listens on addr and serves connections until ctx is cancelled or a
// SIGINT/SIGTERM arrives. It blocks until shutdown completes.
func (s *Server) Run(ctx context.Context, addr string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.listener = ln
	logging.Info("server listening", zap.String("addr", addr))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.driveEngine(ctx)
	}()

	go func() {
		<-ctx.Done()
		ln.Close()
		s.closeAllConns()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				wg.Wait()
				return nil
			default:
				return err
			}
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.handleConn(ctx, conn)
		}()
	}
}

// driveEngine is the sole goroutine ever permitted to call into s.engine,
// keeping the matching core's single-writer invariant even though many
// connections feed it concurrently.
func (s *Server) driveEngine(ctx context.Context) {
	consumer := s.inbound.NewConsumer()
	for {
		req, ok := consumer.ConsumeContext(ctx)
		if !ok {
			return
		}
		s.process(req)
	}
}

func (s *Server) process(req request) {
	start := time.Now()
	defer func() { metrics.OrderLatency.Observe(time.Since(start).Seconds()) }()

	msg := req.message
	switch wire.MsgType(msg.MsgType) {
	case wire.MsgCancel:
		ok := s.engine.CancelOrder(msg.OrderID)
		resp := wire.ResponseMessage{OrderID: msg.OrderID}
		if ok {
			resp.MsgType = wire.MsgAck
		} else {
			resp.MsgType = wire.MsgReject
			metrics.CancelRejects.Inc()
		}
		req.outbox.Publish(resp)

	case wire.MsgNewOrder:
		side := domain.Side(msg.Side)
		typ := domain.Type(msg.OrderType)
		id, trades := s.engine.ProcessOrder(side, typ, msg.Price, msg.Quantity)
		metrics.OrdersProcessed.Inc()

		req.outbox.Publish(wire.ResponseMessage{MsgType: wire.MsgAck, OrderID: id})

		for _, t := range trades {
			matchID := t.SellerID
			if side == domain.Sell {
				matchID = t.BuyerID
			}
			req.outbox.Publish(wire.ResponseMessage{
				MsgType:  wire.MsgFill,
				OrderID:  id,
				Price:    t.Price,
				Quantity: t.Quantity,
				MatchID:  matchID,
			})
			metrics.TradesExecuted.Inc()
			metrics.TradeVolume.Add(float64(t.Quantity))
		}

	default:
		req.outbox.Publish(wire.ResponseMessage{MsgType: wire.MsgReject})
	}
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	id := uuid.NewString()
	logging.Info("client connected", zap.String("conn_id", id))

	s.mu.Lock()
	s.conns[id] = conn
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.conns, id)
		s.mu.Unlock()
		conn.Close()
		logging.Info("client disconnected", zap.String("conn_id", id))
	}()

	outbox := ringbuffer.New[wire.ResponseMessage](outboundRingSize)

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.writeLoop(ctx, conn, outbox)
	}()

	s.readLoop(ctx, conn, id, outbox)
	conn.Close()
	<-done
}

// closeAllConns closes every tracked connection, waking any reader blocked
// in ReadFull immediately instead of leaving it to time out on its own
// read-deadline poll. Called once on shutdown.
func (s *Server) closeAllConns() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.conns {
		c.Close()
	}
}

func (s *Server) readLoop(ctx context.Context, conn net.Conn, connID string, outbox *ringbuffer.RingBuffer[wire.ResponseMessage]) {
	buf := make([]byte, wire.MessageSize)
	n := 0 // bytes of the current message already read
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		conn.SetReadDeadline(time.Now().Add(readPollInterval))
		m, err := io.ReadFull(conn, buf[n:])
		n += m
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			return
		}
		n = 0

		msg := wire.DecodeOrder(buf)
		s.publishMu.Lock()
		s.inbound.Publish(request{connID: connID, outbox: outbox, message: msg})
		s.publishMu.Unlock()
	}
}

func (s *Server) writeLoop(ctx context.Context, conn net.Conn, outbox *ringbuffer.RingBuffer[wire.ResponseMessage]) {
	consumer := outbox.NewConsumer()
	for {
		resp, ok := consumer.ConsumeContext(ctx)
		if !ok {
			return
		}
		buf := wire.EncodeResponse(resp)
		if _, err := conn.Write(buf[:]); err != nil {
			return
		}
	}
}
