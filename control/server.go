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

package control

import (
	"bufio"
	"context"
	"net"
	"os"
	"sync"

	liblog "github.com/syslog-ng/logcore/logger"
	startStop "github.com/syslog-ng/logcore/runner/startStop"
)

// Server is a UNIX domain socket control-socket listener (spec §6). The
// teacher's socket/server package never grew past its test scaffolding, so
// this, like source/afsocket, talks to net directly.
type Server struct {
	path    string
	handler *Handler
	log     liblog.Logger

	mu       sync.Mutex
	listener net.Listener
	wg       sync.WaitGroup

	lifecycle startStop.StartStop
}

// NewServer binds a Server to path, removing any stale socket file left
// behind by a previous, uncleanly terminated run before listening.
func NewServer(path string, handler *Handler, log liblog.Logger) *Server {
	s := &Server{path: path, handler: handler, log: log}
	s.lifecycle = startStop.New(s.start, s.stop)
	return s
}

// Start begins accepting connections; it is idempotent via the underlying
// startStop.StartStop, which restarts cleanly if already running.
func (s *Server) Start(ctx context.Context) error {
	return s.lifecycle.Start(ctx)
}

// Stop closes the listener and waits for in-flight connections to finish.
func (s *Server) Stop(ctx context.Context) error {
	return s.lifecycle.Stop(ctx)
}

func (s *Server) start(ctx context.Context) error {
	_ = os.Remove(s.path)

	ln, err := net.Listen("unix", s.path)
	if err != nil {
		return errListenFailed(s.path, err)
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			s.log.Warning("control: accept failed", err)
			return nil
		}
		s.wg.Add(1)
		go s.serve(conn)
	}
}

func (s *Server) stop(context.Context) error {
	s.mu.Lock()
	ln := s.listener
	s.listener = nil
	s.mu.Unlock()

	if ln != nil {
		_ = ln.Close()
	}
	s.wg.Wait()
	_ = os.Remove(s.path)
	return nil
}

func (s *Server) serve(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	writer := bufio.NewWriter(conn)
	defer writer.Flush()

	for scanner.Scan() {
		reply := s.handler.Dispatch(scanner.Text())
		writer.WriteString(reply)
		writer.WriteString("\n\n")
		if err := writer.Flush(); err != nil {
			s.log.Warning("control: write failed", err)
			return
		}
	}
}
