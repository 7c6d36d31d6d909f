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

// Package control implements the line-oriented control socket of spec §6:
// STATS, RESET_STATS, LOG, STOP, RELOAD, QUERY, plus the supplemented
// HEALTHCHECK command.
package control

import (
	"fmt"
	"strings"
)

// Hooks is the set of callbacks a Handler dispatches into; the caller (the
// process entrypoint) supplies the real main-loop actions, keeping this
// package free of any dependency on how the engine is actually wired.
type Hooks struct {
	// Stats dumps every counter in CSV format (spec §6 STATS).
	Stats func() string
	// ResetStats zeroes every non-external counter (spec §6 RESET_STATS).
	ResetStats func()
	// GetLogFlag and SetLogFlag implement LOG <flag> [ON|OFF].
	GetLogFlag func(flag string) (bool, error)
	SetLogFlag func(flag string, on bool) error
	// Stop requests the main loop to exit.
	Stop func()
	// Reload requests a configuration reload.
	Reload func()
	// Query answers QUERY GET|GET_SUM|LIST <pattern> (spec §4.1).
	Query func(sub, pattern string) (string, error)
	// Healthcheck reports the staleness of every registered component
	// (original_source/lib/healthcheck-stats.c, supplemented feature).
	Healthcheck func() (string, bool)
}

// Handler dispatches parsed control-socket commands against Hooks.
type Handler struct {
	hooks Hooks
}

// NewHandler builds a Handler bound to hooks. Any nil hook answers its
// command with an error reply rather than panicking.
func NewHandler(hooks Hooks) *Handler {
	return &Handler{hooks: hooks}
}

// Dispatch parses and executes a single command line, returning the reply
// text (without the trailing blank-line terminator the wire protocol adds).
func (h *Handler) Dispatch(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "ERROR Empty command"
	}

	verb := strings.ToUpper(fields[0])
	args := fields[1:]

	switch verb {
	case "STATS":
		return h.stats()
	case "RESET_STATS":
		return h.resetStats()
	case "LOG":
		return h.log(args)
	case "STOP":
		return h.stop()
	case "RELOAD":
		return h.reload()
	case "QUERY":
		return h.query(args)
	case "HEALTHCHECK":
		return h.healthcheck()
	default:
		return fmt.Sprintf("ERROR Unknown command '%s'", fields[0])
	}
}

func (h *Handler) stats() string {
	if h.hooks.Stats == nil {
		return "ERROR STATS not available"
	}
	return h.hooks.Stats()
}

func (h *Handler) resetStats() string {
	if h.hooks.ResetStats == nil {
		return "ERROR RESET_STATS not available"
	}
	h.hooks.ResetStats()
	return "OK"
}

func (h *Handler) log(args []string) string {
	if len(args) == 0 {
		return "ERROR LOG requires a flag"
	}
	flag := strings.ToUpper(args[0])
	switch flag {
	case "DEBUG", "VERBOSE", "TRACE":
	default:
		return fmt.Sprintf("ERROR Unknown log flag '%s'", args[0])
	}

	if len(args) == 1 {
		if h.hooks.GetLogFlag == nil {
			return "ERROR LOG query not available"
		}
		on, err := h.hooks.GetLogFlag(flag)
		if err != nil {
			return "ERROR " + err.Error()
		}
		v := 0
		if on {
			v = 1
		}
		return fmt.Sprintf("%s=%d", flag, v)
	}

	setting := strings.ToUpper(args[1])
	var on bool
	switch setting {
	case "ON":
		on = true
	case "OFF":
		on = false
	default:
		return fmt.Sprintf("ERROR LOG setting must be ON or OFF, got '%s'", args[1])
	}

	if h.hooks.SetLogFlag == nil {
		return "ERROR LOG set not available"
	}
	if err := h.hooks.SetLogFlag(flag, on); err != nil {
		return "ERROR " + err.Error()
	}
	return "OK"
}

func (h *Handler) stop() string {
	if h.hooks.Stop == nil {
		return "ERROR STOP not available"
	}
	h.hooks.Stop()
	return "OK Shutdown initiated"
}

func (h *Handler) reload() string {
	if h.hooks.Reload == nil {
		return "ERROR RELOAD not available"
	}
	h.hooks.Reload()
	return "OK Config reload initiated"
}

func (h *Handler) query(args []string) string {
	if len(args) < 2 {
		return "ERROR QUERY requires <sub> <pattern>"
	}
	sub := strings.ToUpper(args[0])
	switch sub {
	case "GET", "GET_SUM", "LIST":
	default:
		return fmt.Sprintf("ERROR Unknown QUERY sub-command '%s'", args[0])
	}
	if h.hooks.Query == nil {
		return "ERROR QUERY not available"
	}
	pattern := strings.Join(args[1:], " ")
	reply, err := h.hooks.Query(sub, pattern)
	if err != nil {
		return "ERROR " + err.Error()
	}
	return reply
}

func (h *Handler) healthcheck() string {
	if h.hooks.Healthcheck == nil {
		return "ERROR HEALTHCHECK not available"
	}
	report, healthy := h.hooks.Healthcheck()
	if healthy {
		return "OK " + report
	}
	return "ERROR " + report
}
