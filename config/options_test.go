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

package config_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/syslog-ng/logcore/config"
	"github.com/syslog-ng/logcore/message"
	"github.com/syslog-ng/logcore/source/afsocket"
)

const sampleConfig = `
stats:
  level: 2
  freq: 10s
  lifetime: 5m
  max_dynamic: 1000
disk_buffer:
  dir_stats_freq: 15s
sources:
  - key: tcp0
    network: tcp
    address: "127.0.0.1:6514"
    max_connections: 100
    listen_backlog: 64
    keep_alive: true
destinations:
  - key: file0
    batch_lines: 50
    batch_timeout: 1s
    num_workers: 4
    output_path: /tmp/file0.out
    min_severity: warning
control:
  path: /tmp/syslogng.ctl
http_scrape:
  listen: "127.0.0.1:8080"
  pattern: "GET /metrics*"
  format: prometheus
persist_path: /tmp/syslogng.persist
`

var _ = Describe("Load", func() {
	var path string

	BeforeEach(func() {
		path = filepath.Join(GinkgoT().TempDir(), "config.yaml")
		Expect(os.WriteFile(path, []byte(sampleConfig), 0o644)).To(Succeed())
	})

	It("unmarshals every section", func() {
		opt, err := config.Load(path, "")
		Expect(err).NotTo(HaveOccurred())

		Expect(opt.Stats.Level).To(Equal(2))
		Expect(opt.Stats.Freq).To(Equal(10 * time.Second))
		Expect(opt.Stats.MaxDynamic).To(Equal(1000))

		Expect(opt.DiskBuffer.DirStatsFreq).To(Equal(15 * time.Second))

		Expect(opt.Sources).To(HaveLen(1))
		Expect(opt.Sources[0].Address).To(Equal("127.0.0.1:6514"))
		Expect(opt.Sources[0].KeepAlive).To(BeTrue())

		Expect(opt.Destinations).To(HaveLen(1))
		Expect(opt.Destinations[0].NumWorkers).To(Equal(4))
		Expect(opt.Destinations[0].OutputPath).To(Equal("/tmp/file0.out"))
		Expect(opt.Destinations[0].MinSeverity).To(Equal("warning"))

		Expect(opt.Control.Path).To(Equal("/tmp/syslogng.ctl"))
		Expect(opt.HTTPScrape.Listen).To(Equal("127.0.0.1:8080"))
		Expect(opt.HTTPScrape.Pattern).To(Equal("GET /metrics*"))

		Expect(opt.PersistPath).To(Equal("/tmp/syslogng.persist"))
	})

	It("defaults stats freq and dir-stats-freq when unset", func() {
		const minimal = "control:\n  path: /tmp/syslogng.ctl\n"
		p := filepath.Join(GinkgoT().TempDir(), "minimal.yaml")
		Expect(os.WriteFile(p, []byte(minimal), 0o644)).To(Succeed())

		opt, err := config.Load(p, "")
		Expect(err).NotTo(HaveOccurred())
		Expect(opt.Stats.Freq).To(Equal(time.Minute))
		Expect(opt.DiskBuffer.DirStatsFreq).To(Equal(30 * time.Second))
	})

	It("returns an error for a missing config file", func() {
		_, err := config.Load(filepath.Join(GinkgoT().TempDir(), "missing.yaml"), "")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("DestinationOptions.FilterNode", func() {
	It("returns nil when min_severity is unset", func() {
		node, err := (config.DestinationOptions{Key: "d0"}).FilterNode()
		Expect(err).NotTo(HaveOccurred())
		Expect(node).To(BeNil())
	})

	It("builds a severity-range filter accepting min_severity and worse", func() {
		node, err := (config.DestinationOptions{Key: "d0", MinSeverity: "Warning"}).FilterNode()
		Expect(err).NotTo(HaveOccurred())
		Expect(node).NotTo(BeNil())

		warn := message.New(message.NewPriority(message.Facility(1), 4), time.Now(), time.Now(), nil)
		info := message.New(message.NewPriority(message.Facility(1), 6), time.Now(), time.Now(), nil)
		crit := message.New(message.NewPriority(message.Facility(1), 2), time.Now(), time.Now(), nil)

		Expect(node.Eval([]message.Message{warn})).To(BeTrue())
		Expect(node.Eval([]message.Message{info})).To(BeFalse())
		Expect(node.Eval([]message.Message{crit})).To(BeTrue())
	})

	It("rejects an unknown min_severity", func() {
		_, err := (config.DestinationOptions{Key: "d0", MinSeverity: "catastrophic"}).FilterNode()
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("SourceOptions.AFSocketConfig", func() {
	It("resolves the network keyword", func() {
		s := config.SourceOptions{Key: "s0", Network: "TCP", Address: "127.0.0.1:0", MaxConnections: 5}
		cfg, err := s.AFSocketConfig(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Net).To(Equal(afsocket.NetworkTCP))
	})

	It("rejects an unknown network keyword", func() {
		s := config.SourceOptions{Key: "s0", Network: "sctp"}
		_, err := s.AFSocketConfig(nil)
		Expect(err).To(HaveOccurred())
	})
})
