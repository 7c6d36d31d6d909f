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

package main

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/syslog-ng/logcore/config"
	"github.com/syslog-ng/logcore/logger"
	"github.com/syslog-ng/logcore/message"
	"github.com/syslog-ng/logcore/persist"
	"github.com/syslog-ng/logcore/queue"
	"github.com/syslog-ng/logcore/stats"
)

var _ = Describe("buildDestination", func() {
	It("delivers pushed messages to the configured output file", func() {
		ctx := context.Background()
		log := logger.New(ctx)
		reg := stats.NewRegistry(stats.LevelNormal, 100)
		store := persist.NewMemory()

		out := filepath.Join(GinkgoT().TempDir(), "d0.out")
		drv, dirs, err := buildDestination(ctx, config.DestinationOptions{
			Key:        "d0",
			NumWorkers: 1,
			BatchLines: 1,
			OutputPath: out,
		}, reg, store, log)
		Expect(err).NotTo(HaveOccurred())
		Expect(dirs).To(BeEmpty())

		Expect(drv.Start(ctx)).To(Succeed())
		defer drv.Stop(ctx)

		m := message.New(message.NewPriority(message.Facility(1), 4), time.Now(), time.Now(), nil)
		m.SetValue("MESSAGE", message.Value{Type: message.TypeString, Raw: []byte("hello from worker")})
		Expect(drv.PushTail(queue.Entry{Message: m})).To(Succeed())

		Eventually(func() string {
			b, _ := os.ReadFile(out)
			return string(b)
		}, time.Second).Should(ContainSubstring("hello from worker"))
	})

	It("registers a change-per-second derived counter per destination", func() {
		ctx := context.Background()
		log := logger.New(ctx)
		reg := stats.NewRegistry(stats.LevelNormal, 100)
		store := persist.NewMemory()

		_, _, err := buildDestination(ctx, config.DestinationOptions{
			Key: "d1", NumWorkers: 1, BatchLines: 1,
			OutputPath: filepath.Join(GinkgoT().TempDir(), "d1.out"),
		}, reg, store, log)
		Expect(err).NotTo(HaveOccurred())

		results := reg.Get("destination.d1.events_delivered_per_min")
		Expect(results).To(HaveLen(1))
		Expect(results[0].Value).To(Equal(int64(0)))
	})
})

var _ = Describe("router", func() {
	It("fans a message only to destinations whose filter accepts it", func() {
		ctx := context.Background()
		log := logger.New(ctx)
		reg := stats.NewRegistry(stats.LevelNormal, 100)
		store := persist.NewMemory()
		dir := GinkgoT().TempDir()

		allOut := filepath.Join(dir, "all.out")
		allDrv, _, err := buildDestination(ctx, config.DestinationOptions{
			Key: "all", NumWorkers: 1, BatchLines: 1, OutputPath: allOut,
		}, reg, store, log)
		Expect(err).NotTo(HaveOccurred())
		Expect(allDrv.Start(ctx)).To(Succeed())
		defer allDrv.Stop(ctx)

		warnOut := filepath.Join(dir, "warn.out")
		warnOpt := config.DestinationOptions{
			Key: "warn", NumWorkers: 1, BatchLines: 1, OutputPath: warnOut, MinSeverity: "warning",
		}
		warnDrv, _, err := buildDestination(ctx, warnOpt, reg, store, log)
		Expect(err).NotTo(HaveOccurred())
		Expect(warnDrv.Start(ctx)).To(Succeed())
		defer warnDrv.Stop(ctx)

		warnFilter, err := warnOpt.FilterNode()
		Expect(err).NotTo(HaveOccurred())

		r := newRouter(log, []route{
			{key: "all", filter: nil, driver: allDrv},
			{key: "warn", filter: warnFilter, driver: warnDrv},
		})

		info := message.New(message.NewPriority(message.Facility(1), 6), time.Now(), time.Now(), nil)
		info.SetValue("MESSAGE", message.Value{Type: message.TypeString, Raw: []byte("info line")})
		Expect(r.PushTail(queue.Entry{Message: info})).To(Succeed())

		crit := message.New(message.NewPriority(message.Facility(1), 2), time.Now(), time.Now(), nil)
		crit.SetValue("MESSAGE", message.Value{Type: message.TypeString, Raw: []byte("crit line")})
		Expect(r.PushTail(queue.Entry{Message: crit})).To(Succeed())

		Eventually(func() string {
			b, _ := os.ReadFile(allOut)
			return string(b)
		}, time.Second).Should(SatisfyAll(ContainSubstring("info line"), ContainSubstring("crit line")))

		Eventually(func() string {
			b, _ := os.ReadFile(warnOut)
			return string(b)
		}, time.Second).Should(SatisfyAll(ContainSubstring("crit line"), Not(ContainSubstring("info line"))))
	})
})

var _ = Describe("buildSource", func() {
	It("accepts a TCP connection and pushes a message into its sink", func() {
		ctx := context.Background()
		log := logger.New(ctx)
		reg := stats.NewRegistry(stats.LevelNormal, 100)
		store := persist.NewMemory()
		dir := GinkgoT().TempDir()

		out := filepath.Join(dir, "d0.out")
		destDrv, _, err := buildDestination(ctx, config.DestinationOptions{
			Key: "d0", NumWorkers: 1, BatchLines: 1, OutputPath: out,
		}, reg, store, log)
		Expect(err).NotTo(HaveOccurred())
		Expect(destDrv.Start(ctx)).To(Succeed())
		defer destDrv.Stop(ctx)

		sink := newRouter(log, []route{{key: "d0", filter: nil, driver: destDrv}})

		srcDrv, err := buildSource(ctx, config.SourceOptions{
			Key: "s0", Network: "tcp", Address: "127.0.0.1:0", MaxConnections: 5,
		}, sink, reg, store, log)
		Expect(err).NotTo(HaveOccurred())
		Expect(srcDrv.Start(ctx)).To(Succeed())
		defer srcDrv.Stop(ctx)

		conn, err := net.Dial("tcp", srcDrv.Addr().String())
		Expect(err).NotTo(HaveOccurred())
		_, err = conn.Write([]byte("hello over the wire\n"))
		Expect(err).NotTo(HaveOccurred())
		Expect(conn.Close()).To(Succeed())

		Eventually(func() string {
			b, _ := os.ReadFile(out)
			return string(b)
		}, 2*time.Second).Should(ContainSubstring("hello over the wire"))
	})
})

var _ = Describe("buildStore", func() {
	It("returns an in-memory store when path is empty", func() {
		store, err := buildStore("")
		Expect(err).NotTo(HaveOccurred())
		Expect(store).To(BeAssignableToTypeOf(persist.NewMemory()))
	})

	It("opens a SQLite-backed store when a path is given", func() {
		path := filepath.Join(GinkgoT().TempDir(), "persist.db")
		store, err := buildStore(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(store).NotTo(BeNil())
	})
})
