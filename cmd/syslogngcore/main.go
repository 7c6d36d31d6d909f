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
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"github.com/syslog-ng/logcore/config"
	"github.com/syslog-ng/logcore/console"
	"github.com/syslog-ng/logcore/logger"
)

func main() {
	configPath := flag.String("config", "syslogng.yaml", "path to the static configuration document")
	envFile := flag.String("env", "", "optional .env file merged into the process environment before config load")
	flag.Parse()

	if err := run(*configPath, *envFile); err != nil {
		console.SetColor(console.ColorPrint, int(color.FgRed))
		console.ColorPrint.PrintLnf("syslogngcore: %v", err)
		os.Exit(1)
	}
}

func run(configPath, envFile string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log := logger.New(ctx)

	opt, err := config.Load(configPath, envFile)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	rt, err := buildEngine(ctx, opt, log, cancel)
	if err != nil {
		return fmt.Errorf("wiring engine: %w", err)
	}

	if err := rt.eng.Start(ctx); err != nil {
		return fmt.Errorf("starting engine: %w", err)
	}
	console.SetColor(console.ColorPrint, int(color.FgGreen))
	console.ColorPrint.Println("syslogngcore: started")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	for {
		select {
		case <-ctx.Done():
			shutdown(rt)
			return nil
		case s := <-sig:
			if s == syscall.SIGHUP {
				if err := rt.eng.Reload(ctx); err != nil {
					log.Error("syslogngcore: reload failed", err)
				}
				continue
			}
			cancel()
			shutdown(rt)
			return nil
		}
	}
}

func shutdown(rt *runtime) {
	stopCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rt.eng.Stop(stopCtx)
	_ = rt.store.Close()
}
