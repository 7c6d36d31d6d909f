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

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	spfvpr "github.com/spf13/viper"

	"github.com/syslog-ng/logcore/destination/worker"
	"github.com/syslog-ng/logcore/filter"
	"github.com/syslog-ng/logcore/httpscrape"
	"github.com/syslog-ng/logcore/message"
	"github.com/syslog-ng/logcore/source/afsocket"
	"github.com/syslog-ng/logcore/window"
)

// StatsOptions mirrors the `stats(level, freq, lifetime, max-dynamic)`
// directive (spec §6).
type StatsOptions struct {
	Level      int           `mapstructure:"level"`
	Freq       time.Duration `mapstructure:"freq"`
	Lifetime   time.Duration `mapstructure:"lifetime"`
	MaxDynamic int           `mapstructure:"max_dynamic"`
}

// DiskBufferOptions mirrors `disk-buffer(dir-stats-freq)`.
type DiskBufferOptions struct {
	DirStatsFreq time.Duration `mapstructure:"dir_stats_freq"`
}

// SourceOptions mirrors the AF_SOCKET source options table.
type SourceOptions struct {
	Key                      string        `mapstructure:"key"`
	Network                  string        `mapstructure:"network"`
	Address                  string        `mapstructure:"address"`
	MaxConnections           int           `mapstructure:"max_connections"`
	ListenBacklog            int           `mapstructure:"listen_backlog"`
	DynamicWindowSize        int           `mapstructure:"dynamic_window_size"`
	DynamicWindowStatsFreq   time.Duration `mapstructure:"dynamic_window_stats_freq"`
	DynamicWindowReallocTick int           `mapstructure:"dynamic_window_realloc_ticks"`
	KeepAlive                bool          `mapstructure:"keep_alive"`

	// DynamicWindowMirrorAddrs, if non-empty, mirrors this source's
	// per-connection dynamic-window credit to a RedisMirror sharded across
	// these "host:port" endpoints, for external observability dashboards.
	DynamicWindowMirrorAddrs []string `mapstructure:"dynamic_window_mirror_addrs"`
}

// DestinationOptions mirrors the threaded destination driver options table.
type DestinationOptions struct {
	Key              string        `mapstructure:"key"`
	BatchLines       int           `mapstructure:"batch_lines"`
	BatchTimeout     time.Duration `mapstructure:"batch_timeout"`
	TimeReopen       time.Duration `mapstructure:"time_reopen"`
	NumWorkers       int           `mapstructure:"num_workers"`
	FlushOnKeyChange bool          `mapstructure:"flush_on_key_change"`
	Retries          int           `mapstructure:"retries"`
	MaxRetries       int           `mapstructure:"max_retries"`
	QueueDir         string        `mapstructure:"queue_dir"`

	// OutputPath is where cmd/syslogngcore's reference file Inserter
	// appends delivered lines. Any other Inserter implementation ignores it.
	OutputPath string `mapstructure:"output_path"`

	// MinSeverity gates this destination's log path with a
	// filter.NewSeverityRange(min, Severity(7)) node; empty means no filter
	// (every message routed to this destination is accepted).
	MinSeverity string `mapstructure:"min_severity"`
}

// ControlOptions configures the UNIX control socket.
type ControlOptions struct {
	Path string `mapstructure:"path"`
}

// networkByName maps the `network()` keywords accepted by SourceOptions.Network.
var networkByName = map[string]afsocket.Network{
	"tcp":        afsocket.NetworkTCP,
	"udp":        afsocket.NetworkUDP,
	"unix":       afsocket.NetworkUnix,
	"unixgram":   afsocket.NetworkUnixgram,
	"unix-dgram": afsocket.NetworkUnixgram,
}

// severityByName maps the syslog severity keywords accepted by MinSeverity.
var severityByName = map[string]message.Severity{
	"emerg":   0,
	"alert":   1,
	"crit":    2,
	"err":     3,
	"warning": 4,
	"notice":  5,
	"info":    6,
	"debug":   7,
}

// FilterNode builds the filter.Node MinSeverity describes, or nil if unset.
func (d DestinationOptions) FilterNode() (filter.Node, error) {
	if d.MinSeverity == "" {
		return nil, nil
	}
	min, ok := severityByName[strings.ToLower(d.MinSeverity)]
	if !ok {
		return nil, fmt.Errorf("destination %q: unknown min_severity %q", d.Key, d.MinSeverity)
	}
	return filter.NewSeverityRange(min, message.Severity(7), false), nil
}

// Options is the complete, process-wide configuration the engine reads at
// start and on every Reload. A minimal static configuration is read into
// this struct directly; the full syslog-ng grammar/lexer is out of scope
// (spec Non-goals).
type Options struct {
	Stats        StatsOptions         `mapstructure:"stats"`
	DiskBuffer   DiskBufferOptions    `mapstructure:"disk_buffer"`
	Sources      []SourceOptions      `mapstructure:"sources"`
	Destinations []DestinationOptions `mapstructure:"destinations"`
	Control      ControlOptions       `mapstructure:"control"`
	HTTPScrape   httpscrape.Config    `mapstructure:"http_scrape"`

	// PersistPath, if set, backs sequence-number and listen-fd persistence
	// with a SQLite file (persist.OpenSQLite) instead of persist.NewMemory.
	PersistPath string `mapstructure:"persist_path"`
}

// Load reads environment overrides from envFile (ignored if it does not
// exist, following godotenv's convention of augmenting rather than
// replacing an already-populated environment), then reads configPath
// through Viper, unmarshalling into a fresh Options.
func Load(configPath, envFile string) (*Options, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("loading env file %q: %w", envFile, err)
		}
	}

	v := spfvpr.New()
	v.SetEnvPrefix("SYSLOGNG")
	v.AutomaticEnv()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config %q: %w", configPath, err)
	}

	var opt Options
	hook := mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
	if err := v.Unmarshal(&opt, spfvpr.DecodeHook(hook)); err != nil {
		return nil, fmt.Errorf("unmarshalling config %q: %w", configPath, err)
	}

	opt.setDefaults()
	return &opt, nil
}

func (o *Options) setDefaults() {
	if o.Stats.Freq <= 0 {
		o.Stats.Freq = time.Minute
	}
	if o.DiskBuffer.DirStatsFreq <= 0 {
		o.DiskBuffer.DirStatsFreq = 30 * time.Second
	}
}

// WindowConfig translates a SourceOptions into a window.Config for the
// dynamic-window pool backing its AF_SOCKET listener.
func (s SourceOptions) WindowConfig() window.Config {
	return window.Config{
		PoolSize:       s.MaxConnections,
		StaticWindow:   s.DynamicWindowSize,
		MaxConnections: s.MaxConnections,
		ReallocTicks:   s.DynamicWindowReallocTick,
		StatsInterval:  s.DynamicWindowStatsFreq,
	}
}

// AFSocketConfig translates a SourceOptions into an afsocket.Config, wiring
// win as the shared dynamic-window pool built from WindowConfig.
func (s SourceOptions) AFSocketConfig(win *window.Pool) (afsocket.Config, error) {
	net, ok := networkByName[strings.ToLower(s.Network)]
	if !ok {
		return afsocket.Config{}, fmt.Errorf("source %q: unknown network %q", s.Key, s.Network)
	}
	return afsocket.Config{
		Net:            net,
		Address:        s.Address,
		ListenBacklog:  s.ListenBacklog,
		MaxConnections: s.MaxConnections,
		KeepAlive:      s.KeepAlive,
		Window:         win,
		StaticWindow:   s.DynamicWindowSize,
	}, nil
}

// WorkerConfig translates a DestinationOptions into a worker.Config.
func (d DestinationOptions) WorkerConfig() worker.Config {
	return worker.Config{
		NumWorkers:        d.NumWorkers,
		FlushOnKeyChange:  d.FlushOnKeyChange,
		BatchLines:        d.BatchLines,
		BatchTimeout:      d.BatchTimeout,
		TimeReopen:        d.TimeReopen,
		RetriesMax:        d.Retries,
		RetriesOnErrorMax: d.MaxRetries,
	}
}
