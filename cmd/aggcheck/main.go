// Copyright 2024 ColexecDB Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// aggcheck runs the built-in aggregation equivalence suites and exits
// non-zero if any suite detects a disagreement between execution
// strategies.
package main

import (
	"flag"
	"os"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/BurntSushi/toml"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/colexecdb/aggcheck/pkg/logutil"
)

type config struct {
	// Workers caps suite concurrency. Zero means GOMAXPROCS.
	Workers int `toml:"workers"`

	Log logutil.LogConfig `toml:"log"`
}

func defaultConfig() *config {
	return &config{
		Log: logutil.LogConfig{Level: "info", Format: "console"},
	}
}

func loadConfig(path string) (*config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(cfg *config) int {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		logutil.Error("create worker pool", zap.Error(err))
		return 1
	}
	defer pool.Release()

	var (
		wg     sync.WaitGroup
		failed atomic.Int64
	)
	suites := builtinSuites()
	for _, s := range suites {
		s := s
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			if err := s.run(); err != nil {
				failed.Add(1)
				logutil.Error("suite failed", zap.String("suite", s.name), zap.Error(err))
				return
			}
			logutil.Info("suite passed", zap.String("suite", s.name))
		})
		if err != nil {
			wg.Done()
			failed.Add(1)
			logutil.Error("submit suite", zap.String("suite", s.name), zap.Error(err))
		}
	}
	wg.Wait()

	if n := failed.Load(); n > 0 {
		logutil.Error("equivalence violations detected", zap.Int64("suites", n))
		return 1
	}
	logutil.Info("all suites passed", zap.Int("suites", len(suites)))
	return 0
}

func main() {
	cfgPath := flag.String("cfg", "", "path to a toml config file")
	flag.Parse()

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		logutil.Error("load config", zap.Error(err))
		os.Exit(1)
	}
	logutil.SetupLogger(&cfg.Log)

	os.Exit(run(cfg))
}
