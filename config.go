package main

import (
	"log"
	"os"
	"path/filepath"
	"sync"

	"recpay/pkg/ledger"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// payeeFile is the on-disk shape of payee.yaml.
type payeeFile struct {
	VPA  string `yaml:"vpa"`
	Name string `yaml:"name"`
}

// payeeSource serves the current UPI collection account. It implements
// ledger.PayeeSource and is safe for concurrent reads while the watcher
// swaps the value underneath.
type payeeSource struct {
	mu  sync.RWMutex
	cur ledger.Payee
}

func (s *payeeSource) Payee() ledger.Payee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

func (s *payeeSource) set(p ledger.Payee) {
	s.mu.Lock()
	s.cur = p
	s.mu.Unlock()
}

var payees = &payeeSource{}

// payeeConfigPath returns the payee config file location (PAYEE_CONFIG env, default ./payee.yaml)
func payeeConfigPath() string {
	if v := os.Getenv("PAYEE_CONFIG"); v != "" {
		return v
	}
	return "payee.yaml"
}

// loadPayeeConfig resolves the payee from env defaults overlaid with
// payee.yaml when present.
func loadPayeeConfig() {
	p := ledger.Payee{VPA: os.Getenv("UPI_VPA"), Name: os.Getenv("UPI_PAYEE_NAME")}
	if p.VPA == "" {
		p.VPA = "collect@upi"
	}
	if p.Name == "" {
		p.Name = "Record Collections"
	}
	path := payeeConfigPath()
	if b, err := os.ReadFile(filepath.Clean(path)); err == nil {
		var cfg payeeFile
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			log.Printf("payee config %s ignored: %v", path, err)
		} else {
			if cfg.VPA != "" {
				p.VPA = cfg.VPA
			}
			if cfg.Name != "" {
				p.Name = cfg.Name
			}
		}
	}
	payees.set(p)
}

// startPayeeWatcher loads the payee config and reloads it whenever the file
// changes, so the collection VPA can be rotated without a restart.
func startPayeeWatcher() {
	loadPayeeConfig()
	w, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("payee watcher disabled: %v", err)
		return
	}
	path := payeeConfigPath()
	// watch the directory: editors replace the file, which drops a watch
	// placed on the file itself
	if err := w.Add(filepath.Dir(path)); err != nil {
		log.Printf("payee watcher disabled: %v", err)
		_ = w.Close()
		return
	}
	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != filepath.Clean(path) {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					loadPayeeConfig()
					log.Printf("reloaded payee config from %s", path)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Printf("payee watcher: %v", err)
			}
		}
	}()
}
