// Package live delivers asynchronous widget data. Integrations drop JSON
// payload files named <topic>.json into a spool directory; the feed watches
// the directory, debounces write bursts, and fans payloads out to topic
// subscribers. The transport is deliberately dumb: consistency against local
// edits is the session's suppression window, not the feed's problem.
package live

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Handler receives raw payload bytes for a topic.
type Handler func(payload []byte)

// ErrorHandler receives delivery errors for a topic.
type ErrorHandler func(err error)

type subscriber struct {
	id      uint64
	onData  Handler
	onError ErrorHandler
}

// Feed watches a spool directory and dispatches payloads to subscribers.
type Feed struct {
	dir     string
	watcher *fsnotify.Watcher

	mu     sync.Mutex
	subs   map[string][]subscriber
	bounce map[string]*Debouncer
	nextID uint64

	done chan struct{}
}

// NewFeed creates a feed over the given spool directory, creating the
// directory if needed, and starts the watch loop.
func NewFeed(dir string) (*Feed, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create feed directory: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	f := &Feed{
		dir:     dir,
		watcher: watcher,
		subs:    make(map[string][]subscriber),
		bounce:  make(map[string]*Debouncer),
		done:    make(chan struct{}),
	}
	go f.loop()
	return f, nil
}

// Subscribe registers handlers for a topic and returns an unsubscribe
// function. onError may be nil.
func (f *Feed) Subscribe(topic string, onData Handler, onError ErrorHandler) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := f.nextID
	f.subs[topic] = append(f.subs[topic], subscriber{id: id, onData: onData, onError: onError})

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		subs := f.subs[topic]
		for i := range subs {
			if subs[i].id == id {
				f.subs[topic] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
	}
}

// Close stops the watch loop and releases the watcher.
func (f *Feed) Close() error {
	close(f.done)
	f.mu.Lock()
	for _, d := range f.bounce {
		d.Cancel()
	}
	f.mu.Unlock()
	return f.watcher.Close()
}

func (f *Feed) loop() {
	for {
		select {
		case <-f.done:
			return
		case event, ok := <-f.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			topic := topicFor(event.Name)
			if topic == "" {
				continue
			}
			f.debouncerFor(topic).Trigger(func() {
				f.deliver(topic, event.Name)
			})
		case err, ok := <-f.watcher.Errors:
			if !ok {
				return
			}
			f.broadcastError(err)
		}
	}
}

func topicFor(path string) string {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, ".json") {
		return ""
	}
	return strings.TrimSuffix(base, ".json")
}

func (f *Feed) debouncerFor(topic string) *Debouncer {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.bounce[topic]
	if !ok {
		d = NewDebouncer(DefaultDebounce)
		f.bounce[topic] = d
	}
	return d
}

func (f *Feed) deliver(topic, path string) {
	payload, err := readPayload(path)

	f.mu.Lock()
	subs := make([]subscriber, len(f.subs[topic]))
	copy(subs, f.subs[topic])
	f.mu.Unlock()

	for _, s := range subs {
		if err != nil {
			if s.onError != nil {
				s.onError(err)
			}
			continue
		}
		s.onData(payload)
	}
}

// readPayload reads a payload file, retrying once after a short pause when
// the writer has created the file but not finished the write.
func readPayload(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil && len(data) > 0 {
		return data, nil
	}
	time.Sleep(50 * time.Millisecond)
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read payload %s: %w", path, err)
	}
	return data, nil
}

func (f *Feed) broadcastError(err error) {
	f.mu.Lock()
	var all []subscriber
	for _, subs := range f.subs {
		all = append(all, subs...)
	}
	f.mu.Unlock()
	for _, s := range all {
		if s.onError != nil {
			s.onError(err)
		}
	}
}
