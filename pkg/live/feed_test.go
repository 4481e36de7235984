package live

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestFeed(t *testing.T) (*Feed, string) {
	t.Helper()
	dir := t.TempDir()
	f, err := NewFeed(dir)
	if err != nil {
		t.Fatalf("new feed: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f, dir
}

func waitFor(t *testing.T, ch <-chan []byte) []byte {
	t.Helper()
	select {
	case payload := <-ch:
		return payload
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for a payload")
		return nil
	}
}

func TestFeedDeliversTopicPayload(t *testing.T) {
	f, dir := newTestFeed(t)

	got := make(chan []byte, 1)
	f.Subscribe("media", func(p []byte) { got <- p }, nil)

	want := []byte(`{"now_playing": 3}`)
	if err := os.WriteFile(filepath.Join(dir, "media.json"), want, 0644); err != nil {
		t.Fatal(err)
	}

	if payload := waitFor(t, got); string(payload) != string(want) {
		t.Errorf("payload = %s, want %s", payload, want)
	}
}

func TestFeedRoutesByTopic(t *testing.T) {
	f, dir := newTestFeed(t)

	media := make(chan []byte, 1)
	sysload := make(chan []byte, 1)
	f.Subscribe("media", func(p []byte) { media <- p }, nil)
	f.Subscribe("sysload", func(p []byte) { sysload <- p }, nil)

	if err := os.WriteFile(filepath.Join(dir, "sysload.json"), []byte(`{"load1": 0.4}`), 0644); err != nil {
		t.Fatal(err)
	}

	waitFor(t, sysload)
	select {
	case p := <-media:
		t.Errorf("media subscriber received another topic's payload: %s", p)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestFeedIgnoresNonJSONFiles(t *testing.T) {
	f, dir := newTestFeed(t)

	got := make(chan []byte, 1)
	f.Subscribe("notes", func(p []byte) { got <- p }, nil)

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("nope"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.json.tmp"), []byte("nope"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case p := <-got:
		t.Errorf("non-json spool file delivered: %s", p)
	case <-time.After(400 * time.Millisecond):
	}
}

func TestFeedUnsubscribeStopsDelivery(t *testing.T) {
	f, dir := newTestFeed(t)

	got := make(chan []byte, 4)
	unsub := f.Subscribe("downloads", func(p []byte) { got <- p }, nil)

	path := filepath.Join(dir, "downloads.json")
	if err := os.WriteFile(path, []byte(`{"queued": 1}`), 0644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, got)

	unsub()
	if err := os.WriteFile(path, []byte(`{"queued": 2}`), 0644); err != nil {
		t.Fatal(err)
	}
	select {
	case p := <-got:
		t.Errorf("unsubscribed handler still received: %s", p)
	case <-time.After(400 * time.Millisecond):
	}
}

func TestFeedCoalescesWriteBurst(t *testing.T) {
	f, dir := newTestFeed(t)

	got := make(chan []byte, 16)
	f.Subscribe("sysload", func(p []byte) { got <- p }, nil)

	path := filepath.Join(dir, "sysload.json")
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte(`{"load1": 0.9}`), 0644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	waitFor(t, got)
	select {
	case <-got:
		t.Error("write burst delivered more than one payload")
	case <-time.After(400 * time.Millisecond):
	}
}

func TestTopicFor(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/spool/media.json", "media"},
		{"/spool/sysload.json", "sysload"},
		{"/spool/media.txt", ""},
		{"/spool/media.json.tmp", ""},
		{"media.json", "media"},
	}
	for _, tt := range tests {
		if got := topicFor(tt.path); got != tt.want {
			t.Errorf("topicFor(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
