package script

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"tilenav/internal/grid"
	"tilenav/internal/interact"
)

func TestSignScript(t *testing.T) {
	h, err := Load(filepath.Join("..", "..", "..", "assets", "scripts"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !h.Has("sign") {
		t.Fatalf("Expected a sign handler, have %v", h.Tags())
	}

	ev := interact.Event{Tag: "sign", Pos: grid.Pos{X: 4, Y: 1}, TileID: 0, Actor: grid.Pos{X: 3, Y: 1}}
	resp, err := h.Handle(context.Background(), ev)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !resp.Handled {
		t.Fatalf("Expected sign to be handled")
	}
	if resp.Message != "Sign at (4, 1): Ramp hall. Mind your step." {
		t.Errorf("Unexpected message %q", resp.Message)
	}
	if resp.Data["read"] != true {
		t.Errorf("Expected data.read to be true, got %v", resp.Data)
	}

	ev.Pos = grid.Pos{X: 9, Y: 9}
	resp, err = h.Handle(context.Background(), ev)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !strings.HasSuffix(resp.Message, "The sign is blank.") {
		t.Errorf("Expected blank sign text, got %q", resp.Message)
	}
}

func TestHandleWithoutScript(t *testing.T) {
	h, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	resp, err := h.Handle(context.Background(), interact.Event{Tag: "chest"})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if resp.Handled {
		t.Errorf("Expected unhandled response, got %+v", resp)
	}

	h, err = Load(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("Expected missing directory to load empty, got %v", err)
	}
	if len(h.Tags()) != 0 {
		t.Errorf("Expected no handlers, got %v", h.Tags())
	}
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"door.tengo":  `message := "opened " + tag`,
		"lever.tengo": `data := {pulled: true, at: [x, y]}`,
		"notes.txt":   "not a script",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	h, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := strings.Join(h.Tags(), ","); got != "door,lever" {
		t.Errorf("Expected tags door,lever got %s", got)
	}

	resp, err := h.Handle(context.Background(), interact.Event{Tag: "door"})
	if err != nil || resp.Message != "opened door" {
		t.Errorf("door: %+v %v", resp, err)
	}

	resp, err = h.Handle(context.Background(), interact.Event{Tag: "lever", Pos: grid.Pos{X: 2, Y: 5}})
	if err != nil {
		t.Fatalf("lever: %v", err)
	}
	if resp.Message != "" || resp.Data["pulled"] != true {
		t.Errorf("lever: unexpected response %+v", resp)
	}
}

func TestLoadCompileError(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.tengo"), []byte("message := "), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(dir); err == nil {
		t.Errorf("Expected compile error")
	}
}

func TestHandleRuntimeErrorAndTimeout(t *testing.T) {
	h, _ := Load("")
	if err := h.Compile("boom", []byte(`message := 1 / (x - x)`)); err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if _, err := h.Handle(context.Background(), interact.Event{Tag: "boom"}); err == nil {
		t.Errorf("Expected runtime error")
	}

	if err := h.Compile("spin", []byte(`for true {}`)); err != nil {
		t.Fatalf("Compile: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := h.Handle(ctx, interact.Event{Tag: "spin"}); err == nil {
		t.Errorf("Expected the context deadline to stop the script")
	}
}

func TestHandleConcurrent(t *testing.T) {
	h, _ := Load("")
	if err := h.Compile("echo", []byte(`fmt := import("fmt"); message := fmt.sprintf("%d", x)`)); err != nil {
		t.Fatalf("Compile: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan string, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := h.Handle(context.Background(), interact.Event{Tag: "echo", Pos: grid.Pos{X: i}})
			if err != nil {
				errs <- err.Error()
				return
			}
			if resp.Message != strconv.Itoa(i) {
				errs <- "got " + resp.Message + " for " + strconv.Itoa(i)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Error(e)
	}
}
