package status

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"deckfw/lib/controller"
)

type fixed struct {
	st  controller.State
	err error
}

func (f fixed) State(context.Context) (controller.State, error) { return f.st, f.err }

func TestState(t *testing.T) {
	src := fixed{st: controller.State{Preset: 1, Name: "alt", Pressed: []int{3}}}
	srv := httptest.NewServer(Handler(src))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/api/state")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("got status %d", resp.StatusCode)
	}

	var got controller.State
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Name != "alt" || len(got.Pressed) != 1 || got.Pressed[0] != 3 {
		t.Errorf("got %+v", got)
	}
}

func TestStateUnavailable(t *testing.T) {
	srv := httptest.NewServer(Handler(fixed{err: errors.New("stopped")}))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/api/state")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("got status %d, want 503", resp.StatusCode)
	}
}

func TestMethod(t *testing.T) {
	srv := httptest.NewServer(Handler(fixed{}))
	t.Cleanup(srv.Close)

	resp, err := http.Post(srv.URL+"/api/state", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("got status %d, want 405", resp.StatusCode)
	}
}
