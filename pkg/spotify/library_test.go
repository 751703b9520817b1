package spotify

import (
	"context"
	"net/http"
	"testing"
)

func TestLibraryService(t *testing.T) {
	var lastMethod string
	client, _ := newTestServers(t, func(w http.ResponseWriter, r *http.Request) {
		if ids := r.URL.Query().Get("ids"); ids != "track-1" {
			t.Errorf("expected ids track-1, got %s", ids)
		}
		lastMethod = r.Method
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/me/tracks/contains":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[true]`))
		case r.URL.Path == "/me/tracks":
			w.WriteHeader(http.StatusOK)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})
	ctx := context.Background()

	saved, err := client.Library().ContainsTrack(ctx, "track-1")
	if err != nil {
		t.Fatalf("ContainsTrack: %v", err)
	}
	if !saved {
		t.Error("expected track to be saved")
	}

	if err := client.Library().SaveTrack(ctx, "track-1"); err != nil {
		t.Fatalf("SaveTrack: %v", err)
	}
	if lastMethod != http.MethodPut {
		t.Errorf("expected PUT, got %s", lastMethod)
	}

	if err := client.Library().RemoveTrack(ctx, "track-1"); err != nil {
		t.Fatalf("RemoveTrack: %v", err)
	}
	if lastMethod != http.MethodDelete {
		t.Errorf("expected DELETE, got %s", lastMethod)
	}
}
