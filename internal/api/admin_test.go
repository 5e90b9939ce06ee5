package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAdminsDecodesBothShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bare array", `[{"id":1,"email":"a@b.c"},{"id":"2","email":"d@e.f"}]`},
		{"envelope", `{"admins":[{"id":1,"email":"a@b.c"},{"id":"2","email":"d@e.f"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := newTestClient(t, srv)
			admins, err := client.Admins(context.Background())
			if err != nil {
				t.Fatalf("Admins failed: %v", err)
			}
			if len(admins) != 2 {
				t.Fatalf("expected 2 admins, got %d", len(admins))
			}
			if admins[0].ID != "1" || admins[1].ID != "2" {
				t.Errorf("ids not normalized: %+v", admins)
			}
		})
	}
}

func TestAddAdminPostsEmail(t *testing.T) {
	var gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	if err := client.AddAdmin(context.Background(), "new@admin.io"); err != nil {
		t.Fatalf("AddAdmin failed: %v", err)
	}
	if gotPath != "/api/admin/addAdmin" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotBody != `{"email":"new@admin.io"}` {
		t.Errorf("unexpected body %q", gotBody)
	}
}

func TestRemoveAdminRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	err := client.RemoveAdmin(context.Background(), "u1")
	var rejected *RemoteRejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected RemoteRejectedError, got %T: %v", err, err)
	}
	if rejected.Status != http.StatusConflict {
		t.Errorf("expected status 409, got %d", rejected.Status)
	}
}

func TestBlacklistDecodesWordObjects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"word":"spoiler"},{"word":"spam"}]`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	words, err := client.Blacklist(context.Background())
	if err != nil {
		t.Fatalf("Blacklist failed: %v", err)
	}
	if len(words) != 2 || words[0] != "spoiler" || words[1] != "spam" {
		t.Errorf("unexpected words: %v", words)
	}
}

func TestBlacklistDecodesBareStrings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`["spoiler","spam"]`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	words, err := client.Blacklist(context.Background())
	if err != nil {
		t.Fatalf("Blacklist failed: %v", err)
	}
	if len(words) != 2 {
		t.Errorf("unexpected words: %v", words)
	}
}

func TestRetentionDaysPrimary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/admin/configSongfessDays" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"days":"30"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	days, err := client.RetentionDays(context.Background())
	if err != nil {
		t.Fatalf("RetentionDays failed: %v", err)
	}
	if days != 30 {
		t.Errorf("expected 30 days, got %d", days)
	}
}

func TestRetentionDaysFallsBackToConfigs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/admin/configSongfessDays":
			w.WriteHeader(http.StatusNotFound)
		case "/api/admin/configs":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"days":14}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	days, err := client.RetentionDays(context.Background())
	if err != nil {
		t.Fatalf("RetentionDays failed: %v", err)
	}
	if days != 14 {
		t.Errorf("expected 14 days, got %d", days)
	}
}

func TestSetRetentionDaysFallsBack(t *testing.T) {
	var fallbackBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/admin/configSongfessDays":
			w.WriteHeader(http.StatusNotFound)
		case "/api/admin/configs":
			data, _ := io.ReadAll(r.Body)
			fallbackBody = string(data)
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	if err := client.SetRetentionDays(context.Background(), 7); err != nil {
		t.Fatalf("SetRetentionDays failed: %v", err)
	}
	if fallbackBody != `{"days":"7"}` {
		t.Errorf("unexpected fallback body %q", fallbackBody)
	}
}
