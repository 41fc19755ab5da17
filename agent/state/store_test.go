package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestUpstashRedisStoreRedisKey(t *testing.T) {
	t.Parallel()

	store := &UpstashRedisStore{}
	got, err := store.redisKey("abc")
	if err != nil {
		t.Fatalf("redisKey() error = %v", err)
	}
	if got != "planner:run:abc" {
		t.Fatalf("redisKey() = %q, want %q", got, "planner:run:abc")
	}
}

func TestUpstashRedisStoreRedisKeyEmptyRun(t *testing.T) {
	t.Parallel()

	store := &UpstashRedisStore{}
	_, err := store.redisKey("   ")
	if !errors.Is(err, ErrInvalidRunKey) {
		t.Fatalf("redisKey() error = %v, want ErrInvalidRunKey", err)
	}
}

func TestUpstashRedisStoreSave(t *testing.T) {
	t.Parallel()

	var gotCommand []any
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotCommand); err != nil {
			t.Errorf("decode command: %v", err)
		}
		fmt.Fprint(w, `{"result":"OK"}`)
	}))
	t.Cleanup(server.Close)

	store, err := NewUpstashRedisStore(
		UpstashRedisConfig{URL: server.URL, Token: "token"},
		WithHTTPClient(server.Client()),
		WithTTL(90*time.Second),
	)
	if err != nil {
		t.Fatalf("NewUpstashRedisStore() error = %v", err)
	}

	snap := NewProfile(Info{StartupName: "Acme"}, 1).Snapshot("run-1", time.Now())
	if err := store.Save(context.Background(), snap); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if gotAuth != "Bearer token" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if len(gotCommand) != 5 {
		t.Fatalf("unexpected command: %#v", gotCommand)
	}
	if gotCommand[0] != "SET" || gotCommand[1] != "planner:run:run-1" {
		t.Fatalf("unexpected command head: %#v", gotCommand[:2])
	}
	if gotCommand[3] != "EX" || gotCommand[4] != float64(90) {
		t.Fatalf("unexpected ttl args: %#v", gotCommand[3:])
	}
}

func TestUpstashRedisStoreLoad(t *testing.T) {
	t.Parallel()

	seed := NewProfile(Info{StartupName: "Acme"}, 2).Snapshot("run-2", time.Now())
	payload, err := json.Marshal(seed)
	if err != nil {
		t.Fatalf("marshal seed: %v", err)
	}
	encoded, err := json.Marshal(string(payload))
	if err != nil {
		t.Fatalf("marshal encoded seed: %v", err)
	}

	var gotCommand []any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		if err := json.NewDecoder(r.Body).Decode(&gotCommand); err != nil {
			t.Errorf("decode command: %v", err)
		}
		fmt.Fprintf(w, `{"result":%s}`, encoded)
	}))
	t.Cleanup(server.Close)

	store, err := NewUpstashRedisStore(
		UpstashRedisConfig{URL: server.URL, Token: "token"},
		WithHTTPClient(server.Client()),
		WithKeyPrefix("custom:"),
	)
	if err != nil {
		t.Fatalf("NewUpstashRedisStore() error = %v", err)
	}

	snap, err := store.Load(context.Background(), "run-2")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if snap.RunKey != "run-2" || snap.Performance != 2 || snap.Profile.StartupName != "Acme" {
		t.Fatalf("unexpected snapshot: %#v", snap)
	}
	if gotCommand[0] != "GET" || gotCommand[1] != "custom:run-2" {
		t.Fatalf("unexpected command: %#v", gotCommand)
	}
}

func TestUpstashRedisStoreLoadNotFound(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result":null}`)
	}))
	t.Cleanup(server.Close)

	store, err := NewUpstashRedisStore(UpstashRedisConfig{URL: server.URL, Token: "token"}, WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("NewUpstashRedisStore() error = %v", err)
	}

	if _, err := store.Load(context.Background(), "missing"); !errors.Is(err, ErrSnapshotNotFound) {
		t.Fatalf("Load() error = %v, want ErrSnapshotNotFound", err)
	}
}

func TestUpstashRedisStoreDelete(t *testing.T) {
	t.Parallel()

	var gotCommand []any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		if err := json.NewDecoder(r.Body).Decode(&gotCommand); err != nil {
			t.Errorf("decode command: %v", err)
		}
		fmt.Fprint(w, `{"result":1}`)
	}))
	t.Cleanup(server.Close)

	store, err := NewUpstashRedisStore(UpstashRedisConfig{URL: server.URL, Token: "token"}, WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("NewUpstashRedisStore() error = %v", err)
	}

	if err := store.Delete(context.Background(), "run-3"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if gotCommand[0] != "DEL" || gotCommand[1] != "planner:run:run-3" {
		t.Fatalf("unexpected command: %#v", gotCommand)
	}
}

func TestUpstashRedisStoreErrorResponse(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":"WRONGPASS"}`)
	}))
	t.Cleanup(server.Close)

	store, err := NewUpstashRedisStore(UpstashRedisConfig{URL: server.URL, Token: "token"}, WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("NewUpstashRedisStore() error = %v", err)
	}
	if err := store.Delete(context.Background(), "run-4"); err == nil || err.Error() != "WRONGPASS" {
		t.Fatalf("Delete() error = %v, want WRONGPASS", err)
	}
}

func TestNewUpstashRedisStoreValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewUpstashRedisStore(UpstashRedisConfig{Token: "t"}); err == nil {
		t.Fatal("expected error for empty url")
	}
	if _, err := NewUpstashRedisStore(UpstashRedisConfig{URL: "http://localhost"}); err == nil {
		t.Fatal("expected error for empty token")
	}
	if _, err := NewUpstashRedisStore(UpstashRedisConfig{URL: "http://localhost", Token: "t"}, WithTTL(-time.Second)); err == nil {
		t.Fatal("expected error for negative ttl")
	}
}
