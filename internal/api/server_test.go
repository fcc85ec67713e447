package api

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/smazurov/obsnode/internal/api/models"
	"github.com/smazurov/obsnode/internal/engine"
	"github.com/smazurov/obsnode/internal/events"
	"github.com/smazurov/obsnode/internal/session"
)

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()

	if opts.Sessions == nil {
		logger := slog.Default()
		manager := session.NewManager(engine.NewContext(engine.NewSim(), logger), session.Config{}, events.New(), logger)
		t.Cleanup(manager.Close)
		opts.Sessions = manager
	}
	if opts.EventBus == nil {
		opts.EventBus = events.New()
	}

	srv := NewServer(&opts)
	ts := httptest.NewServer(srv.GetMux())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url, body string, out any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			t.Fatalf("decoding %s response: %v", url, err)
		}
	}
	return resp
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t, Options{})

	var health models.HealthData
	resp := doJSON(t, http.MethodGet, ts.URL+"/api/health", "", &health)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if health.Status != "ok" {
		t.Errorf("health status = %q, want ok", health.Status)
	}
}

func TestBasicAuthRequired(t *testing.T) {
	ts := newTestServer(t, Options{AuthUsername: "admin", AuthPassword: "secret"})

	// Protected route without credentials
	resp := doJSON(t, http.MethodGet, ts.URL+"/api/engine", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("unauthenticated status = %d, want 401", resp.StatusCode)
	}

	// Health stays open
	resp = doJSON(t, http.MethodGet, ts.URL+"/api/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d, want 200", resp.StatusCode)
	}

	// Valid credentials pass
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/engine", nil)
	creds := base64.StdEncoding.EncodeToString([]byte("admin:secret"))
	req.Header.Set("Authorization", "Basic "+creds)
	authResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("authenticated request: %v", err)
	}
	defer authResp.Body.Close()
	if authResp.StatusCode != http.StatusOK {
		t.Errorf("authenticated status = %d, want 200", authResp.StatusCode)
	}
}

func TestEngineLifecycleOverHTTP(t *testing.T) {
	ts := newTestServer(t, Options{})

	// Engine starts uninitialized with an idle session
	var status models.EngineStatusData
	doJSON(t, http.MethodGet, ts.URL+"/api/engine", "", &status)
	if status.Initialized {
		t.Fatal("engine should start uninitialized")
	}
	if status.SessionState != "idle" {
		t.Errorf("session state = %q, want idle", status.SessionState)
	}

	// Initialize resolves the version payload
	var cmd models.CommandData
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/engine/initialize", `{}`, &cmd)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("initialize status = %d, want 200", resp.StatusCode)
	}
	if !strings.HasPrefix(cmd.Payload, "v") {
		t.Errorf("initialize payload = %q, want v-prefixed version", cmd.Payload)
	}

	// Double initialize conflicts
	resp = doJSON(t, http.MethodPost, ts.URL+"/api/engine/initialize", `{}`, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("double initialize status = %d, want 409", resp.StatusCode)
	}

	// Reset video echoes the applied size
	resp = doJSON(t, http.MethodPut, ts.URL+"/api/engine/video", `{"size":"1920x1080"}`, &cmd)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reset video status = %d, want 200", resp.StatusCode)
	}
	if cmd.Payload != "1920x1080" {
		t.Errorf("reset video payload = %q, want 1920x1080", cmd.Payload)
	}

	// Shutdown succeeds while idle
	resp = doJSON(t, http.MethodPost, ts.URL+"/api/engine/shutdown", "", &cmd)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("shutdown status = %d, want 200", resp.StatusCode)
	}
	if cmd.Payload != session.ShutdownSuccessMessage {
		t.Errorf("shutdown payload = %q", cmd.Payload)
	}
}

func TestSessionFlowOverHTTP(t *testing.T) {
	ts := newTestServer(t, Options{})

	// Session start before initialize conflicts
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/session/start", `{"target":"rtmp://live.example.com/app"}`, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("start before initialize status = %d, want 409", resp.StatusCode)
	}

	doJSON(t, http.MethodPost, ts.URL+"/api/engine/initialize", `{}`, nil)
	doJSON(t, http.MethodPut, ts.URL+"/api/engine/video", `{"size":"1280x720"}`, nil)

	// Empty target is a bad request
	resp = doJSON(t, http.MethodPost, ts.URL+"/api/session/start", `{"target":""}`, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("empty target status = %d, want 400", resp.StatusCode)
	}

	var cmd models.CommandData
	resp = doJSON(t, http.MethodPost, ts.URL+"/api/session/start", `{"target":"rtmp://live.example.com/app"}`, &cmd)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("session start status = %d, want 200", resp.StatusCode)
	}
	if cmd.Payload != session.StartSuccessToken {
		t.Errorf("session start payload = %q, want %q", cmd.Payload, session.StartSuccessToken)
	}

	// Codecs enumerate the live session encoders while running
	var enum models.EnumerationData
	doJSON(t, http.MethodGet, ts.URL+"/api/engine/codecs", "", &enum)
	if enum.Items == "" {
		t.Error("codecs should list live encoder handles while running")
	}

	// Shutdown is rejected while the session is running
	resp = doJSON(t, http.MethodPost, ts.URL+"/api/engine/shutdown", "", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("shutdown while running status = %d, want 409", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/session/stop", "", &cmd)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("session stop status = %d, want 200", resp.StatusCode)
	}

	// Second stop conflicts, no session is active
	resp = doJSON(t, http.MethodPost, ts.URL+"/api/session/stop", "", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("stop without session status = %d, want 409", resp.StatusCode)
	}
}

func TestCodecsSentinelBeforeInitialize(t *testing.T) {
	ts := newTestServer(t, Options{})

	var enum models.EnumerationData
	resp := doJSON(t, http.MethodGet, ts.URL+"/api/engine/codecs", "", &enum)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if enum.Items != engine.NotInitializedSentinel {
		t.Errorf("items = %q, want sentinel", enum.Items)
	}
}
