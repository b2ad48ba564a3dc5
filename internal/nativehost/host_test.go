package nativehost

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/craigmiskell/cookiemaster/common"
	"github.com/craigmiskell/cookiemaster/internal/api"
	"github.com/craigmiskell/cookiemaster/internal/config"
	"github.com/craigmiskell/cookiemaster/pkg/logger"
	"github.com/spf13/afero"
)

type rawResponse struct {
	ID     int             `json:"id"`
	Ok     bool            `json:"ok"`
	Error  string          `json:"error"`
	Result json.RawMessage `json:"result"`
}

func newTestApi(t *testing.T) *api.Api {
	t.Helper()
	ring := logger.NewRingLogger(100)
	provider := config.NewProvider(afero.NewMemMapFs(), "/cfg/config.yaml", nil)
	a, err := api.NewApi(provider, api.Options{Log: ring, Ring: ring, Version: "1.2.3"})
	if err != nil {
		t.Fatalf("NewApi: %v", err)
	}
	return a
}

// exchange runs a host over the given raw request bodies and returns the
// decoded responses.
func exchange(t *testing.T, h Handler, bodies ...string) []rawResponse {
	t.Helper()
	var in, out bytes.Buffer
	for _, b := range bodies {
		if err := WriteMessage(&in, []byte(b)); err != nil {
			t.Fatalf("WriteMessage: %v", err)
		}
	}
	host := newHost(h, nil, &in, &out)
	if err := host.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	var resps []rawResponse
	for out.Len() > 0 {
		msg, err := ReadMessage(&out)
		if err != nil {
			t.Fatalf("ReadMessage: %v", err)
		}
		var r rawResponse
		if err := json.Unmarshal(msg, &r); err != nil {
			t.Fatalf("decode response %s: %v", msg, err)
		}
		resps = append(resps, r)
	}
	if len(resps) != len(bodies) {
		t.Fatalf("got %d responses for %d requests", len(resps), len(bodies))
	}
	return resps
}

func TestHostVersion(t *testing.T) {
	resps := exchange(t, newTestApi(t), `{"id":1,"method":"version"}`)
	var v common.VersionResponse
	if err := json.Unmarshal(resps[0].Result, &v); err != nil {
		t.Fatal(err)
	}
	if resps[0].ID != 1 || !resps[0].Ok || v.Version != "1.2.3" {
		t.Errorf("version response = %+v, %+v", resps[0], v)
	}
}

func TestHostOversizedResponseBecomesError(t *testing.T) {
	provider := config.NewProvider(afero.NewMemMapFs(), "/cfg/config.yaml", nil)
	a, err := api.NewApi(provider, api.Options{Version: strings.Repeat("x", MaxMessageSize)})
	if err != nil {
		t.Fatalf("NewApi: %v", err)
	}
	resps := exchange(t, a,
		`{"id":1,"method":"version"}`,
		`{"id":2,"method":"cookieEnabled","message":{"url":"https://example.org/"}}`,
	)
	if resps[0].ID != 1 || resps[0].Ok || !strings.Contains(resps[0].Error, ErrResponseTooLarge.Error()) {
		t.Errorf("oversized response = %+v", resps[0])
	}
	if resps[1].ID != 2 || !resps[1].Ok {
		t.Errorf("host stopped answering after an oversized response: %+v", resps[1])
	}
}

func TestHostErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		id     int
		substr string
	}{
		{"unknown method", `{"id":2,"method":"bake"}`, 2, "unknown method"},
		{"malformed request", `{"id":`, 0, "invalid request"},
		{"bad params", `{"id":3,"method":"setDomainAllow","message":"example.com"}`, 3, "invalid setDomainAllow params"},
		{"bad allow type", `{"id":4,"method":"setDomainAllow","message":{"domain":"a.com","allowType":"Forever"}}`, 4, "invalid"},
		{"missing url", `{"id":5,"method":"processResponse","message":{}}`, 5, "url is required"},
		{"empty domain", `{"id":6,"method":"setDomainAllow","message":{"domain":""}}`, 6, "invalid params"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := exchange(t, newTestApi(t), tt.body)[0]
			if r.Ok || r.ID != tt.id {
				t.Fatalf("response = %+v, want error with id %d", r, tt.id)
			}
			if !strings.Contains(r.Error, tt.substr) {
				t.Errorf("error %q does not contain %q", r.Error, tt.substr)
			}
		})
	}
}

func TestHostCookieFlow(t *testing.T) {
	a := newTestApi(t)
	resps := exchange(t, a,
		`{"id":1,"method":"processResponse","message":{"tabId":4,"frameId":0,"url":"https://example.com/","responseHeaders":[{"name":"Set-Cookie","value":"sid=1"},{"name":"Content-Type","value":"text/html"}]}}`,
		`{"id":2,"method":"setDomainAllow","message":{"domain":"example.com","allowType":"Persistent"}}`,
		`{"id":3,"method":"processResponse","message":{"tabId":4,"frameId":0,"url":"https://example.com/","responseHeaders":[{"name":"Set-Cookie","value":"sid=1"}]}}`,
		`{"id":4,"method":"cookieEnabled","message":{"url":"https://www.example.com/"}}`,
		`{"id":5,"method":"getTabActivity","message":{"tabId":4}}`,
		`{"id":6,"method":"removeDomain","message":{"domain":"example.com"}}`,
		`{"id":7,"method":"tabRemoved","message":{"tabId":4}}`,
		`{"id":8,"method":"getTabActivity","message":{"tabId":4}}`,
	)
	for i, r := range resps {
		if !r.Ok || r.ID != i+1 {
			t.Fatalf("response %d = %+v", i+1, r)
		}
	}

	var blocked common.ProcessResponseResult
	if err := json.Unmarshal(resps[0].Result, &blocked); err != nil {
		t.Fatal(err)
	}
	if blocked.Blocked != 1 || len(blocked.Headers) != 1 || blocked.Headers[0].Name != "Content-Type" {
		t.Errorf("unlisted domain result = %+v", blocked)
	}

	var allowed common.ProcessResponseResult
	if err := json.Unmarshal(resps[2].Result, &allowed); err != nil {
		t.Fatal(err)
	}
	if allowed.Blocked != 0 || len(allowed.Headers) != 1 || !strings.HasPrefix(allowed.Headers[0].Value, "sid=1") {
		t.Errorf("allowed domain result = %+v", allowed)
	}

	var enabled common.CookieEnabledResult
	if err := json.Unmarshal(resps[3].Result, &enabled); err != nil {
		t.Fatal(err)
	}
	if !enabled.Enabled {
		t.Error("cookieEnabled = false for an allowed domain")
	}

	var activity struct {
		Tab *struct {
			TabID int `json:"tabId"`
		} `json:"tab"`
	}
	if err := json.Unmarshal(resps[4].Result, &activity); err != nil {
		t.Fatal(err)
	}
	if activity.Tab == nil {
		t.Error("no activity recorded for tab 4")
	}

	var removed common.RemoveDomainResult
	if err := json.Unmarshal(resps[5].Result, &removed); err != nil {
		t.Fatal(err)
	}
	if !removed.Removed || removed.Config.AllowList.Len() != 0 {
		t.Errorf("removeDomain result = %+v", removed)
	}

	activity.Tab = nil
	if err := json.Unmarshal(resps[7].Result, &activity); err != nil {
		t.Fatal(err)
	}
	if activity.Tab != nil {
		t.Error("tab activity survived tabRemoved")
	}
}

func TestHostLogLevel(t *testing.T) {
	resps := exchange(t, newTestApi(t),
		`{"id":1,"method":"getLogLevel"}`,
		`{"id":2,"method":"setLogLevel","message":{"level":"DEBUG"}}`,
		`{"id":3,"method":"getLogs"}`,
	)
	if string(resps[0].Result) != `{"level":"INFO"}` {
		t.Errorf("getLogLevel = %s", resps[0].Result)
	}
	if string(resps[1].Result) != `{"level":"DEBUG"}` {
		t.Errorf("setLogLevel = %s", resps[1].Result)
	}
	var logs common.LogsResult
	if err := json.Unmarshal(resps[2].Result, &logs); err != nil {
		t.Fatal(err)
	}
	if len(logs.Entries) == 0 {
		t.Error("getLogs returned no entries after a level change")
	}
}

func TestHostRunStopsOnContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var in, out bytes.Buffer
	_ = WriteMessage(&in, []byte(`{"id":1,"method":"version"}`))
	if err := newHost(newTestApi(t), nil, &in, &out).Run(ctx); err == nil {
		t.Error("Run ignored a cancelled context")
	}
	if out.Len() != 0 {
		t.Error("Run answered after cancellation")
	}
}
