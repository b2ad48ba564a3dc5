package nativehost

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/craigmiskell/cookiemaster/common"
	"github.com/craigmiskell/cookiemaster/internal/policy"
	"github.com/craigmiskell/cookiemaster/pkg/logger"
)

// Handler is the part of api.Api the host exposes to the extension.
type Handler interface {
	Version() common.VersionResponse
	ProcessResponse(ctx context.Context, p common.ProcessResponseParams) common.ProcessResponseResult
	ScriptedCookie(ctx context.Context, p common.ScriptedCookieParams) (policy.ScriptedResult, error)
	CookieChanged(ctx context.Context, ch policy.StoreChange) policy.StoreDecision
	CookieEnabled(p common.CookieEnabledParams) (common.CookieEnabledResult, error)
	GetConfig() *policy.Config
	SetDomainAllow(p common.SetDomainParams) (*policy.Config, error)
	RemoveDomain(p common.DomainParams) (common.RemoveDomainResult, error)
	SetThirdParty(p common.ThirdPartyParams) (*policy.Config, error)
	ConfigChanged(p common.ConfigChangedParams) (*policy.Config, error)
	BeforeNavigate(p common.NavigationParams)
	NavigationCompleted(p common.NavigationParams)
	RequestStarted(p common.NavigationParams) error
	TabRemoved(p common.TabParams)
	TabActivity(p common.TabParams) common.TabActivityResult
	Logs(p common.LogsParams) common.LogsResult
	LogLevel() logger.Level
	SetLogLevel(p common.LogLevelParams) logger.Level
}

// Host bridges the extension's native port to a Handler.
type Host struct {
	api    Handler
	log    logger.Logger
	stdin  io.Reader
	stdout io.Writer
}

// NewHost creates a host reading os.Stdin and writing os.Stdout. Logs must
// never go to stdout, which belongs to the protocol.
func NewHost(api Handler, log logger.Logger) *Host {
	return newHost(api, log, os.Stdin, os.Stdout)
}

func newHost(api Handler, log logger.Logger, in io.Reader, out io.Writer) *Host {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Host{api: api, log: log, stdin: in, stdout: out}
}

// Run serves requests until stdin is closed, the browser's signal that the
// extension went away, or ctx is cancelled.
func (h *Host) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := h.processOneMessage(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (h *Host) processOneMessage(ctx context.Context) error {
	data, err := ReadMessage(h.stdin)
	if err != nil {
		return err
	}
	req, err := ParseRequest(data)
	if err != nil {
		h.log.Warning("native host: malformed request: %v", err)
		return WriteMessage(h.stdout, MakeErrorResponse(0, fmt.Errorf("invalid request: %w", err)))
	}
	return WriteMessage(h.stdout, h.handleRequest(ctx, req))
}

// decode unmarshals a request's message into v. An absent message leaves v
// at its zero value.
func decode(req *Request, v any) error {
	if len(req.Message) == 0 {
		return nil
	}
	if err := json.Unmarshal(req.Message, v); err != nil {
		return fmt.Errorf("invalid %s params: %w", req.Method, err)
	}
	return nil
}

func (h *Host) handleRequest(ctx context.Context, req *Request) []byte {
	result, err := h.dispatch(ctx, req)
	if err != nil {
		h.log.Debug("native host: %s failed: %v", req.Method, err)
		return MakeErrorResponse(req.ID, err)
	}
	resp := MakeSuccessResponse(req.ID, result)
	if len(resp) > MaxMessageSize {
		// The browser would drop the connection; let the caller fall back.
		h.log.Warning("native host: %s response of %d bytes exceeds %d", req.Method, len(resp), MaxMessageSize)
		return MakeErrorResponse(req.ID, fmt.Errorf("%w: %s", ErrResponseTooLarge, req.Method))
	}
	return resp
}

func (h *Host) dispatch(ctx context.Context, req *Request) (any, error) {
	switch req.Method {
	case "version":
		return h.api.Version(), nil

	case "processResponse":
		var p common.ProcessResponseParams
		if err := decode(req, &p); err != nil {
			return nil, err
		}
		if p.URL == "" {
			return nil, errors.New("url is required")
		}
		return h.api.ProcessResponse(ctx, p), nil

	case "scriptedCookie":
		var p common.ScriptedCookieParams
		if err := decode(req, &p); err != nil {
			return nil, err
		}
		return h.api.ScriptedCookie(ctx, p)

	case "cookieChanged":
		var ch policy.StoreChange
		if err := decode(req, &ch); err != nil {
			return nil, err
		}
		return h.api.CookieChanged(ctx, ch), nil

	case "cookieEnabled":
		var p common.CookieEnabledParams
		if err := decode(req, &p); err != nil {
			return nil, err
		}
		return h.api.CookieEnabled(p)

	case "getConfig":
		return h.api.GetConfig(), nil

	case "setDomainAllow":
		var p common.SetDomainParams
		if err := decode(req, &p); err != nil {
			return nil, err
		}
		return h.api.SetDomainAllow(p)

	case "removeDomain":
		var p common.DomainParams
		if err := decode(req, &p); err != nil {
			return nil, err
		}
		return h.api.RemoveDomain(p)

	case "setThirdParty":
		var p common.ThirdPartyParams
		if err := decode(req, &p); err != nil {
			return nil, err
		}
		return h.api.SetThirdParty(p)

	case "configChanged":
		var p common.ConfigChangedParams
		if err := decode(req, &p); err != nil {
			return nil, err
		}
		return h.api.ConfigChanged(p)

	case "beforeNavigate", "navigationCompleted", "requestStarted":
		var p common.NavigationParams
		if err := decode(req, &p); err != nil {
			return nil, err
		}
		switch req.Method {
		case "beforeNavigate":
			h.api.BeforeNavigate(p)
		case "navigationCompleted":
			h.api.NavigationCompleted(p)
		default:
			if err := h.api.RequestStarted(p); err != nil {
				return nil, err
			}
		}
		return map[string]bool{"success": true}, nil

	case "getTabActivity", "tabRemoved":
		var p common.TabParams
		if err := decode(req, &p); err != nil {
			return nil, err
		}
		if req.Method == "tabRemoved" {
			h.api.TabRemoved(p)
			return map[string]bool{"success": true}, nil
		}
		return h.api.TabActivity(p), nil

	case "getLogs":
		var p common.LogsParams
		if err := decode(req, &p); err != nil {
			return nil, err
		}
		return h.api.Logs(p), nil

	case "getLogLevel":
		return common.LogLevelParams{Level: h.api.LogLevel()}, nil

	case "setLogLevel":
		var p common.LogLevelParams
		if err := decode(req, &p); err != nil {
			return nil, err
		}
		return common.LogLevelParams{Level: h.api.SetLogLevel(p)}, nil
	}
	return nil, fmt.Errorf("unknown method: %s", req.Method)
}
