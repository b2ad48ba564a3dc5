package server

import (
	"context"
	"errors"

	"github.com/craigmiskell/cookiemaster/common"
	"github.com/craigmiskell/cookiemaster/internal/api"
	"github.com/craigmiskell/cookiemaster/internal/policy"
	"github.com/craigmiskell/cookiemaster/pkg/logger"
	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"
)

const (
	codeInvalidParams = jrpc2.Code(-32602)
	codeInternal      = jrpc2.Code(-32603)
	// codeConfigWrite reports a configuration change that could not be
	// saved.
	codeConfigWrite = jrpc2.Code(-32010)
)

// maxRequestSize bounds a single WebSocket message.
const maxRequestSize = 1 << 20

// RPCConfig configures the JSON-RPC endpoints.
type RPCConfig struct {
	Secret string // bearer token; empty disables every request
	// OriginPatterns lists extra WebSocket origins to accept, such as
	// "moz-extension://*".
	OriginPatterns []string
}

// RPCServer exposes an Api over JSON-RPC 2.0, on HTTP POST through a
// bridge and on WebSocket connections with push notifications.
type RPCServer struct {
	api      *api.Api
	methods  handler.Map
	bridge   jhttp.Bridge
	notifier *RPCNotifier
	secret   string
	origins  []string
	log      logger.Logger
}

// NewRPCServer builds the method table for a and registers itself to push
// recorded activity to WebSocket clients.
func NewRPCServer(cfg *RPCConfig, a *api.Api, l logger.Logger) *RPCServer {
	if l == nil {
		l = logger.NewNopLogger()
	}
	rs := &RPCServer{
		api:      a,
		notifier: NewRPCNotifier(l),
		secret:   cfg.Secret,
		origins:  cfg.OriginPatterns,
		log:      l,
	}
	rs.methods = handler.Map{
		"system.getVersion":      handler.New(rs.systemGetVersion),
		"policy.evaluate":        handler.New(rs.policyEvaluate),
		"policy.processResponse": handler.New(rs.policyProcessResponse),
		"csp.augment":            handler.New(rs.cspAugment),
		"cookie.scripted":        handler.New(rs.cookieScripted),
		"cookie.changed":         handler.New(rs.cookieChanged),
		"config.get":             handler.New(rs.configGet),
		"config.setDomain":       handler.New(rs.configSetDomain),
		"config.removeDomain":    handler.New(rs.configRemoveDomain),
		"config.setThirdParty":   handler.New(rs.configSetThirdParty),
		"activity.list":          handler.New(rs.activityList),
	}
	rs.bridge = jhttp.NewBridge(rs.methods, nil)
	a.AddRecorder(rs.notifier)
	return rs
}

// Notifier returns the WebSocket push fan-out.
func (rs *RPCServer) Notifier() *RPCNotifier { return rs.notifier }

func invalidParams(msg string) error {
	return &jrpc2.Error{Code: codeInvalidParams, Message: msg}
}

// rpcError maps an Api error onto a JSON-RPC error code.
func rpcError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, api.ErrInvalidParams) {
		return &jrpc2.Error{Code: codeInvalidParams, Message: err.Error()}
	}
	return &jrpc2.Error{Code: codeInternal, Message: err.Error()}
}

// configError is rpcError for calls that persist the configuration.
func configError(err error) error {
	if err == nil || errors.Is(err, api.ErrInvalidParams) {
		return rpcError(err)
	}
	return &jrpc2.Error{Code: codeConfigWrite, Message: err.Error()}
}

func (rs *RPCServer) systemGetVersion(_ context.Context) (common.VersionResponse, error) {
	return rs.api.Version(), nil
}

func (rs *RPCServer) policyEvaluate(_ context.Context, p common.EvaluateParams) (policy.Decision, error) {
	if p.RequestHost == "" {
		return policy.Decision{}, invalidParams("missing required param: requestHost")
	}
	return rs.api.Evaluate(p), nil
}

func (rs *RPCServer) policyProcessResponse(ctx context.Context, p common.ProcessResponseParams) (common.ProcessResponseResult, error) {
	if p.URL == "" {
		return common.ProcessResponseResult{}, invalidParams("missing required param: url")
	}
	return rs.api.ProcessResponse(ctx, p), nil
}

func (rs *RPCServer) cspAugment(_ context.Context, p common.AugmentParams) (common.AugmentResult, error) {
	return rs.api.Augment(p), nil
}

func (rs *RPCServer) cookieScripted(ctx context.Context, p common.ScriptedCookieParams) (policy.ScriptedResult, error) {
	if p.URL == "" {
		return policy.ScriptedResult{}, invalidParams("missing required param: url")
	}
	r, err := rs.api.ScriptedCookie(ctx, p)
	return r, rpcError(err)
}

func (rs *RPCServer) cookieChanged(ctx context.Context, ch policy.StoreChange) (policy.StoreDecision, error) {
	return rs.api.CookieChanged(ctx, ch), nil
}

func (rs *RPCServer) configGet(_ context.Context) (*policy.Config, error) {
	return rs.api.GetConfig(), nil
}

func (rs *RPCServer) configSetDomain(_ context.Context, p common.SetDomainParams) (*policy.Config, error) {
	cfg, err := rs.api.SetDomainAllow(p)
	return cfg, configError(err)
}

func (rs *RPCServer) configRemoveDomain(_ context.Context, p common.DomainParams) (common.RemoveDomainResult, error) {
	r, err := rs.api.RemoveDomain(p)
	return r, configError(err)
}

func (rs *RPCServer) configSetThirdParty(_ context.Context, p common.ThirdPartyParams) (*policy.Config, error) {
	cfg, err := rs.api.SetThirdParty(p)
	return cfg, configError(err)
}

func (rs *RPCServer) activityList(ctx context.Context, p common.ActivityListParams) (common.ActivityListResult, error) {
	if p.Limit < 0 {
		return common.ActivityListResult{}, invalidParams("limit must not be negative")
	}
	r, err := rs.api.ActivityList(ctx, p)
	return r, rpcError(err)
}

// Close shuts down the HTTP bridge.
func (rs *RPCServer) Close() {
	rs.bridge.Close()
}
