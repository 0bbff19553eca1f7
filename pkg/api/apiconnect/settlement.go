// Package apiconnect provides Connect handlers and clients for the settleup
// RPC services. Every handler and client speaks JSON through api.JSONCodec.
package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/pkg/api"
)

// SettlementServiceName is the fully-qualified name of the SettlementService.
const SettlementServiceName = "settleup.v1.SettlementService"

const (
	// SettlementServiceComputeSettlementsProcedure is the route of
	// SettlementService.ComputeSettlements.
	SettlementServiceComputeSettlementsProcedure = "/settleup.v1.SettlementService/ComputeSettlements"
	// SettlementServiceGetGroupBalancesProcedure is the route of
	// SettlementService.GetGroupBalances.
	SettlementServiceGetGroupBalancesProcedure = "/settleup.v1.SettlementService/GetGroupBalances"
	// SettlementServiceSuggestSettlementsProcedure is the route of
	// SettlementService.SuggestSettlements.
	SettlementServiceSuggestSettlementsProcedure = "/settleup.v1.SettlementService/SuggestSettlements"
)

// SettlementServiceClient is a client for the SettlementService.
type SettlementServiceClient interface {
	ComputeSettlements(context.Context, *connect.Request[api.ComputeSettlementsRequest]) (*connect.Response[api.SettlementsResponse], error)
	GetGroupBalances(context.Context, *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error)
	SuggestSettlements(context.Context, *connect.Request[api.SuggestSettlementsRequest]) (*connect.Response[api.SettlementsResponse], error)
}

// NewSettlementServiceClient constructs a client for the SettlementService.
// baseURL is the server root, e.g. http://localhost:8080.
func NewSettlementServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SettlementServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(api.JSONCodec{})}, opts...)
	return &settlementServiceClient{
		computeSettlements: connect.NewClient[api.ComputeSettlementsRequest, api.SettlementsResponse](
			httpClient, baseURL+SettlementServiceComputeSettlementsProcedure, opts...),
		getGroupBalances: connect.NewClient[api.GetGroupBalancesRequest, api.GetGroupBalancesResponse](
			httpClient, baseURL+SettlementServiceGetGroupBalancesProcedure, opts...),
		suggestSettlements: connect.NewClient[api.SuggestSettlementsRequest, api.SettlementsResponse](
			httpClient, baseURL+SettlementServiceSuggestSettlementsProcedure, opts...),
	}
}

type settlementServiceClient struct {
	computeSettlements *connect.Client[api.ComputeSettlementsRequest, api.SettlementsResponse]
	getGroupBalances   *connect.Client[api.GetGroupBalancesRequest, api.GetGroupBalancesResponse]
	suggestSettlements *connect.Client[api.SuggestSettlementsRequest, api.SettlementsResponse]
}

func (c *settlementServiceClient) ComputeSettlements(ctx context.Context, req *connect.Request[api.ComputeSettlementsRequest]) (*connect.Response[api.SettlementsResponse], error) {
	return c.computeSettlements.CallUnary(ctx, req)
}

func (c *settlementServiceClient) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	return c.getGroupBalances.CallUnary(ctx, req)
}

func (c *settlementServiceClient) SuggestSettlements(ctx context.Context, req *connect.Request[api.SuggestSettlementsRequest]) (*connect.Response[api.SettlementsResponse], error) {
	return c.suggestSettlements.CallUnary(ctx, req)
}

// SettlementServiceHandler is implemented by the SettlementService server.
type SettlementServiceHandler interface {
	ComputeSettlements(context.Context, *connect.Request[api.ComputeSettlementsRequest]) (*connect.Response[api.SettlementsResponse], error)
	GetGroupBalances(context.Context, *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error)
	SuggestSettlements(context.Context, *connect.Request[api.SuggestSettlementsRequest]) (*connect.Response[api.SettlementsResponse], error)
}

// NewSettlementServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewSettlementServiceHandler(svc SettlementServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.JSONCodec{})}, opts...)
	computeSettlements := connect.NewUnaryHandler(SettlementServiceComputeSettlementsProcedure, svc.ComputeSettlements, opts...)
	getGroupBalances := connect.NewUnaryHandler(SettlementServiceGetGroupBalancesProcedure, svc.GetGroupBalances, opts...)
	suggestSettlements := connect.NewUnaryHandler(SettlementServiceSuggestSettlementsProcedure, svc.SuggestSettlements, opts...)
	return "/" + SettlementServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case SettlementServiceComputeSettlementsProcedure:
			computeSettlements.ServeHTTP(w, r)
		case SettlementServiceGetGroupBalancesProcedure:
			getGroupBalances.ServeHTTP(w, r)
		case SettlementServiceSuggestSettlementsProcedure:
			suggestSettlements.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedSettlementServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedSettlementServiceHandler struct{}

func (UnimplementedSettlementServiceHandler) ComputeSettlements(context.Context, *connect.Request[api.ComputeSettlementsRequest]) (*connect.Response[api.SettlementsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settleup.v1.SettlementService.ComputeSettlements is not implemented"))
}

func (UnimplementedSettlementServiceHandler) GetGroupBalances(context.Context, *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settleup.v1.SettlementService.GetGroupBalances is not implemented"))
}

func (UnimplementedSettlementServiceHandler) SuggestSettlements(context.Context, *connect.Request[api.SuggestSettlementsRequest]) (*connect.Response[api.SettlementsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settleup.v1.SettlementService.SuggestSettlements is not implemented"))
}
