// Package apiclient attaches the cached session token to outgoing API calls,
// over plain HTTP or gRPC.
package apiclient

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/crowdops/internal/authtoken"
	"github.com/dmitrijs2005/crowdops/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// Transport is an http.RoundTripper adding "Authorization: Bearer <token>"
// whenever Source holds a token. Requests pass through unchanged otherwise.
type Transport struct {
	Source authtoken.TokenSource
	Base   http.RoundTripper
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

// RoundTrip implements http.RoundTripper. The caller's request is never
// mutated.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, ok := t.Source.RetrieveToken(req.Context())
	if !ok || token == "" {
		return t.base().RoundTrip(req)
	}

	r := req.Clone(req.Context())
	r.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
	return t.base().RoundTrip(r)
}

// NewHTTPClient returns an http.Client using Transport over base.
func NewHTTPClient(src authtoken.TokenSource, base http.RoundTripper) *http.Client {
	return &http.Client{Transport: &Transport{Source: src, Base: base}}
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

// UnaryClientInterceptor puts the cached token into the outgoing metadata
// under common.AccessTokenHeaderName.
func UnaryClientInterceptor(src authtoken.TokenSource) grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply any,
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		if token, ok := src.RetrieveToken(ctx); ok && token != "" {
			ctx = withAccessToken(ctx, token)
		}
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}
