package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/devrpc-io/devrpc/internal/codec"
	"github.com/devrpc-io/devrpc/internal/protocol"
)

func TestBuildRejectsDuplicateKey(t *testing.T) {
	ep := NewEndpoint[pingReq, pingResp]("device/ping")

	b := NewBuilder(codec.JSONStrict, nil)
	Blocking(b, ep, func(protocol.Header, pingReq) pingResp { return pingResp{} })
	Blocking(b, ep, func(protocol.Header, pingReq) pingResp { return pingResp{} })

	_, err := b.Build()
	if !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestBuildRejectsSpawnWithoutPool(t *testing.T) {
	ep := NewEndpoint[jobReq, jobResp]("device/job")

	b := NewBuilder(codec.JSONStrict, nil)
	Spawn(b, ep, func(context.Context, protocol.Header, jobReq, Sender) {})

	if _, err := b.Build(); err == nil {
		t.Fatalf("expected build error for spawn endpoint without pool")
	}
}

func TestBuildFreezesDistinctEndpoints(t *testing.T) {
	b := NewBuilder(codec.JSONStrict, nil)
	Blocking(b, NewEndpoint[pingReq, pingResp]("device/ping"),
		func(protocol.Header, pingReq) pingResp { return pingResp{} })
	Await(b, NewEndpoint[jobReq, jobResp]("device/info"),
		func(context.Context, protocol.Header, jobReq) jobResp { return jobResp{} })

	reg, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if reg.Len() != 2 {
		t.Fatalf("expected 2 endpoints, got %d", reg.Len())
	}
	if reg.Codec() != codec.JSONStrict {
		t.Fatalf("registry must expose its codec")
	}
}

func TestEndpointKeysDifferForRequestAndResponse(t *testing.T) {
	ep := NewEndpoint[pingReq, pingResp]("device/ping")
	if ep.ReqKey == ep.RespKey {
		t.Fatalf("request and response keys must differ for distinct schemas")
	}
}

func TestErrorKeyIsReserved(t *testing.T) {
	// No plausible endpoint registration may collide with the error key.
	ep := NewEndpoint[pingReq, pingResp]("device/ping")
	if ep.ReqKey == ErrorKey || ep.RespKey == ErrorKey {
		t.Fatalf("endpoint key collides with reserved error key")
	}
}
