package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/devrpc-io/devrpc/internal/codec"
	"github.com/devrpc-io/devrpc/internal/config"
	"github.com/devrpc-io/devrpc/internal/dispatch"
	"github.com/devrpc-io/devrpc/internal/link"
	"github.com/devrpc-io/devrpc/internal/logging"
	"github.com/devrpc-io/devrpc/internal/observability"
	"github.com/devrpc-io/devrpc/internal/protocol"
	"github.com/devrpc-io/devrpc/internal/protocol/frame"
)

var startedAt = time.Now()

type pingRequest struct {
	Nonce uint32 `json:"nonce"`
}

type pingResponse struct {
	Nonce    uint32 `json:"nonce"`
	UptimeMS uint64 `json:"uptime_ms"`
}

type echoRequest struct {
	Text string `json:"text"`
}

type echoResponse struct {
	Text string `json:"text"`
}

type selfTestRequest struct {
	Rounds int `json:"rounds"`
}

type selfTestResponse struct {
	Rounds int  `json:"rounds"`
	Passed bool `json:"passed"`
}

var (
	pingEndpoint     = dispatch.NewEndpoint[pingRequest, pingResponse]("device/ping")
	echoEndpoint     = dispatch.NewEndpoint[echoRequest, echoResponse]("device/echo")
	selfTestEndpoint = dispatch.NewEndpoint[selfTestRequest, selfTestResponse]("device/selftest")
)

func buildRegistry(pool *dispatch.Pool) (*dispatch.Registry, error) {
	b := dispatch.NewBuilder(codec.JSONStrict, pool)

	dispatch.Blocking(b, pingEndpoint, func(_ protocol.Header, req pingRequest) pingResponse {
		return pingResponse{
			Nonce:    req.Nonce,
			UptimeMS: uint64(time.Since(startedAt).Milliseconds()),
		}
	})

	dispatch.Await(b, echoEndpoint, func(_ context.Context, _ protocol.Header, req echoRequest) echoResponse {
		return echoResponse{Text: req.Text}
	})

	// Self-test runs off the dispatch path; submission alone yields no frame,
	// the task sends its result when it finishes.
	dispatch.Spawn(b, selfTestEndpoint, func(_ context.Context, hdr protocol.Header, req selfTestRequest, s dispatch.Sender) {
		rounds := req.Rounds
		if rounds <= 0 {
			rounds = 1
		}
		for i := 0; i < rounds; i++ {
			time.Sleep(time.Millisecond)
		}
		resp := selfTestResponse{Rounds: rounds, Passed: true}
		if err := dispatch.SendReply(s, codec.JSONStrict, selfTestEndpoint, hdr.Seq, resp); err != nil {
			log.Warn().Uint32("seq", hdr.Seq).Err(err).Msg("self-test reply failed")
		}
	})

	return b.Build()
}

func main() {
	configPath := flag.String("config", "", "path to toml config")
	flag.Parse()

	logging.ConfigureRuntime()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("config")
		}
		cfg = loaded
	}

	pool := dispatch.NewPool(cfg.Pool.Workers, cfg.Pool.QueueDepth)
	reg, err := buildRegistry(pool)
	if err != nil {
		log.Fatal().Err(err).Msg("endpoint registry")
	}

	if cfg.MetricsAddr != "" {
		observability.RegisterMetrics()
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				log.Error().Err(err).Msg("metrics listener")
			}
		}()
	}

	limits := frame.Limits{MaxPayloadBytes: cfg.Frame.MaxPayloadBytes}
	opts := frame.Options{Compress: cfg.Frame.Compress, CompressMin: cfg.Frame.CompressMinBytes}
	srv := link.NewServer(dispatch.NewDispatcher(reg), limits, opts)

	log.Info().Str("node", cfg.Name).Int("endpoints", reg.Len()).Msg("serving frames on stdio")
	serveErr := srv.Serve(context.Background(), os.Stdin, os.Stdout)
	pool.Close()
	if serveErr != nil {
		log.Fatal().Err(serveErr).Msg("serve")
	}
}
