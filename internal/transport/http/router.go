package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"quizcast/internal/app"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/skip2/go-qrcode"
)

const (
	defaultQRSize = 256
	minQRSize     = 64
	maxQRSize     = 1024
)

// RouterConfig carries what the HTTP routes need besides the quiz service.
type RouterConfig struct {
	Version  string
	Origin   string
	Gatherer prometheus.Gatherer
	Logger   zerolog.Logger
}

// NewRouter wires the websocket endpoint and the supporting HTTP routes.
func NewRouter(service *app.QuizService, ws *WSHandler, cfg RouterConfig) *httprouter.Router {
	mux := httprouter.New()

	mux.PanicHandler = func(w http.ResponseWriter, r *http.Request, v any) {
		cfg.Logger.Error().Interface("panic", v).Str("path", r.URL.Path).Msg("handler panic")
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}

	mux.HandlerFunc(http.MethodGet, "/ws", ws.ServeWS)
	mux.GET("/healthz", serveHealthCheck)
	mux.GET("/version", serveVersion(cfg.Version))
	mux.GET("/api/state", serveState(service, ws.hub))
	mux.GET("/qr", serveQRCode(cfg.Origin, cfg.Logger))

	if cfg.Gatherer != nil {
		mux.Handler(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	return mux
}

func serveHealthCheck(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok")
}

func serveVersion(version string) httprouter.Handle {
	return func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "quizcast v"+version+"\n")
	}
}

type stateResponse struct {
	app.Snapshot
	Connections int `json:"connections"`
}

func serveState(service *app.QuizService, hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(stateResponse{
			Snapshot:    service.Snapshot(),
			Connections: hub.Len(),
		})
	}
}

// serveQRCode renders the participant join URL as a PNG.
func serveQRCode(origin string, logger zerolog.Logger) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		size := defaultQRSize
		if raw := r.URL.Query().Get("size"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < minQRSize || n > maxQRSize {
				http.Error(w, "size must be between 64 and 1024", http.StatusBadRequest)
				return
			}
			size = n
		}

		png, err := qrcode.Encode(origin, qrcode.Medium, size)
		if err != nil {
			logger.Error().Err(err).Msg("encode qr code")
			http.Error(w, "failed to encode qr code", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-cache")
		_, _ = w.Write(png)
	}
}
