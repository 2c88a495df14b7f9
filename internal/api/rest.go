package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/hbomb79/mediagate/internal/fault"
	"github.com/hbomb79/mediagate/internal/http/websocket"
	"github.com/hbomb79/mediagate/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	glog "github.com/labstack/gommon/log"
)

var log = logger.Get("API")

const maxRequestBody = "4M"

type (
	RestConfig struct {
		HostAddr string `yaml:"host_address" env:"API_HOST_ADDR" env-default:"127.0.0.1:6699"`
	}

	// Dispatcher runs the named gateway command.
	Dispatcher interface {
		Invoke(ctx context.Context, name string, arguments json.RawMessage) (any, error)
		Commands() []string
	}

	successResponse struct {
		Result any `json:"result"`
	}

	errorResponse struct {
		Error string     `json:"error"`
		Kind  fault.Kind `json:"kind"`
	}

	// The RestGateway is a thin-wrapper around the Echo HTTP router. Its sole responsibility
	// is to expose the command registry over HTTP, either one request per command or
	// over a long-lived web socket.
	RestGateway struct {
		config     *RestConfig
		ec         *echo.Echo
		socket     *websocket.SocketHub
		dispatcher Dispatcher
	}
)

// NewRestGateway constructs the Echo router and registers the invoke,
// websocket and health routes against the dispatcher provided.
func NewRestGateway(config *RestConfig, dispatcher Dispatcher) *RestGateway {
	ec := echo.New()
	ec.OnAddRouteHandler = func(host string, route echo.Route, handler echo.HandlerFunc, middleware []echo.MiddlewareFunc) {
		log.Emit(logger.DEBUG, "Registered new route %s %s\n", route.Method, route.Path)
	}
	ec.HidePort = true
	ec.HideBanner = true
	ec.Logger.SetLevel(glog.OFF)

	gateway := &RestGateway{
		config:     config,
		ec:         ec,
		socket:     websocket.New(dispatcher),
		dispatcher: dispatcher,
	}

	ec.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	ec.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			log.Emit(logger.VERBOSE, "%s %s -> %d (%s) [%s]\n", v.Method, v.URI, v.Status, v.Latency, v.RequestID)
			return nil
		},
	}))
	ec.Use(middleware.Recover())
	ec.Use(middleware.CORS())
	ec.Use(middleware.Secure())
	ec.Use(middleware.BodyLimit(maxRequestBody))
	ec.Pre(middleware.AddTrailingSlash())

	ec.GET("/api/v1/health/", func(ec echo.Context) error {
		return ec.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	ec.GET("/api/v1/invoke/ws/", func(ec echo.Context) error {
		gateway.socket.UpgradeToSocket(ec.Response(), ec.Request())
		return nil
	})

	ec.GET("/api/v1/commands/", func(ec echo.Context) error {
		return ec.JSON(http.StatusOK, gateway.dispatcher.Commands())
	})

	ec.POST("/api/v1/invoke/:command/", gateway.invoke)

	return gateway
}

// ServeHTTP allows the gateway to be driven directly, without listening.
func (gateway *RestGateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	gateway.ec.ServeHTTP(w, r)
}

// Run starts the HTTP listener and the socket hub, blocking until the context
// is cancelled or the listener fails.
func (gateway *RestGateway) Run(parentCtx context.Context) error {
	ctx, ctxCancel := context.WithCancelCause(parentCtx)
	wg := &sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := gateway.ec.Start(gateway.config.HostAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			ctxCancel(err)
		}
	}()

	go func(ec *echo.Echo) {
		<-ctx.Done()
		ec.Close()
	}(gateway.ec)

	wg.Add(1)
	go func() {
		defer wg.Done()
		gateway.socket.Start(ctx)
	}()

	log.Emit(logger.SUCCESS, "Listening on %s\n", gateway.config.HostAddr)
	wg.Wait()

	// Return cancellation cause if any, otherwise nil as parent context
	// cancellation is not an error case we should report.
	if cause := context.Cause(ctx); cause != ctx.Err() {
		return cause
	}

	return nil
}

func (gateway *RestGateway) invoke(ec echo.Context) error {
	body, err := io.ReadAll(ec.Request().Body)
	if err != nil {
		return respondWithError(ec, fault.Wrap(fault.InvalidArgument, "Failed to read request body", err))
	}

	result, err := gateway.dispatcher.Invoke(ec.Request().Context(), ec.Param("command"), body)
	if err != nil {
		return respondWithError(ec, err)
	}

	return ec.JSON(http.StatusOK, successResponse{Result: result})
}

func respondWithError(ec echo.Context, err error) error {
	kind := fault.KindOf(err)
	log.Emit(logger.WARNING, "Command %s failed (%s): %s\n", ec.Param("command"), kind, err)

	return ec.JSON(StatusForKind(kind), errorResponse{Error: err.Error(), Kind: kind})
}

// StatusForKind maps an error kind to the HTTP status reported for it.
func StatusForKind(kind fault.Kind) int {
	switch kind {
	case fault.NotFound:
		return http.StatusNotFound
	case fault.InvalidArgument:
		return http.StatusBadRequest
	case fault.ParseFailed, fault.NoVideoStream:
		return http.StatusUnprocessableEntity
	case fault.ProbeFailed, fault.EncodeFailed, fault.LaunchFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
