package internal

import (
	"context"
	"fmt"
	"sync"

	"github.com/hbomb79/mediagate/internal/api"
	"github.com/hbomb79/mediagate/internal/command"
	"github.com/hbomb79/mediagate/internal/ffmpeg"
	"github.com/hbomb79/mediagate/internal/launcher"
	"github.com/hbomb79/mediagate/internal/library"
	"github.com/hbomb79/mediagate/pkg/logger"
)

var log = logger.Get("Core")

type RunnableService interface {
	Run(context.Context) error
}

// gatewayImpl is the top-level object for the server, and is responsible
// for constructing the services the commands are dispatched to and running
// the transports which expose them.
type gatewayImpl struct {
	config      GatewayConfig
	registry    *command.Registry
	restGateway RunnableService
}

func New(config GatewayConfig) *gatewayImpl {
	log.Emit(logger.DEBUG, "Bootstrapping gateway services using config: %#v\n", config)

	runner := ffmpeg.NewExecRunner()
	registry := command.NewRegistry(command.Services{
		Library:     library.New(config.Library),
		Prober:      ffmpeg.NewProber(config.Ffmpeg, runner),
		Thumbnailer: ffmpeg.NewThumbnailGenerator(config.Ffmpeg, runner),
		Launcher:    launcher.New(launcher.NativeResolver()),
		CheckTools:  func() ffmpeg.ToolAvailability { return ffmpeg.CheckTools(config.Ffmpeg, nil) },
	})

	return &gatewayImpl{
		config:      config,
		registry:    registry,
		restGateway: api.NewRestGateway(&config.RestConfig, registry),
	}
}

// Registry returns the command registry the transports dispatch to.
func (gateway *gatewayImpl) Registry() *command.Registry {
	return gateway.registry
}

// Run starts every service and does not return until the provided context
// is cancelled, or one of the services crashes.
func (gateway *gatewayImpl) Run(parent context.Context) error {
	tools := ffmpeg.CheckTools(gateway.config.Ffmpeg, nil)
	if !tools.Ffmpeg || !tools.Ffprobe {
		log.Emit(logger.WARNING, "Video tools unavailable (ffmpeg: %v, ffprobe: %v); metadata and thumbnail commands will fail\n", tools.Ffmpeg, tools.Ffprobe)
	}

	ctx, cancel := context.WithCancelCause(parent)
	defer cancel(nil)
	crashHandler := func(label string, err error) {
		log.Emit(logger.FATAL, "Service crash (%s)! %s\n", label, err.Error())
		cancel(fmt.Errorf("%s: %w", label, err))
	}

	wg := &sync.WaitGroup{}
	spawnAsyncService(ctx, wg, gateway.restGateway, "rest-gateway", crashHandler)
	log.Emit(logger.SUCCESS, "Gateway services spawned!\n")

	wg.Wait()
	if cause := context.Cause(ctx); cause != ctx.Err() {
		return cause
	}

	return nil
}

// spawnAsyncService will run the provided service as its own
// go-routine, ensuring that the service waitgroup is updated correctly
func spawnAsyncService(ctx context.Context, wg *sync.WaitGroup, service RunnableService, serviceLabel string, crashHandler func(string, error)) {
	log.Emit(logger.NEW, "Spawning %s\n", serviceLabel)
	wg.Add(1)

	go func(wg *sync.WaitGroup, label string, crash func(string, error)) {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				crash(label, fmt.Errorf("panic %v", r))
			}
		}()

		if err := service.Run(ctx); err != nil {
			crash(label, err)
		}
	}(wg, serviceLabel, crashHandler)
}
