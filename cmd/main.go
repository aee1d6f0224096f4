package main

import (
	"context"
	"github.com/jaam8/survey_client/internal/api"
	"github.com/jaam8/survey_client/internal/capture"
	"github.com/jaam8/survey_client/internal/config"
	"github.com/jaam8/survey_client/internal/repository"
	srv "github.com/jaam8/survey_client/internal/service"
	"github.com/jaam8/survey_client/pkg/httpclient"
	"github.com/jaam8/survey_client/pkg/logger"
	"github.com/mattermost/mattermost-server/v6/model"
	"go.uber.org/zap"
	logg "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx := context.Background()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()
	cfg, err := config.New()
	if err != nil {
		logg.Fatalf("failed to load config: %s", err)
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		logg.Fatalf("failed to initalize logger: %s", err)
	}
	defer func() { _ = log.Sync() }()

	base, client, err := httpclient.New(cfg.Backend)
	if err != nil {
		logg.Fatalf("failed to configure backend client: %s", err)
	}
	repo := repository.New(base, client, log)
	newSession := func() *srv.SessionController {
		device := &capture.FileDevice{
			Path:      cfg.Audio.Source,
			MimeType:  cfg.Audio.MimeType,
			ChunkSize: cfg.Audio.ChunkSize,
		}
		return srv.New(repo, capture.New(device, cfg.Audio.MimeType, log), log)
	}
	log.Info("starting survey client",
		zap.String("frontend", cfg.Frontend),
		zap.String("backend_url", base))

	switch cfg.Frontend {
	case config.FrontendMattermost:
		runMattermost(ctx, cfg.Mattermost, newSession, log)
	default:
		if err = api.RunTerminal(ctx, newSession(), os.Stdin, os.Stdout, log); err != nil {
			log.Error("terminal stopped", zap.Error(err))
		}
	}
	logg.Println("client graceful stopped")
}

func runMattermost(ctx context.Context, cfg config.Mattermost, newSession api.SessionFactory, log *zap.Logger) {
	client := model.NewAPIv4Client(cfg.URL)
	webSocketClient, err := model.NewWebSocketClient4(cfg.WsURL, cfg.BotToken)
	if err != nil {
		logg.Fatalf("failed to connect to webSocket: %v", err)
	}
	defer webSocketClient.Close()

	client.SetToken(cfg.BotToken)
	webSocketClient.Listen()
	user, resp, err := client.GetUser("me", "")
	if err != nil {
		logg.Fatalf("failed to get user: %s", err)
	}
	if resp != nil && resp.StatusCode != http.StatusOK {
		logg.Fatalf("failed to get user: status %d", resp.StatusCode)
	}
	frontend := api.NewMattermost(client, newSession, log, cfg.Command, cfg.ChannelID, user.Id)
	defer frontend.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-webSocketClient.EventChannel:
			if !ok {
				log.Warn("websocket closed")
				return
			}
			log.Debug("new event", zap.String("event", event.EventType()))
			frontend.HandleEvent(ctx, event)
		}
	}
}
