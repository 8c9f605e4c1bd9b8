package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	appcfg "github.com/teamchess/leaguebot/internal/config"
	"github.com/teamchess/leaguebot/internal/chat"
	"github.com/teamchess/leaguebot/internal/gamelog"
	"github.com/teamchess/leaguebot/internal/heltour"
	"github.com/teamchess/leaguebot/internal/league"
	"github.com/teamchess/leaguebot/internal/leaguecfg"
	"github.com/teamchess/leaguebot/internal/lichess"
	"github.com/teamchess/leaguebot/internal/notify"
	"github.com/teamchess/leaguebot/internal/obslog"
	"github.com/teamchess/leaguebot/internal/ratingstore"
	"github.com/teamchess/leaguebot/internal/watcher"
)

func main() {
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	leagueDefs, err := leaguecfg.Load(cfg.LeagueConfigDir)
	if err != nil {
		log.Fatalf("league config error: %v", err)
	}
	leagues := make([]*league.League, 0, len(leagueDefs))
	for _, def := range leagueDefs {
		leagues = append(leagues, league.New(def))
	}

	helt := heltour.NewClient(cfg.HeltourBaseURL, cfg.HeltourAPIToken)
	games := lichess.NewClient(cfg.LichessAPIURL)

	// Chat egress (optional: without CHAT_BASE_URL the bot runs headless)
	var egress chat.Egress
	var socket *chat.Socket
	if cfg.ChatBaseURL != "" || cfg.ChatWSURL != "" {
		client := chat.NewClient(cfg.ChatBaseURL)
		if cfg.ChatWSURL != "" {
			socket = chat.NewSocket(cfg.ChatWSURL, 5)
			socket.OnStateChange(func(state chat.SocketState) {
				obslog.L().Info("chat_socket_state", zap.String("state", string(state)))
			})
			cctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := socket.Connect(cctx); err != nil {
				obslog.L().Warn("chat_socket_connect", zap.Error(err))
			}
			cancel()
		}
		egress = chat.NewEgress(cfg.ChatTransport, false, client, socket, obslog.L())
	}

	events := notify.NewPublisher()
	if egress != nil {
		notify.AttachChatAnnouncer(events, egress)
	}

	prop := watcher.NewPropagator(helt, helt, games, events, "https://lichess.org")

	var ratings *ratingstore.Store
	if cfg.RedisURL != "" {
		ratings, err = ratingstore.NewStore(cfg.RedisURL)
		if err != nil {
			log.Fatalf("rating store init error: %v", err)
		}
		prop.AttachRatingCache(ratings)
	}

	var audit *gamelog.Repository
	if cfg.DatabaseURL != "" {
		audit, err = gamelog.NewRepository(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("audit log init error: %v", err)
		}
		prop.AttachAuditLog(audit)
	}

	pool := watcher.NewPool(cfg.WatcherBaseURL, cfg.WatchChunkSize, leagues, func(lg *league.League, ev *lichess.GameEvent) {
		prop.OnEvent(context.Background(), lg, ev)
	})

	stopRefresh := make(chan struct{})
	go refreshLoop(helt, leagues, pool, cfg.PairingRefreshInterval, stopRefresh)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	close(stopRefresh)
	pool.Clear()
	if socket != nil {
		_ = socket.Close(context.Background())
	}
	if ratings != nil {
		_ = ratings.Close()
	}
	if audit != nil {
		_ = audit.Close()
	}
}

// refreshLoop keeps every league's pairings current and nudges the pool
// after each sweep; the pool rebuilds its connections only when the player
// set actually changed.
func refreshLoop(src watcher.PairingSource, leagues []*league.League, pool *watcher.Pool, interval time.Duration, stop <-chan struct{}) {
	refresh := func() {
		for _, lg := range leagues {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			ps, err := src.CurrentPairings(ctx, lg.Name())
			cancel()
			if err != nil {
				obslog.L().Error("pairing_refresh_error", zap.String("league", lg.Name()), zap.Error(err))
				continue
			}
			lg.SetPairings(ps)
			obslog.L().Info("pairing_refresh", zap.String("league", lg.Name()), zap.Int("pairings", len(ps)))
		}
		pool.Watch()
	}

	refresh()
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			refresh()
		}
	}
}
