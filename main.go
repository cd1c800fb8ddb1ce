package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"daylog-bot/bot"
	"daylog-bot/domain"
	"daylog-bot/storage"
	"daylog-bot/telegram"
)

func main() {
	if dbg, err := strconv.ParseBool(os.Getenv("DEBUG")); err == nil && dbg {
		log.SetLevel(log.DebugLevel)
	}

	botToken := os.Getenv("BOT_TOKEN")
	liveChat := os.Getenv("LIVE_CHAT_ID")
	archiveChat := os.Getenv("ARCHIVE_CHAT_ID")
	if botToken == "" || liveChat == "" || archiveChat == "" {
		log.Fatal("missing bot config")
	}

	tzName := getenv("TIMEZONE", "Asia/Kolkata")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		log.Fatalf("invalid TIMEZONE: %v", err)
	}
	flushHour := getenvInt("FLUSH_HOUR", 23)
	flushMinute := getenvInt("FLUSH_MINUTE", 55)
	if flushHour < 0 || flushHour > 23 || flushMinute < 0 || flushMinute > 59 {
		log.Fatalf("invalid flush time %02d:%02d", flushHour, flushMinute)
	}

	redisConn := os.Getenv("REDIS_CONNECTION_STRING")
	if redisConn == "" {
		log.Fatal("missing redis config")
	}
	redisOpts, err := redis.ParseURL(redisConn)
	if err != nil {
		parts := strings.Split(redisConn, ",")
		redisOpts = &redis.Options{Addr: parts[0]}
		for _, p := range parts[1:] {
			kv := strings.SplitN(p, "=", 2)
			if len(kv) != 2 {
				continue
			}
			switch strings.ToLower(kv[0]) {
			case "password":
				redisOpts.Password = kv[1]
			case "ssl":
				if strings.ToLower(kv[1]) == "true" {
					redisOpts.TLSConfig = &tls.Config{}
				}
			}
		}
	}
	rc := redis.NewClient(redisOpts)
	ttl := 24 * time.Hour
	if v := os.Getenv("DEDUPER_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			log.Fatalf("invalid DEDUPER_TTL: %v", err)
		}
		ttl = d
	}
	deduper := bot.NewRedisDeduper(rc, ttl)

	logger := log.StandardLogger()
	clock := domain.NewClock(loc)
	store := storage.New()
	client := telegram.NewClient(botToken)

	b := bot.New(store, clock, client, deduper, liveChat, logger)
	flusher := bot.NewFlusher(store, clock, client, archiveChat, logger)

	sched := cron.New(
		cron.WithLocation(loc),
		// One timer source; a firing that overlaps a still-running flush is
		// skipped rather than run concurrently.
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	spec := fmt.Sprintf("%d %d * * *", flushMinute, flushHour)
	if _, err := sched.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := flusher.Run(ctx); err != nil {
			log.Errorf("scheduled flush: %v", err)
		}
	}); err != nil {
		log.Fatalf("schedule flush: %v", err)
	}
	sched.Start()
	log.Infof("daily flush scheduled at %02d:%02d %s", flushHour, flushMinute, tzName)

	e := echo.New()
	e.HideBanner = true
	bot.Register(e, flusher, os.Getenv("ADMIN_TOKEN"))

	transport := getenv("TRANSPORT", "poll")
	switch transport {
	case "poll":
		poller := bot.NewPoller(client, b, getenvDur("POLL_TIMEOUT", 50*time.Second), logger)
		go poller.Run(context.Background())
		log.Info("long-poll transport started")
	case "webhook":
		bot.RegisterWebhook(e, b, os.Getenv("WEBHOOK_SECRET"))
		log.Info("webhook transport registered")
	default:
		log.Fatalf("invalid TRANSPORT: %q", transport)
	}

	listenAddr := ":8080"
	if val, ok := os.LookupEnv("PORT"); ok {
		listenAddr = ":" + val
	}
	e.Logger.Fatal(e.Start(listenAddr))
}
