package main

import (
	"github.com/fenneh/discord-f1-reminder/internal/cache"
	"github.com/fenneh/discord-f1-reminder/internal/config"
	"github.com/fenneh/discord-f1-reminder/internal/notifications"
	"github.com/fenneh/discord-f1-reminder/internal/provider"
	"github.com/fenneh/discord-f1-reminder/internal/provider/ergast"
	"github.com/fenneh/discord-f1-reminder/internal/provider/openf1"
	"github.com/fenneh/discord-f1-reminder/internal/provider/openweather"
	"github.com/fenneh/discord-f1-reminder/internal/reminder"
	"github.com/fenneh/discord-f1-reminder/internal/scheduler"
)

// app holds the wired dependencies shared by every command.
type app struct {
	cfg       *config.Config
	cache     *cache.Cache
	composer  *notifications.Composer
	scheduler *scheduler.Scheduler
	service   *reminder.Service
}

func newApp(cfg *config.Config) *app {
	forecastCache := cache.New(cfg.CacheEnabled)

	ergastClient := provider.NewClient("ergast", cfg.HTTPTimeout, cfg.ProviderRequestsPerMinute, logger)
	openf1Client := provider.NewClient("openf1", cfg.HTTPTimeout, cfg.ProviderRequestsPerMinute, logger)
	weatherClient := provider.NewClient("openweather", cfg.HTTPTimeout, cfg.ProviderRequestsPerMinute, logger)

	schedule := ergast.New(ergastClient, cfg.ScheduleURL, cfg.ErgastBaseURL, logger)
	weather := openweather.New(weatherClient, cfg.WeatherURL, cfg.WeatherAPIKey, forecastCache, logger)
	fallback := openf1.New(openf1Client, cfg.OpenF1BaseURL, logger)

	composer := notifications.NewComposer(cfg.BotName, weather, schedule, fallback, logger)
	sink := notifications.NewWebhookSender(cfg.WebhookURL, cfg.HTTPTimeout, logger)

	sched := scheduler.New(scheduler.Options{
		Lead:      cfg.LeadTime,
		KeepAlive: cfg.RefreshCron != "",
	}, composer, sink, logger)

	svc := reminder.New(schedule, sched, composer, sink, reminder.Options{RefreshCron: cfg.RefreshCron}, logger)

	return &app{
		cfg:       cfg,
		cache:     forecastCache,
		composer:  composer,
		scheduler: sched,
		service:   svc,
	}
}

// Close releases background resources.
func (a *app) Close() {
	a.cache.Close()
}
