package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ccbankdash/internal/bankapi"
	"ccbankdash/internal/config"
	"ccbankdash/internal/flash"
	apphttp "ccbankdash/internal/http"
	"ccbankdash/internal/http/middleware"
	"ccbankdash/internal/logging"
	"ccbankdash/internal/session"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil && cfg == nil {
		panic(err)
	}

	l := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	slog.SetDefault(l)

	if err != nil {
		slog.Warn("Could not get `config.yaml` file. Will run with default values")
		slog.Warn("The flash secret will be defined to a default value. This is a security risk in production.")
	}

	signer, err := flash.NewSigner(cfg.Security.FlashSecret, cfg.Security.SecureCookies)
	if err != nil {
		slog.Error("flash.signer", "err", err)
		os.Exit(1)
	}

	api := bankapi.New(cfg.API.BaseURL, cfg.API.Timeout, &http.Client{
		Transport: &http.Transport{
			MaxIdleConnsPerHost: 16,
			IdleConnTimeout:     90 * time.Second,
		},
	})
	slog.Info("bankapi.configured", "base_url", cfg.API.BaseURL, "timeout", cfg.API.Timeout)

	mux, err := apphttp.NewMux(apphttp.Deps{
		API:           api,
		Flash:         signer,
		LoginURL:      cfg.Session.LoginURL,
		PerPage:       cfg.Dashboard.DefaultPerPage,
		SubmitLimiter: middleware.NewRateLimiter(cfg.Dashboard.SubmitLimit, cfg.Dashboard.SubmitWindow),
	})
	if err != nil {
		slog.Error("Couldn't parse templates", "err", err)
		os.Exit(1)
	}

	cookies := session.Cookies{
		TokenName:    cfg.Session.TokenCookie,
		UsernameName: cfg.Session.UsernameCookie,
		Secure:       cfg.Security.SecureCookies,
	}
	srv := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      apphttp.WithStandardMiddleware(cookies, mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.API.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("http.starting", "addr", cfg.HTTP.Address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("http.listen", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	slog.Info("http.shutting_down")
	_ = srv.Shutdown(ctx)
	slog.Info("http.stopped")
}
