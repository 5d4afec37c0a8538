package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/nimbuslab/nimbus/config"
	"github.com/nimbuslab/nimbus/internal/app/controllers"
	"github.com/nimbuslab/nimbus/internal/pkg/agents"
	"github.com/nimbuslab/nimbus/internal/pkg/agents/providers"
	"github.com/nimbuslab/nimbus/internal/pkg/agents/tools"
	"github.com/nimbuslab/nimbus/internal/pkg/utils"
	"github.com/nimbuslab/nimbus/internal/pkg/weather"
)

// @title Nimbus Weather Agent API
// @version 0.1
// @description Natural-language weather assistant backed by OpenWeather.

// @host localhost:8080
func main() {
	if err := config.LoadConfig("dev"); err != nil {
		slog.Error("Error loading configuration", "error", err)
		panic(err)
	}

	// The OpenWeather client is the only long-lived shared resource: opened
	// once here, closed once at shutdown. A missing API key fails startup.
	weatherClient, err := weather.NewClient(weather.Config{
		APIKey:        config.Config.OpenWeather.APIKey,
		BaseURL:       config.Config.OpenWeather.BaseURL,
		Timeout:       time.Duration(config.Config.OpenWeather.TimeoutSeconds * float64(time.Second)),
		MaxRetries:    config.Config.OpenWeather.MaxRetries,
		BackoffFactor: time.Duration(config.Config.OpenWeather.BackoffFactor * float64(time.Second)),
		DefaultLang:   config.Config.OpenWeather.DefaultLang,
	})
	if err != nil {
		slog.Error("Error creating OpenWeather client", "error", err)
		panic(err)
	}
	defer weatherClient.Close()

	registry := tools.NewRegistry()
	registry.Register(tools.NewLocateTool(weatherClient))
	registry.Register(tools.NewCurrentConditionsTool(weatherClient, config.Config.OpenWeather.DefaultUnits))
	registry.Register(tools.NewForecastTool(weatherClient, config.Config.OpenWeather.DefaultUnits))

	openaiClient := openai.NewClient(option.WithAPIKey(config.Config.OpenAI.APIKey))
	provider := providers.NewOpenAIChatProvider(openaiClient, config.Config.OpenAI.Model)
	agent := agents.NewWeatherAgent(provider, registry, config.Config.Agent.MaxTurns)

	r := gin.Default()
	chatController := controllers.NewChatController(agent)
	weatherController := controllers.NewWeatherController(weatherClient)
	v1 := r.Group("/api/v1")
	{
		v1.POST("/chat", chatController.Chat)
		v1.GET("/geocode", weatherController.Geocode)
		v1.GET("/weather/current", weatherController.CurrentWeather)
	}
	r.GET("/healthz", controllers.Healthz)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.Config.Server.Port),
		Handler: r,
	}
	go func() {
		defer utils.RecoverPanic()
		slog.Info("Server is running", "port", config.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}
}
