package main

import (
	"adaptui/internal/config"
	logger "adaptui/internal/logging"
	"adaptui/internal/models"
	"adaptui/internal/personalize"
	"adaptui/internal/router"
	"adaptui/internal/scoring"
	"adaptui/internal/tracker"

	"go.uber.org/zap"
)

func main() {
	// Initialize Logger
	log, err := logger.Init(".")
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	// Initialize Configuration
	if err := config.Init(".", log); err != nil {
		log.Fatal("Failed to initialize configuration", zap.Error(err))
	}

	// Load the survey catalog at startup
	survey, err := models.LoadSurvey(config.Conf.Experiment.SurveyPath)
	if err != nil {
		log.Fatal("Failed to load survey catalog", zap.Error(err))
	}

	// Wire the personalization engine. Without an API key the remote
	// strategy stays nil and the engine runs purely rule-based.
	scorer := scoring.NewScorer(survey.Icons)
	local := personalize.NewRuleBased(log, survey)

	var remote personalize.Strategy
	var icons personalize.IconEvaluator
	if key := config.Conf.Gemini.APIKey; key != "" {
		gemini := personalize.NewGemini(log, personalize.GeminiConfig{
			APIKey:     key,
			BaseURL:    config.Conf.Gemini.BaseURL,
			Model:      config.Conf.Gemini.Model,
			Timeout:    config.Conf.Gemini.Timeout,
			MaxRetries: config.Conf.Gemini.MaxRetries,
			RetryBase:  config.Conf.Gemini.RetryBase,
		}, survey)
		remote = gemini
		icons = gemini
	} else {
		log.Warn("No Gemini API key configured, personalization is rule-based only")
	}
	engine := personalize.NewEngine(log, remote, icons, local, scorer)

	registry := tracker.NewRegistry()

	// Setup router, passing the logger to it
	r := router.Setup(log, survey, engine, registry)

	// Start the Gin server
	port := ":" + config.Conf.Server.Port
	log.Info("Server listening on http://localhost" + port)
	if err := r.Run(port); err != nil {
		log.Fatal("Failed to run Gin server", zap.Error(err))
	}
}
