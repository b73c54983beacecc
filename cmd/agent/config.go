package main

import (
	"os"
	"strconv"

	"github.com/solenecodes/web-search-agent/internal/provider"
	"github.com/solenecodes/web-search-agent/server"
	"github.com/solenecodes/web-search-agent/worker"
)

func serverConfigFromEnv() server.ServerConfig {
	config := server.DefaultConfig()

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		config.RedisAddr = addr
	}
	config.RedisUsername = os.Getenv("REDIS_USERNAME")
	config.RedisPassword = os.Getenv("REDIS_PASSWORD")
	if db, err := strconv.Atoi(os.Getenv("REDIS_DB")); err == nil {
		config.RedisDB = db
	}

	if url := os.Getenv("HOSTED_AGENT_URL"); url != "" {
		config.PublicURL = url
	}

	return config
}

func workerConfigFromEnv() worker.WorkerConfig {
	config := worker.DefaultConfig()

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		config.RedisAddr = addr
	}
	config.RedisUsername = os.Getenv("REDIS_USERNAME")
	config.RedisPassword = os.Getenv("REDIS_PASSWORD")
	if db, err := strconv.Atoi(os.Getenv("REDIS_DB")); err == nil {
		config.RedisDB = db
	}

	if host := os.Getenv("QDRANT_HOST"); host != "" {
		config.QdrantHost = host
	}
	if port, err := strconv.Atoi(os.Getenv("QDRANT_PORT")); err == nil {
		config.QdrantPort = port
	}

	config.Credentials = provider.Credentials{
		AzureOpenAIEndpoint:   os.Getenv("AZURE_OPENAI_ENDPOINT"),
		AzureOpenAIKey:        os.Getenv("AZURE_OPENAI_API_KEY"),
		AzureOpenAIDeployment: os.Getenv("AZURE_OPENAI_DEPLOYMENT_NAME"),
		TavilyKey:             os.Getenv("TAVILY_API_KEY"),
		CohereKey:             os.Getenv("COHERE_API_KEY"),
		GeminiKey:             os.Getenv("GEMINI_API_KEY"),
	}

	return config
}
