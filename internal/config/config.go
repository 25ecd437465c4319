// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits with an
// error.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all runtime configuration for the opportunity service.
type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string

	AdzunaAppID   string
	AdzunaAppKey  string
	AdzunaCountry string // e.g. "us", "gb", "fr"
	JoobleAPIKey  string

	FeedSearchTerms      []string
	FeedLocations        []string
	FeedExcludeTerms     []string
	FeedResultsWanted    int
	RefreshIntervalHours int // how often the feed refresh fires
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	country := os.Getenv("ADZUNA_COUNTRY")
	if country == "" {
		country = "us"
	}

	interval := 6
	if s := os.Getenv("REFRESH_INTERVAL_HOURS"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("REFRESH_INTERVAL_HOURS must be a positive integer, got %q", s)
		}
		interval = v
	}

	wanted := 25
	if s := os.Getenv("FEED_RESULTS_WANTED"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("FEED_RESULTS_WANTED must be a positive integer, got %q", s)
		}
		wanted = v
	}

	return &Config{
		Port:                 port,
		DatabaseURL:          dbURL,
		RedisURL:             redisURL,
		AdzunaAppID:          os.Getenv("ADZUNA_APP_ID"),
		AdzunaAppKey:         os.Getenv("ADZUNA_APP_KEY"),
		AdzunaCountry:        country,
		JoobleAPIKey:         os.Getenv("JOOBLE_API_KEY"),
		FeedSearchTerms:      splitList(os.Getenv("FEED_SEARCH_TERMS")),
		FeedLocations:        splitList(os.Getenv("FEED_LOCATIONS")),
		FeedExcludeTerms:     splitList(os.Getenv("FEED_EXCLUDE_TERMS")),
		FeedResultsWanted:    wanted,
		RefreshIntervalHours: interval,
	}, nil
}

// splitList parses a comma-separated env value, dropping empty entries.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
