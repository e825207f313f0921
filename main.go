package main

import (
	"log"

	"github.com/valyala/fasthttp"

	"savings-engine/internal/config"
	"savings-engine/internal/handler"
	"savings-engine/internal/limits"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config failed: %v", err)
	}

	lim := limits.Default()
	if cfg.LimitsFile != "" {
		lim, err = limits.Load(cfg.LimitsFile)
		if err != nil {
			log.Fatalf("Limits failed: %v", err)
		}
	}

	h := handler.New(lim)

	log.Printf("Savings engine starting on port %s (limits year %d)", cfg.Port, lim.Year)
	if err := fasthttp.ListenAndServe(":"+cfg.Port, h.HandlePlan); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
