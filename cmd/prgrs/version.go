package main

// Populated at build time via -ldflags:
//
//	go build -ldflags "-X main.version=v0.3.0 -X main.commit=abc1234 -X main.date=2026-01-01" ./cmd/prgrs
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)
