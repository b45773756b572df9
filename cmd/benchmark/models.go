package main

import "time"

type BenchResult struct {
	Endpoint string
	File     string
	Format   string
	Duration time.Duration
	Objects  int
	Size     int64
	Err      error
}

type Agg struct {
	Count      int
	Errors     int
	Total      time.Duration
	TotalBytes int64
}
