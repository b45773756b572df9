package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/damz-ai/detect-console/internal/client"
	"github.com/damz-ai/detect-console/internal/config"
	"github.com/damz-ai/detect-console/internal/models"
)

var formatFiles = []string{"jpg", "jpeg", "png", "webp"}

func main() {
	imageURL := flag.String("url", "", "also benchmark URL detection on this image")
	repeat := flag.Int("n", 1, "times to send every input")
	dataDir := flag.String("data", "data", "directory holding one sub-directory per image format")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx := context.Background()
	c := client.New(cfg.API)
	queries := models.DefaultQueries()

	var results []BenchResult
	for i := 0; i < *repeat; i++ {
		for _, formatFile := range formatFiles {
			dataPath := filepath.Join(*dataDir, formatFile)

			images, _ := os.ReadDir(dataPath)

			for _, image := range images {
				if image.IsDir() {
					continue
				}
				res := benchmarkFile(ctx, c, filepath.Join(dataPath, image.Name()), queries)
				logResult(res)
				results = append(results, res)
			}
		}

		if *imageURL != "" {
			res := benchmarkURL(ctx, c, *imageURL, queries)
			logResult(res)
			results = append(results, res)
		}
	}

	printMarkdown(os.Stdout, results)
}

func benchmarkFile(ctx context.Context, c *client.Client, filePath string, queries []string) BenchResult {
	format := strings.TrimPrefix(filepath.Ext(filePath), ".")

	data, err := os.ReadFile(filePath)
	if err != nil {
		return BenchResult{Endpoint: client.EndpointDetectUpload, File: filePath, Format: format, Err: err}
	}

	upload := models.Upload{
		Name:        filepath.Base(filePath),
		ContentType: mime.TypeByExtension(filepath.Ext(filePath)),
		Data:        data,
	}

	start := time.Now()
	resp, err := c.DetectObjectsFromFile(ctx, upload, queries,
		models.DefaultBoxThreshold, models.DefaultTextThreshold, models.DefaultPriority)

	res := BenchResult{
		Endpoint: client.EndpointDetectUpload,
		File:     upload.Name,
		Format:   format,
		Duration: time.Since(start),
		Size:     upload.Size(),
		Err:      err,
	}
	if resp != nil {
		res.Objects = resp.NumDetections
	}
	return res
}

func benchmarkURL(ctx context.Context, c *client.Client, imageURL string, queries []string) BenchResult {
	start := time.Now()
	resp, err := c.DetectObjects(ctx, models.DetectionRequest{
		ImageURL:            imageURL,
		TextQueries:         queries,
		BoxThreshold:        models.DefaultBoxThreshold,
		TextThreshold:       models.DefaultTextThreshold,
		ReturnVisualization: true,
		Priority:            models.DefaultPriority,
	})

	res := BenchResult{
		Endpoint: client.EndpointDetect,
		File:     imageURL,
		Format:   "url",
		Duration: time.Since(start),
		Err:      err,
	}
	if resp != nil {
		res.Objects = resp.NumDetections
	}
	return res
}

func logResult(res BenchResult) {
	if res.Err != nil {
		log.Printf("ERR %s %s: %v", res.Endpoint, res.File, res.Err)
		return
	}
	log.Printf("OK %s %s %v (%d objects)", res.Endpoint, res.File, res.Duration, res.Objects)
}

func aggregate(results []BenchResult) map[string]Agg {
	m := map[string]Agg{}
	for _, r := range results {
		key := r.Endpoint + " " + r.Format
		a := m[key]
		if r.Err != nil {
			a.Errors++
			m[key] = a
			continue
		}
		a.Count++
		a.TotalBytes += r.Size
		a.Total += r.Duration
		m[key] = a
	}
	return m
}

func printMarkdown(w io.Writer, results []BenchResult) {
	fmt.Fprintln(w, "\n## Benchmark Results")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| Endpoint | Format | Requests | Errors | Avg Time | Total Time | Avg File Size |")
	fmt.Fprintln(w, "|----------|--------|----------|--------|----------|------------|---------------|")

	agg := aggregate(results)
	keys := make([]string, 0, len(agg))
	for k := range agg {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var (
		totalCount    int
		totalErrors   int
		totalDuration time.Duration
		totalBytes    int64
	)

	for _, key := range keys {
		a := agg[key]
		endpoint, format, _ := strings.Cut(key, " ")
		fmt.Fprintf(w, "| %s | %s | %d | %d | %v | %v | %s |\n",
			endpoint,
			format,
			a.Count,
			a.Errors,
			mean(a.Total, a.Count).Round(time.Millisecond),
			a.Total.Round(time.Millisecond),
			humanBytes(meanBytes(a.TotalBytes, a.Count)),
		)
		totalCount += a.Count
		totalErrors += a.Errors
		totalDuration += a.Total
		totalBytes += a.TotalBytes
	}

	if totalCount+totalErrors > 0 {
		fmt.Fprintf(w, "| **ALL** | | %d | %d | %v | %v | %s |\n",
			totalCount,
			totalErrors,
			mean(totalDuration, totalCount).Round(time.Millisecond),
			totalDuration.Round(time.Millisecond),
			humanBytes(meanBytes(totalBytes, totalCount)),
		)
	}
}

func mean(total time.Duration, n int) time.Duration {
	if n == 0 {
		return 0
	}
	return total / time.Duration(n)
}

func meanBytes(total int64, n int) int64 {
	if n == 0 {
		return 0
	}
	return total / int64(n)
}

func humanBytes(size int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)
	switch {
	case size >= GB:
		return fmt.Sprintf("%.2f GB", float64(size)/GB)
	case size >= MB:
		return fmt.Sprintf("%.2f MB", float64(size)/MB)
	case size >= KB:
		return fmt.Sprintf("%.2f KB", float64(size)/KB)
	default:
		return fmt.Sprintf("%d B", size)
	}
}
