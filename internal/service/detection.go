package service

import (
	"context"
	"fmt"
	"log"

	"github.com/damz-ai/detect-console/internal/apierr"
	"github.com/damz-ai/detect-console/internal/models"
)

type detectionClient interface {
	DetectObjects(ctx context.Context, req models.DetectionRequest) (*models.DetectionResponse, error)
	DetectObjectsFromFile(
		ctx context.Context,
		file models.Upload,
		queries []string,
		boxThreshold, textThreshold float64,
		priority int,
	) (*models.DetectionResponse, error)
}

type DetectionService struct {
	logger *log.Logger
	client detectionClient
}

func NewDetectionService(logger *log.Logger, client detectionClient) *DetectionService {
	return &DetectionService{
		logger: logger,
		client: client,
	}
}

// Detect validates the input and sends it to the upload or the URL endpoint
// depending on which image source is active. Nothing is sent when validation fails.
func (s *DetectionService) Detect(ctx context.Context, in models.DetectionInput) (*models.DetectionResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, apierr.Validation(err.Error())
	}

	queries := models.TrimQueries(in.Queries)

	var (
		resp *models.DetectionResponse
		err  error
	)
	switch src := in.Source.(type) {
	case models.FileInput:
		s.logger.Printf("start detection on file %s (%d bytes, %d queries)\n", src.Name, src.Size(), len(queries))
		resp, err = s.client.DetectObjectsFromFile(ctx, src.Upload, queries, in.BoxThreshold, in.TextThreshold, in.Priority)
	case models.URLInput:
		s.logger.Printf("start detection on url %s (%d queries)\n", src.URL, len(queries))
		resp, err = s.client.DetectObjects(ctx, NewDetectionRequest(src.URL, queries, in.BoxThreshold, in.TextThreshold, in.Priority))
	default:
		return nil, apierr.Validation(models.ErrNoImageSource.Error())
	}
	if err != nil {
		s.logger.Printf("detection failed: %v\n", err)
		return nil, fmt.Errorf("detect objects: %w", err)
	}

	s.logger.Printf("finish detection: %d objects\n", resp.NumDetections)
	return resp, nil
}

// NewDetectionRequest builds the JSON body for URL detection with the
// visualization on and asynchronous processing off.
func NewDetectionRequest(imageURL string, queries []string, boxThreshold, textThreshold float64, priority int) models.DetectionRequest {
	return models.DetectionRequest{
		ImageURL:            imageURL,
		TextQueries:         models.TrimQueries(queries),
		BoxThreshold:        boxThreshold,
		TextThreshold:       textThreshold,
		ReturnVisualization: true,
		AsyncProcessing:     false,
		Priority:            priority,
	}
}
