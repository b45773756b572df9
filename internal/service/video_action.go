package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/damz-ai/detect-console/internal/apierr"
	"github.com/damz-ai/detect-console/internal/models"
)

type videoActionClient interface {
	DetectVideoAction(ctx context.Context, req models.VideoActionRequest) (*models.VideoActionResponse, error)
}

type VideoActionService struct {
	logger *log.Logger
	client videoActionClient
}

func NewVideoActionService(logger *log.Logger, client videoActionClient) *VideoActionService {
	return &VideoActionService{
		logger: logger,
		client: client,
	}
}

func (s *VideoActionService) Detect(ctx context.Context, req models.VideoActionRequest) (*models.VideoActionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, apierr.Validation(err.Error())
	}
	req.Prompt = strings.TrimSpace(req.Prompt)

	s.logger.Printf("start video action detection on %s (%d bytes): %q\n", req.File.Name, req.File.Size(), req.Prompt)

	resp, err := s.client.DetectVideoAction(ctx, req)
	if err != nil {
		s.logger.Printf("video action detection failed: %v\n", err)
		return nil, fmt.Errorf("detect video action: %w", err)
	}

	s.logger.Printf("finish video action detection: job %s, %d segments\n", resp.JobID, len(resp.Segments))
	return resp, nil
}
