package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"propertyagent/config"
	"propertyagent/internal/models"
	"propertyagent/internal/utils"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// S3Service is the Uploader used when STORAGE_BACKEND=s3. The object key is
// the tracking id and the public bucket URL of the key is the tracking URL.
type S3Service struct {
	s3Client *s3.S3
	config   *config.S3Config
	agentID  string
	now      func() time.Time
}

func NewS3Service(cfg *config.S3Config, agentID string) (*S3Service, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:           aws.String(cfg.Region),
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
		Endpoint:         aws.String(cfg.ServiceUrl),
		S3ForcePathStyle: aws.Bool(cfg.ForcePathStyle),
	})
	if err != nil {
		return nil, fmt.Errorf("error creating S3 session: %v", err)
	}

	return &S3Service{
		s3Client: s3.New(sess),
		config:   cfg,
		agentID:  agentID,
		now:      time.Now,
	}, nil
}

func (s *S3Service) Upload(ctx context.Context, file *models.FileUpload) (*models.Attachment, error) {
	now := s.now()
	key := fmt.Sprintf("%s/%s/%s", s.agentID, newMessageID(now), filepath.Base(file.Name))

	contentType := file.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	utils.LogInfo("Starting S3 upload: %s", key)

	_, err := s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(file.Data),
		ContentType: aws.String(contentType),
		Metadata: map[string]*string{
			"agent-id":      aws.String(s.agentID),
			"original-name": aws.String(file.Name),
		},
	})
	if err != nil {
		return nil, Transport(err, fmt.Sprintf("S3 upload failed: %v", err))
	}

	fileURL := fmt.Sprintf("%s/%s", s.config.BucketUrl, key)
	utils.LogInfo("S3 upload finished: %s", fileURL)

	return newAttachment(file, file.Name, file.Size, fileURL, key, models.UploadMethodS3, now), nil
}

func (s *S3Service) Analytics(ctx context.Context) (json.RawMessage, error) {
	return nil, Transport(nil, "Analytics failed: not available for s3 storage")
}
