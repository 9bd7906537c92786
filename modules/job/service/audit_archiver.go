package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	appConfig "stayops/core/config"
	"stayops/core/logger"
	"stayops/modules/job/dto"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3AuditArchiver mirrors assignment decision records to an S3 bucket for
// long-term retention. Postgres remains the source of truth; a failed upload
// is logged and dropped.
type S3AuditArchiver struct {
	client *s3.Client
	bucket string
}

func NewS3AuditArchiver(ctx context.Context, cfg appConfig.AuditConfig) (*S3AuditArchiver, error) {
	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, awsConfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &S3AuditArchiver{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.Bucket,
	}, nil
}

// Archive uploads the audit record under audits/<date>/<job_id>.json.
func (a *S3AuditArchiver) Archive(ctx context.Context, audit *dto.AssignmentAudit) {
	body, err := json.Marshal(audit)
	if err != nil {
		logger.Warn("S3AuditArchiver:Archive:marshal_failed", "job_id", audit.JobID, "error", err.Error())
		return
	}

	key := fmt.Sprintf("audits/%s/%s.json", audit.DecidedAt.Format("2006-01-02"), audit.JobID)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		logger.Warn("S3AuditArchiver:Archive:upload_failed", "job_id", audit.JobID, "key", key, "error", err.Error())
		return
	}
	logger.Debug("S3AuditArchiver:Archive", "key", key)
}
