// Handloom - Artisan Marketplace Platform
// Copyright 2026 Handloom Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/handloom-labs/handloom

// Package objstore stores media blobs in S3 and hands out presigned
// download URLs so image bytes never flow through the API server.
package objstore

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// Store is the object storage interface the media handlers depend on.
type Store interface {
	Put(ctx context.Context, key string, r io.ReadSeeker, contentType string) error
	PresignedURL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// Config holds the S3 connection settings.
type Config struct {
	Bucket   string
	Region   string
	Endpoint string

	// PresignTTL bounds the lifetime of generated download URLs.
	PresignTTL time.Duration
}

// S3Store implements Store against S3 or any S3-compatible endpoint.
type S3Store struct {
	svc        s3iface.S3API
	bucket     string
	presignTTL time.Duration
}

// New creates an S3-backed store. Credentials come from the standard
// AWS chain (env, shared config, instance role).
func New(cfg Config) (*S3Store, error) {
	awsCfg := &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("create aws session: %w", err)
	}

	ttl := cfg.PresignTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	return &S3Store{
		svc:        s3.New(sess),
		bucket:     cfg.Bucket,
		presignTTL: ttl,
	}, nil
}

// NewWithClient wires an existing S3 API client, used by tests.
func NewWithClient(svc s3iface.S3API, bucket string, presignTTL time.Duration) *S3Store {
	return &S3Store{svc: svc, bucket: bucket, presignTTL: presignTTL}
}

// Put uploads an object.
func (s *S3Store) Put(ctx context.Context, key string, r io.ReadSeeker, contentType string) error {
	_, err := s.svc.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

// PresignedURL returns a time-limited download URL for the object.
func (s *S3Store) PresignedURL(ctx context.Context, key string) (string, error) {
	req, _ := s.svc.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	req.SetContext(ctx)

	url, err := req.Presign(s.presignTTL)
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return url, nil
}

// Delete removes an object.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.svc.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

// ObjectKey builds the canonical key for an uploaded media file,
// namespaced by the owning subject.
func ObjectKey(ownerID, filename string) string {
	return "media/" + ownerID + "/" + filename
}
