package deploy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/shouni/go-remote-io/pkg/remoteio"

	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/domain"
)

const descriptorContentType = "application/json"

// Uploader は成果物記述を配信基盤へ書き出します。
// 書き出しの失敗は配備段階の失敗としてジョブを止めます。
type Uploader interface {
	Upload(ctx context.Context, objectPath string, descriptor domain.PackageDescriptor) error
}

// NoopUploader は何も書き出しません。URL 計算のみで運用する構成向けです。
type NoopUploader struct{}

func (NoopUploader) Upload(context.Context, string, domain.PackageDescriptor) error { return nil }

// GCSUploader は remote-io の OutputWriter で GCS へ書き出します。
type GCSUploader struct {
	writer remoteio.OutputWriter
	// toObjectURL は相対パスを "gs://bucket/..." へ引き上げます。
	toObjectURL func(string) string
}

// NewGCSUploader は GCSUploader を作成します。
func NewGCSUploader(writer remoteio.OutputWriter, toObjectURL func(string) string) *GCSUploader {
	return &GCSUploader{writer: writer, toObjectURL: toObjectURL}
}

func (u *GCSUploader) Upload(ctx context.Context, objectPath string, descriptor domain.PackageDescriptor) error {
	data, err := marshalDescriptor(descriptor)
	if err != nil {
		return err
	}
	target := u.toObjectURL(objectPath)
	if err := u.writer.Write(ctx, target, bytes.NewReader(data), descriptorContentType); err != nil {
		return fmt.Errorf("failed to upload descriptor to %q: %w", target, err)
	}
	return nil
}

// MinIOUploader は S3 互換ストレージへ書き出します。
type MinIOUploader struct {
	mc     *minio.Client
	bucket string
}

// NewMinIOUploader は接続を初期化し、バケットの存在を保証します。
func NewMinIOUploader(ctx context.Context, endpoint, access, secret string, useTLS bool, bucket string) (*MinIOUploader, error) {
	mc, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	u := &MinIOUploader{mc: mc, bucket: bucket}
	if err := u.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return u, nil
}

func (u *MinIOUploader) ensureBucket(ctx context.Context) error {
	exists, err := u.mc.BucketExists(ctx, u.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %q: %w", u.bucket, err)
	}
	if !exists {
		if err := u.mc.MakeBucket(ctx, u.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %q: %w", u.bucket, err)
		}
	}
	return nil
}

func (u *MinIOUploader) Upload(ctx context.Context, objectPath string, descriptor domain.PackageDescriptor) error {
	data, err := marshalDescriptor(descriptor)
	if err != nil {
		return err
	}
	_, err = u.mc.PutObject(ctx, u.bucket, objectPath, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: descriptorContentType})
	if err != nil {
		return fmt.Errorf("failed to upload descriptor to %q: %w", objectPath, err)
	}
	return nil
}

func marshalDescriptor(descriptor domain.PackageDescriptor) ([]byte, error) {
	data, err := json.MarshalIndent(descriptor, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("descriptor is not serializable: %w", err)
	}
	return data, nil
}
