// utils/r2.go
package utils

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Avatars are the only uploads the platform accepts. Everything under
// the avatars/ prefix is written here and nowhere else.
const (
	avatarKeyPrefix = "avatars/"
	maxAvatarBytes  = 5 * 1024 * 1024
)

// Extension is derived from the sniffed content type, not the filename,
// so a renamed binary cannot land on the CDN as an "image".
var avatarExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

var (
	ErrAvatarTooLarge = errors.New("avatar exceeds the 5MB limit")
	ErrAvatarNotImage = errors.New("avatar must be a PNG, JPEG, GIF or WebP image")
)

var (
	r2Client   *s3.Client
	r2Bucket   string
	cdnBaseURL string
)

// InitR2 configures the S3-compatible client for avatar storage.
func InitR2() error {
	accountID := os.Getenv("CLOUDFLARE_ACCOUNT_ID")
	accessKeyID := os.Getenv("R2_ACCESS_KEY_ID")
	accessKeySecret := os.Getenv("R2_ACCESS_KEY_SECRET")
	r2Bucket = os.Getenv("R2_BUCKET_NAME")

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)
	cdnBaseURL = os.Getenv("CDN_BASE_URL")
	if cdnBaseURL == "" {
		cdnBaseURL = endpoint
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion("auto"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKeyID, accessKeySecret, "",
		)),
	)
	if err != nil {
		return fmt.Errorf("failed to load R2 config: %w", err)
	}

	r2Client = s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})
	return nil
}

// UploadAvatar validates a profile-picture upload and stores it under a
// fresh key in the avatars/ namespace, returning the public CDN URL.
// Rejections (ErrAvatarTooLarge, ErrAvatarNotImage) happen before any
// byte reaches the bucket.
func UploadAvatar(fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader.Size > maxAvatarBytes {
		return "", ErrAvatarTooLarge
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open avatar: %w", err)
	}
	defer file.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, io.LimitReader(file, maxAvatarBytes+1)); err != nil {
		return "", fmt.Errorf("failed to read avatar: %w", err)
	}
	if buf.Len() > maxAvatarBytes {
		return "", ErrAvatarTooLarge
	}

	contentType := http.DetectContentType(buf.Bytes())
	ext, ok := avatarExtensions[contentType]
	if !ok {
		return "", ErrAvatarNotImage
	}

	key := avatarKeyPrefix + uuid.NewString() + ext
	_, err = r2Client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(r2Bucket),
		Key:         aws.String(key),
		Body:        buf,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	return fmt.Sprintf("%s/%s", cdnBaseURL, key), nil
}
