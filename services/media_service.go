package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"log"
	"mime/multipart"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	"github.com/techagentng/chatterbox/config"
	"github.com/techagentng/chatterbox/db"
)

const (
	MaxFileSize      = 5 * 1024 * 1024 // 5 MB
	avatarSize       = 256
	messageImageMaxW = 1280
)

// MediaService interface
type MediaService interface {
	UploadAvatar(userID uint, file multipart.File, header *multipart.FileHeader) (string, error)
	UploadMessageImage(userID uint, file multipart.File, header *multipart.FileHeader) (string, error)
}

type mediaService struct {
	Config   *config.Config
	authRepo db.AuthRepository
}

// NewMediaService instantiate a mediaService
func NewMediaService(authRepo db.AuthRepository, conf *config.Config) MediaService {
	return &mediaService{
		Config:   conf,
		authRepo: authRepo,
	}
}

func createS3Client() (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(os.Getenv("AWS_REGION")),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			os.Getenv("AWS_ACCESS_KEY_ID"),
			os.Getenv("AWS_SECRET_ACCESS_KEY"),
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config, %v", err)
	}
	return s3.NewFromConfig(cfg), nil
}

func uploadToS3(client *s3.Client, content []byte, bucketName, key string) (string, error) {
	_, err := client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String("image/jpeg"),
		ACL:         types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %v", err)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucketName, os.Getenv("AWS_REGION"), key), nil
}

func validateFile(header *multipart.FileHeader) error {
	if header.Size > MaxFileSize {
		return fmt.Errorf("file size exceeds limit of %d bytes", MaxFileSize)
	}
	mimeType := header.Header.Get("Content-Type")
	switch mimeType {
	case "image/jpeg", "image/png", "image/gif":
		return nil
	}
	return fmt.Errorf("invalid file type: %s", mimeType)
}

// UploadAvatar squares the image to a thumbnail, pushes it to S3, and records
// it against the user.
func (m *mediaService) UploadAvatar(userID uint, file multipart.File, header *multipart.FileHeader) (string, error) {
	if err := validateFile(header); err != nil {
		return "", err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %v", err)
	}
	thumb := imaging.Fill(img, avatarSize, avatarSize, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("failed to encode thumbnail: %v", err)
	}

	s3Client, err := createS3Client()
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("avatars/%d_%s", userID, header.Filename)
	fileURL, err := uploadToS3(s3Client, buf.Bytes(), m.Config.AwsBucket, key)
	if err != nil {
		log.Printf("UploadAvatar error: %v", err)
		return "", err
	}

	if err := m.authRepo.UpsertUserImage(userID, fileURL); err != nil {
		log.Printf("UploadAvatar error recording image: %v", err)
		return "", err
	}
	return fileURL, nil
}

// UploadMessageImage caps the image width before upload; chat images don't
// need to be larger than the viewport.
func (m *mediaService) UploadMessageImage(userID uint, file multipart.File, header *multipart.FileHeader) (string, error) {
	if err := validateFile(header); err != nil {
		return "", err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %v", err)
	}
	if img.Bounds().Dx() > messageImageMaxW {
		img = resize.Resize(messageImageMaxW, 0, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("failed to encode image: %v", err)
	}

	s3Client, err := createS3Client()
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("messages/%d_%s", userID, header.Filename)
	fileURL, err := uploadToS3(s3Client, buf.Bytes(), m.Config.AwsBucket, key)
	if err != nil {
		log.Printf("UploadMessageImage error: %v", err)
		return "", err
	}
	return fileURL, nil
}
