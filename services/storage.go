package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Storage 上传文件的存储，返回的路径写入 VideoMedia.FilePath
type Storage interface {
	Save(ctx context.Context, folder, filename, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// storageKey 生成 folder/2025/01/02/<uuid>.ext 形式的路径
func storageKey(folder, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return path.Join(folder, time.Now().Format("2006/01/02"), uuid.NewString()+ext)
}

// LocalStorage 保存到本地目录
type LocalStorage struct {
	BasePath string
	BaseURL  string
}

// NewLocalStorage 创建本地存储
func NewLocalStorage(basePath, baseURL string) *LocalStorage {
	return &LocalStorage{BasePath: basePath, BaseURL: baseURL}
}

func (l *LocalStorage) Save(ctx context.Context, folder, filename, contentType string, r io.Reader) (string, error) {
	key := storageKey(folder, filename)
	fullPath := filepath.Join(l.BasePath, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(fullPath), os.ModePerm); err != nil {
		return "", errors.Wrap(err, "创建目录失败")
	}

	out, err := os.Create(fullPath)
	if err != nil {
		return "", errors.Wrap(err, "创建文件失败")
	}
	defer out.Close()

	if _, err := io.Copy(out, r); err != nil {
		os.Remove(fullPath)
		return "", errors.Wrap(err, "写入文件失败")
	}
	return key, nil
}

func (l *LocalStorage) Delete(ctx context.Context, key string) error {
	err := os.Remove(filepath.Join(l.BasePath, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "删除文件失败")
	}
	return nil
}

func (l *LocalStorage) URL(key string) string {
	return strings.TrimRight(l.BaseURL, "/") + "/" + key
}

// S3Storage 保存到 S3 存储桶
type S3Storage struct {
	client     *s3.Client
	bucketName string
	region     string
}

// NewS3Storage 使用默认凭证链创建 S3 存储
func NewS3Storage(ctx context.Context, bucketName, region string) (*S3Storage, error) {
	if bucketName == "" {
		return nil, errors.New("未配置 S3_BUCKET")
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, errors.Wrap(err, "加载 AWS 配置失败")
	}
	return &S3Storage{
		client:     s3.NewFromConfig(cfg),
		bucketName: bucketName,
		region:     region,
	}, nil
}

func (s *S3Storage) Save(ctx context.Context, folder, filename, contentType string, r io.Reader) (string, error) {
	key := storageKey(folder, filename)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
		Metadata:    map[string]string{"filename": filename},
	})
	if err != nil {
		return "", errors.Wrap(err, "上传到 S3 失败")
	}
	return key, nil
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	return errors.Wrap(err, "删除 S3 对象失败")
}

func (s *S3Storage) URL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucketName, s.region, key)
}
