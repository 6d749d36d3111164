package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// ==================== 存储提供者 ====================

// StorageProvider 正式区存储提供者接口
// 临时预览始终落本地磁盘，发布转正时经由提供者写入正式区
type StorageProvider interface {
	// Upload 写入正式区，返回公开访问URL
	Upload(ctx context.Context, data []byte, filename, contentType string) (string, error)
	// Delete 按URL删除正式区文件
	Delete(ctx context.Context, url string) error
}

// StorageConfig 存储配置
type StorageConfig struct {
	Provider  string // "s3" | "local"
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	CDNDomain string // CDN域名（可选）
	BasePath  string // 本地正式目录 / S3 key 前缀
	BaseURL   string // 本地访问前缀，如 "/static/uploads"
	TempDir   string // 临时预览目录
}

// NewStorageProvider 按配置创建存储提供者，开发环境默认本地磁盘
func NewStorageProvider(cfg *StorageConfig) (StorageProvider, error) {
	switch cfg.Provider {
	case "s3":
		return NewS3Storage(cfg)
	case "local", "":
		return NewLocalStorage(cfg)
	default:
		return nil, fmt.Errorf("不支持的存储提供者: %s", cfg.Provider)
	}
}

// ==================== StorageService 图片存储服务 ====================

// StorageService 组合临时预览生命周期与正式区存储提供者
// 向导会话中的上传先落临时区拿预览 URL，发布时转正到提供者
type StorageService struct {
	provider StorageProvider
	TempDir  string // 临时预览目录，如 "./static/uploads/tmp"
	baseURL  string // 临时预览访问前缀
}

// NewStorageService 创建存储服务，确保临时目录存在
func NewStorageService(cfg *StorageConfig) (*StorageService, error) {
	provider, err := NewStorageProvider(cfg)
	if err != nil {
		return nil, err
	}

	tempDir := cfg.TempDir
	if tempDir == "" {
		tempDir = filepath.Join("./static/uploads", "tmp")
	}
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return nil, fmt.Errorf("创建临时目录失败: %v", err)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "/static/uploads"
	}

	return &StorageService{
		provider: provider,
		TempDir:  tempDir,
		baseURL:  baseURL,
	}, nil
}

// Provider 底层存储提供者
func (s *StorageService) Provider() StorageProvider {
	return s.provider
}

// SaveTemp 将上传内容写入临时区，返回预览 URL 和释放函数
// 释放函数删除临时文件；文件已被转正时删除为空操作
func (s *StorageService) SaveTemp(fileName string, src io.Reader) (string, func() error, error) {
	ext := filepath.Ext(fileName)
	if ext == "" {
		ext = ".jpg"
	}
	name := uuid.NewString() + ext
	path := filepath.Join(s.TempDir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", nil, fmt.Errorf("创建临时文件失败: %v", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(path)
		return "", nil, fmt.Errorf("写入临时文件失败: %v", err)
	}
	if err := dst.Close(); err != nil {
		return "", nil, err
	}

	previewURL := fmt.Sprintf("%s/tmp/%s", s.baseURL, name)
	release := func() error {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}
	return previewURL, release, nil
}

// Promote 将临时预览转正到正式区，返回永久 URL
func (s *StorageService) Promote(ctx context.Context, previewURL string) (string, error) {
	name := filepath.Base(previewURL)
	path := filepath.Join(s.TempDir, name)

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("读取临时文件失败: %v", err)
	}
	url, err := s.provider.Upload(ctx, data, name, "")
	if err != nil {
		return "", fmt.Errorf("图片转正失败: %v", err)
	}
	_ = os.Remove(path)
	return url, nil
}

// IsTemp 判断 URL 是否指向临时区
func (s *StorageService) IsTemp(url string) bool {
	return strings.Contains(url, "/tmp/")
}

// ==================== S3 实现 ====================

type S3Storage struct {
	client    *s3.Client
	bucket    string
	region    string
	cdnDomain string
	basePath  string
}

func NewS3Storage(cfg *StorageConfig) (*S3Storage, error) {
	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("加载AWS配置失败: %v", err)
	}

	return &S3Storage{
		client:    s3.NewFromConfig(awsCfg),
		bucket:    cfg.Bucket,
		region:    cfg.Region,
		cdnDomain: cfg.CDNDomain,
		basePath:  cfg.BasePath,
	}, nil
}

func (s *S3Storage) Upload(ctx context.Context, data []byte, filename, contentType string) (string, error) {
	key := s.buildKey(filename)

	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("上传S3失败: %v", err)
	}

	return s.publicURL(key), nil
}

func (s *S3Storage) Delete(ctx context.Context, url string) error {
	key := s.extractKey(url)
	if key == "" {
		return fmt.Errorf("无法解析文件路径")
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

// buildKey 按日期分目录存放，文件名已在临时区唯一化
func (s *S3Storage) buildKey(filename string) string {
	datePath := time.Now().Format("2006/01/02")
	if s.basePath != "" {
		return fmt.Sprintf("%s/%s/%s", s.basePath, datePath, filename)
	}
	return fmt.Sprintf("%s/%s", datePath, filename)
}

func (s *S3Storage) publicURL(key string) string {
	if s.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", s.cdnDomain, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

func (s *S3Storage) extractKey(url string) string {
	if s.cdnDomain != "" && strings.Contains(url, s.cdnDomain) {
		return strings.TrimPrefix(url, fmt.Sprintf("https://%s/", s.cdnDomain))
	}
	prefix := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", s.bucket, s.region)
	return strings.TrimPrefix(url, prefix)
}

// ==================== 本地实现（开发默认） ====================

type LocalStorage struct {
	basePath string
	baseURL  string
}

func NewLocalStorage(cfg *StorageConfig) (*LocalStorage, error) {
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "./static/uploads"
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "/static/uploads"
	}
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("创建存储目录失败: %v", err)
	}

	return &LocalStorage{basePath: basePath, baseURL: baseURL}, nil
}

func (s *LocalStorage) Upload(ctx context.Context, data []byte, filename, contentType string) (string, error) {
	if err := os.WriteFile(filepath.Join(s.basePath, filename), data, 0644); err != nil {
		return "", fmt.Errorf("写入文件失败: %v", err)
	}
	return fmt.Sprintf("%s/%s", s.baseURL, filename), nil
}

func (s *LocalStorage) Delete(ctx context.Context, url string) error {
	err := os.Remove(filepath.Join(s.basePath, filepath.Base(url)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
