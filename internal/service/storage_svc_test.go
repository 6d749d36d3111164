package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ==================== 提供者工厂 ====================

func TestNewStorageProvider_SelectsByConfig(t *testing.T) {
	dir := t.TempDir()

	p, err := NewStorageProvider(&StorageConfig{Provider: "local", BasePath: dir})
	if err != nil {
		t.Fatalf("local 提供者创建失败: %v", err)
	}
	if _, ok := p.(*LocalStorage); !ok {
		t.Errorf("应返回 *LocalStorage, got %T", p)
	}

	// 未配置时默认本地
	p, err = NewStorageProvider(&StorageConfig{BasePath: dir})
	if err != nil {
		t.Fatalf("默认提供者创建失败: %v", err)
	}
	if _, ok := p.(*LocalStorage); !ok {
		t.Errorf("默认应为 *LocalStorage, got %T", p)
	}

	if _, err := NewStorageProvider(&StorageConfig{Provider: "ftp"}); err == nil {
		t.Error("未知提供者应报错")
	}
}

// ==================== 本地提供者 ====================

func TestLocalStorage_UploadAndDelete(t *testing.T) {
	dir := t.TempDir()
	p, err := NewLocalStorage(&StorageConfig{BasePath: dir, BaseURL: "/static/uploads"})
	if err != nil {
		t.Fatalf("创建本地提供者失败: %v", err)
	}
	ctx := context.Background()

	url, err := p.Upload(ctx, []byte("jpeg-data"), "cover.jpg", "")
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if url != "/static/uploads/cover.jpg" {
		t.Errorf("URL 错误: %q", url)
	}
	if _, err := os.Stat(filepath.Join(dir, "cover.jpg")); err != nil {
		t.Errorf("文件应已写入: %v", err)
	}

	if err := p.Delete(ctx, url); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "cover.jpg")); !os.IsNotExist(err) {
		t.Error("文件应已删除")
	}

	// 重复删除为空操作
	if err := p.Delete(ctx, url); err != nil {
		t.Errorf("删除不存在的文件不应报错: %v", err)
	}
}

// ==================== S3 key 与 URL ====================

func TestS3Storage_KeyAndURL(t *testing.T) {
	s := &S3Storage{bucket: "estate-photos", region: "ap-south-1", basePath: "listings"}

	key := s.buildKey("abc.jpg")
	if !strings.HasPrefix(key, "listings/") || !strings.HasSuffix(key, "/abc.jpg") {
		t.Errorf("key 应按日期分目录: %q", key)
	}

	url := s.publicURL(key)
	if !strings.HasPrefix(url, "https://estate-photos.s3.ap-south-1.amazonaws.com/") {
		t.Errorf("公开URL错误: %q", url)
	}
	if got := s.extractKey(url); got != key {
		t.Errorf("extractKey 应还原 key, got %q want %q", got, key)
	}

	// CDN 域名优先
	s.cdnDomain = "img.example.com"
	url = s.publicURL(key)
	if url != "https://img.example.com/"+key {
		t.Errorf("CDN URL 错误: %q", url)
	}
	if got := s.extractKey(url); got != key {
		t.Errorf("CDN extractKey 应还原 key, got %q", got)
	}
}

// ==================== 临时区生命周期 ====================

func TestStorageService_PromoteMovesToProvider(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewStorageService(&StorageConfig{
		Provider: "local",
		BasePath: dir,
		BaseURL:  "/static/uploads",
		TempDir:  filepath.Join(dir, "tmp"),
	})
	if err != nil {
		t.Fatalf("创建存储服务失败: %v", err)
	}

	previewURL, release, err := svc.SaveTemp("a.jpg", strings.NewReader("jpeg-data"))
	if err != nil {
		t.Fatalf("SaveTemp() error = %v", err)
	}
	if !svc.IsTemp(previewURL) {
		t.Errorf("预览应指向临时区: %q", previewURL)
	}

	permanent, err := svc.Promote(context.Background(), previewURL)
	if err != nil {
		t.Fatalf("Promote() error = %v", err)
	}
	if svc.IsTemp(permanent) {
		t.Errorf("转正后不应再指向临时区: %q", permanent)
	}
	if _, err := os.Stat(filepath.Join(dir, filepath.Base(permanent))); err != nil {
		t.Errorf("正式区文件应存在: %v", err)
	}

	// 转正后释放为空操作
	if err := release(); err != nil {
		t.Errorf("转正后的释放应为空操作: %v", err)
	}
}
