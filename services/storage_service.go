package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"organize.it/configs"
	"organize.it/configs/configslog"
	"organize.it/models"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

type StorageServiceError string

func (e StorageServiceError) Error() string { return string(e) }

const (
	ErrFileTypeNotAllowed StorageServiceError = "File type not allowed. Allowed types: png, jpg, jpeg, gif."
	ErrFileTooLarge       StorageServiceError = "The uploaded file is too large."
	ErrFileNotFound       StorageServiceError = "file not found"
	ErrInvalidFileName    StorageServiceError = "invalid file name"
)

// IStorageService profil resimlerini saklar ve geri okur.
type IStorageService interface {
	SaveProfilePicture(ctx context.Context, originalName string, r io.Reader, size int64) (string, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, name string) error
}

type storageRules struct {
	allowed  map[string]struct{}
	maxBytes int64
}

func newStorageRules(cfg configs.StorageConfig) storageRules {
	allowed := make(map[string]struct{}, len(cfg.AllowedExtensions))
	for _, ext := range cfg.AllowedExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" {
			allowed[strings.TrimPrefix(ext, ".")] = struct{}{}
		}
	}
	return storageRules{allowed: allowed, maxBytes: int64(cfg.MaxUploadBytes)}
}

// objectName uzantıyı doğrular ve tahmin edilemez bir dosya adı üretir.
func (r storageRules) objectName(originalName string, size int64) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(originalName), "."))
	if _, ok := r.allowed[ext]; !ok || ext == "" {
		return "", ErrFileTypeNotAllowed
	}
	if r.maxBytes > 0 && size > r.maxBytes {
		return "", ErrFileTooLarge
	}
	return uuid.NewString() + "." + ext, nil
}

// cleanName dizin kaçışlarını engeller.
func cleanName(name string) (string, error) {
	base := filepath.Base(name)
	if base == "." || base == "/" || base != name || strings.HasPrefix(base, "..") {
		return "", ErrInvalidFileName
	}
	return base, nil
}

// LocalStorageService dosyaları UPLOAD_DIR altında tutar.
type LocalStorageService struct {
	dir   string
	rules storageRules
}

func NewLocalStorageService(cfg configs.StorageConfig) (*LocalStorageService, error) {
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("upload dizini oluşturulamadı: %w", err)
	}
	return &LocalStorageService{dir: cfg.UploadDir, rules: newStorageRules(cfg)}, nil
}

func (s *LocalStorageService) SaveProfilePicture(ctx context.Context, originalName string, r io.Reader, size int64) (string, error) {
	name, err := s.rules.objectName(originalName, size)
	if err != nil {
		return "", err
	}
	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		_ = os.Remove(f.Name())
		return "", err
	}
	configslog.Log.Info("Profil resmi kaydedildi", zap.String("name", name))
	return name, nil
}

func (s *LocalStorageService) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	return f, nil
}

func (s *LocalStorageService) Delete(ctx context.Context, name string) error {
	if name == "" || name == models.DefaultProfilePicture {
		return nil
	}
	name, err := cleanName(name)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// MinioStorageService dosyaları bir MinIO bucket'ında tutar.
type MinioStorageService struct {
	client *minio.Client
	bucket string
	rules  storageRules
}

// NewMinioStorageService istemciyi oluşturur, bucket yoksa açar.
func NewMinioStorageService(ctx context.Context, cfg configs.StorageConfig) (*MinioStorageService, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("MinIO istemcisi oluşturulamadı: %w", err)
	}
	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("bucket kontrol edilemedi: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("bucket oluşturulamadı: %w", err)
		}
	}
	configslog.SLog.Infof("MinIO bağlantısı kuruldu: %s/%s", cfg.MinioEndpoint, cfg.MinioBucket)
	return &MinioStorageService{client: client, bucket: cfg.MinioBucket, rules: newStorageRules(cfg)}, nil
}

func (s *MinioStorageService) SaveProfilePicture(ctx context.Context, originalName string, r io.Reader, size int64) (string, error) {
	name, err := s.rules.objectName(originalName, size)
	if err != nil {
		return "", err
	}
	_, err = s.client.PutObject(ctx, s.bucket, name, r, size, minio.PutObjectOptions{
		ContentType: ContentTypeFor(name),
	})
	if err != nil {
		return "", fmt.Errorf("dosya yüklenemedi: %w", err)
	}
	return name, nil
}

func (s *MinioStorageService) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	obj, err := s.client.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	return obj, nil
}

func (s *MinioStorageService) Delete(ctx context.Context, name string) error {
	if name == "" || name == models.DefaultProfilePicture {
		return nil
	}
	return s.client.RemoveObject(ctx, s.bucket, name, minio.RemoveObjectOptions{})
}

// NewStorageService STORAGE_DRIVER'a göre uygun depolamayı seçer.
func NewStorageService(ctx context.Context, cfg configs.StorageConfig) (IStorageService, error) {
	switch cfg.Driver {
	case "minio":
		return NewMinioStorageService(ctx, cfg)
	case "", "local":
		return NewLocalStorageService(cfg)
	default:
		return nil, fmt.Errorf("bilinmeyen STORAGE_DRIVER: %s", cfg.Driver)
	}
}

// ContentTypeFor dosya uzantısından Content-Type.
func ContentTypeFor(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}

var (
	_ IStorageService = (*LocalStorageService)(nil)
	_ IStorageService = (*MinioStorageService)(nil)
)
