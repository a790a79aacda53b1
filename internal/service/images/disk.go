package images

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// DiskStore хранит изображения товаров на локальном диске и выдаёт
// ссылки вида <baseURL>/<uuid>.<ext>, которыми оперирует каталог.
type DiskStore struct {
	baseDir string
	baseURL string
	logger  *log.Entry
}

var _ domain.ImageStore = (*DiskStore)(nil)

// NewDiskStore создаёт хранилище в каталоге baseDir; каталог создаётся
// при необходимости. baseURL — публичный префикс выдаваемых ссылок.
func NewDiskStore(baseDir, baseURL string, logger *log.Entry) (*DiskStore, error) {
	if logger == nil {
		logger = log.New().WithField("component", "image-store")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}
	return &DiskStore{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}, nil
}

// Upload сохраняет файл под новым uuid-именем, расширение берётся из
// исходного имени. Возвращает публичную ссылку.
func (s *DiskStore) Upload(filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("image payload is empty")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	name := uuid.NewString() + ext
	path := filepath.Join(s.baseDir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}

	s.logger.WithFields(log.Fields{
		"file": name,
		"size": len(data),
	}).Info("image stored")

	return s.baseURL + "/" + name, nil
}

// Remove удаляет файл по ранее выданной ссылке. Чужие ссылки (не под
// baseURL) и уже отсутствующие файлы не считаются ошибкой.
func (s *DiskStore) Remove(ref string) error {
	name, ok := strings.CutPrefix(ref, s.baseURL+"/")
	if !ok {
		return nil
	}
	// Только плоские имена: ссылка не должна выводить за пределы каталога.
	if name == "" || name != filepath.Base(name) {
		return fmt.Errorf("malformed image ref %q", ref)
	}

	err := os.Remove(filepath.Join(s.baseDir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}
